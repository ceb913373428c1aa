package models

import (
	"time"

	"github.com/google/uuid"
)

/**
JobResponse is the record we keep of a job that was accepted. Status is the latest value that the backend reported.
*/
type JobResponse struct {
	Id           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Status       JobStatus  `json:"status"`
	JobType      JobType    `json:"job_type"`
	Dataset      uuid.UUID  `json:"dataset"`
	CreatedAt    time.Time  `json:"created_at"`
	ExperimentId *uuid.UUID `json:"experiment_id"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

/**
a fresh record, in the created state, for the given request
*/
func NewJobRecord(req *JobCreate, experimentId *uuid.UUID) JobResponse {
	return JobResponse{
		Id:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		Status:       JOB_CREATED,
		JobType:      req.Type(),
		Dataset:      req.Dataset,
		CreatedAt:    time.Now().UTC(),
		ExperimentId: experimentId,
	}
}

/**
returns a copy of the record with the new status and update time. The receiver is not changed.
*/
func (r JobResponse) WithNewStatus(newStatus JobStatus, at time.Time) JobResponse {
	updated := r
	updated.Status = newStatus
	updateTime := at.UTC()
	updated.UpdatedAt = &updateTime
	return updated
}
