package models

import (
	"encoding/json"

	"github.com/pkg/errors"
)

/**
Job is the externally visible view of a job: our own record plus the backend's normalised submission record.
Both define a status. The record's typed one is authoritative, see Status().
*/
type Job struct {
	Record     JobResponse
	Submission JobSubmissionResponse
}

/**
builds a Job view from our record and the raw backend payload, which is normalised on the way in
*/
func NewJob(record JobResponse, rawSubmission map[string]interface{}) (*Job, error) {
	submission, err := NormalizeSubmissionResponse(rawSubmission)
	if err != nil {
		return nil, err
	}
	return &Job{Record: record, Submission: *submission}, nil
}

func (j Job) Status() JobStatus {
	return j.Record.Status
}

/**
the status string exactly as the backend reported it, or "" if it sent none
*/
func (j Job) SubmissionStatus() string {
	if j.Submission.Status == nil {
		return ""
	}
	return *j.Submission.Status
}

/**
serialises the union of both records. Where a field exists in both, the record's value is used
*/
func (j Job) MarshalJSON() ([]byte, error) {
	merged, err := jsonObjectOf(j.Submission)
	if err != nil {
		return nil, errors.Wrap(err, "could not serialise submission")
	}
	record, err := jsonObjectOf(j.Record)
	if err != nil {
		return nil, errors.Wrap(err, "could not serialise job record")
	}
	for k, v := range record {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func jsonObjectOf(value interface{}) (map[string]json.RawMessage, error) {
	content, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var rtn map[string]json.RawMessage
	if err := json.Unmarshal(content, &rtn); err != nil {
		return nil, err
	}
	return rtn, nil
}
