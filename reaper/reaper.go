package main

import (
	"context"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/google/uuid"
	"github.com/guardian/modeljobs/common/models"
	log "github.com/sirupsen/logrus"
)

type JobDeleter interface {
	DeleteJob(ctx context.Context, jobId uuid.UUID, dryRun bool) (bool, error)
}

/**
Reaper removes the kubernetes jobs of model jobs that reached a terminal state before the cutoff time
*/
type Reaper struct {
	redisClient  *redis.Client
	backend      JobDeleter
	cutoffTime   time.Time
	dryRun       bool
	purgeRecords bool
}

/**
a record is old enough to reap if it is terminal and was last updated before the cutoff.
records that never had a status update fall back to their creation time
*/
func (r Reaper) isReapable(record models.JobResponse) bool {
	if !record.Status.IsTerminal() {
		return false
	}
	lastChange := record.CreatedAt
	if record.UpdatedAt != nil {
		lastChange = *record.UpdatedAt
	}
	return lastChange.Before(r.cutoffTime)
}

func (r Reaper) ProcessJob(ctx context.Context, record models.JobResponse) (bool, error) {
	if !r.isReapable(record) {
		return false, nil
	}
	log.Printf("Removing old job with id %s", record.Id)
	deleted, err := r.backend.DeleteJob(ctx, record.Id, r.dryRun)
	if err != nil {
		log.Printf("ERROR: Could not delete k8s job for %s: %s", record.Id, err)
		//not a fatal error
		return false, nil
	}
	if r.purgeRecords && !r.dryRun {
		if removeErr := record.Remove(r.redisClient); removeErr != nil {
			return deleted, removeErr
		}
	}
	return deleted, nil
}

/**
goes through every terminal job and returns how many were removed
*/
func (r Reaper) Run(ctx context.Context) (int, error) {
	removed := 0
	for _, status := range []models.JobStatus{models.JOB_SUCCEEDED, models.JOB_FAILED, models.JOB_STOPPED} {
		statusCopy := status
		records, listErr := models.ListJobRecords(r.redisClient, &statusCopy, 0)
		if listErr != nil {
			return removed, listErr
		}
		for _, record := range records {
			deleted, procErr := r.ProcessJob(ctx, record)
			if procErr != nil {
				return removed, procErr
			}
			if deleted {
				removed++
			}
		}
	}
	return removed, nil
}
