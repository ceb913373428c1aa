package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis"
	"github.com/go-redis/redis/v7"
	"github.com/google/uuid"
	"github.com/guardian/modeljobs/common/models"
)

type recordingDeleter struct {
	deleted []uuid.UUID
}

func (d *recordingDeleter) DeleteJob(ctx context.Context, jobId uuid.UUID, dryRun bool) (bool, error) {
	d.deleted = append(d.deleted, jobId)
	return true, nil
}

func TestReaper_Run(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	defer s.Close()
	redisClient := redis.NewClient(&redis.Options{Addr: s.Addr()})

	cutoff := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	old := cutoff.Add(-48 * time.Hour)
	recent := cutoff.Add(time.Hour)

	makeRecord := func(status models.JobStatus, updated *time.Time) models.JobResponse {
		r := models.JobResponse{
			Id:        uuid.New(),
			Name:      "job",
			Status:    status,
			JobType:   models.JOB_TYPE_INFERENCE,
			Dataset:   uuid.New(),
			CreatedAt: old,
			UpdatedAt: updated,
		}
		if storeErr := r.Store(redisClient); storeErr != nil {
			t.Fatalf("could not store record: %s", storeErr)
		}
		return r
	}

	oldSucceeded := makeRecord(models.JOB_SUCCEEDED, &old)
	makeRecord(models.JOB_FAILED, &recent)
	makeRecord(models.JOB_RUNNING, &old)
	oldStoppedNoUpdate := makeRecord(models.JOB_STOPPED, nil)

	deleter := &recordingDeleter{}
	toTest := Reaper{
		redisClient:  redisClient,
		backend:      deleter,
		cutoffTime:   cutoff,
		purgeRecords: true,
	}
	removed, runErr := toTest.Run(context.Background())
	if runErr != nil {
		t.Fatalf("Run failed: %s", runErr)
	}
	if removed != 2 || len(deleter.deleted) != 2 {
		t.Fatalf("expected two jobs to be removed, got %d (%v)", removed, deleter.deleted)
	}
	for _, id := range []uuid.UUID{oldSucceeded.Id, oldStoppedNoUpdate.Id} {
		stored, _ := models.JobRecordForId(id, redisClient)
		if stored != nil {
			t.Errorf("record %s should have been purged", id)
		}
	}

	remaining, _ := models.ListJobRecords(redisClient, nil, 0)
	if len(remaining) != 2 {
		t.Errorf("expected the recent and running jobs to be kept, got %d", len(remaining))
	}
}
