package jobrunner

import (
	"context"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/google/uuid"
	"github.com/guardian/modeljobs/common/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	v1batch "k8s.io/api/batch/v1"
)

/**
JobBackend is the execution backend. JobLauncher is the kubernetes implementation
*/
type JobBackend interface {
	CreateJob(ctx context.Context, jobConfig *models.JobConfig, secretKeyName *string) (*v1batch.Job, error)
	SubmissionFor(ctx context.Context, jobId uuid.UUID) (map[string]interface{}, error)
	StopJob(ctx context.Context, jobId uuid.UUID) error
	JobLogs(ctx context.Context, jobId uuid.UUID) (string, error)
}

/**
JobRunner submits jobs to the backend and keeps our records in step with what the backend reports
*/
type JobRunner struct {
	redisClient  *redis.Client
	backend      JobBackend
	shutdownChan chan bool
}

func NewJobRunner(redisClient *redis.Client, backend JobBackend) *JobRunner {
	return &JobRunner{
		redisClient:  redisClient,
		backend:      backend,
		shutdownChan: make(chan bool),
	}
}

/**
records the request, then launches it. The record is returned in whichever state that left it:
pending if the launch worked, failed (along with the error) if it did not
*/
func (j *JobRunner) Submit(ctx context.Context, req *models.JobCreate, experimentId *uuid.UUID) (*models.JobResponse, error) {
	record := models.NewJobRecord(req, experimentId)
	if storeErr := record.Store(j.redisClient); storeErr != nil {
		return nil, storeErr
	}

	jobConfig, buildErr := BuildJobConfig(record.Id, req)
	if buildErr == nil {
		_, buildErr = j.backend.CreateJob(ctx, jobConfig, req.JobConfig.GetSecretKeyName())
	}
	if buildErr != nil {
		log.Printf("ERROR could not launch job %s: %s", record.Id, buildErr)
		failed := record.WithNewStatus(models.JOB_FAILED, time.Now())
		if storeErr := failed.Store(j.redisClient); storeErr != nil {
			log.Printf("ERROR could not mark job %s as failed: %s", record.Id, storeErr)
		}
		return &failed, buildErr
	}

	pending := record.WithNewStatus(models.JOB_PENDING, time.Now())
	if storeErr := pending.Store(j.redisClient); storeErr != nil {
		return nil, storeErr
	}
	return &pending, nil
}

/**
fetches the backend's view of the job, normalises it, and updates our record if the status has moved on.
returns nil, nil if we have no record of the job
*/
func (j *JobRunner) Reconcile(ctx context.Context, jobId uuid.UUID) (*models.Job, error) {
	record, getErr := models.JobRecordForId(jobId, j.redisClient)
	if getErr != nil || record == nil {
		return nil, getErr
	}

	payload, backendErr := j.backend.SubmissionFor(ctx, jobId)
	if backendErr != nil {
		return nil, backendErr
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}

	job, normaliseErr := models.NewJob(*record, payload)
	if normaliseErr != nil {
		return nil, errors.Wrapf(normaliseErr, "backend sent an invalid response for %s", jobId)
	}

	if reported, known := job.Submission.LifecycleStatus(); known && reported != record.Status {
		log.Printf("Job %s moved from %s to %s", jobId, record.Status, reported)
		updated := record.WithNewStatus(reported, time.Now())
		if storeErr := updated.Store(j.redisClient); storeErr != nil {
			return nil, storeErr
		}
		job.Record = updated
	}
	return job, nil
}

func (j *JobRunner) Stop(ctx context.Context, jobId uuid.UUID) error {
	return j.backend.StopJob(ctx, jobId)
}

func (j *JobRunner) Logs(ctx context.Context, jobId uuid.UUID) (*models.JobLogsResponse, error) {
	logs, err := j.backend.JobLogs(ctx, jobId)
	if err != nil {
		return nil, err
	}
	return &models.JobLogsResponse{Logs: logs}, nil
}

/**
reconciles every job that has not yet reached a terminal state
*/
func (j *JobRunner) reconcileTick(ctx context.Context) {
	for _, status := range []models.JobStatus{models.JOB_CREATED, models.JOB_PENDING, models.JOB_RUNNING} {
		statusCopy := status
		records, listErr := models.ListJobRecords(j.redisClient, &statusCopy, 0)
		if listErr != nil {
			log.Printf("ERROR could not list %s jobs: %s", status, listErr)
			continue
		}
		for _, r := range records {
			if _, err := j.Reconcile(ctx, r.Id); err != nil {
				log.Printf("ERROR could not reconcile job %s: %s", r.Id, err)
			}
		}
	}
}

/**
starts a goroutine that reconciles unfinished jobs every `interval`, until StopPolling is called
*/
func (j *JobRunner) StartPolling(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		log.Print("Started job status poller")
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				log.Debug("JobRunner poll tick")
				j.reconcileTick(context.Background())
			case <-j.shutdownChan:
				log.Print("Job status poller shutting down")
				return
			}
		}
	}()
}

func (j *JobRunner) StopPolling() {
	close(j.shutdownChan)
}
