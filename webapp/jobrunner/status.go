package jobrunner

import (
	"time"

	v1batch "k8s.io/api/batch/v1"
	v12 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	BACKEND_PENDING   = "PENDING"
	BACKEND_RUNNING   = "RUNNING"
	BACKEND_SUCCEEDED = "SUCCEEDED"
	BACKEND_FAILED    = "FAILED"
	BACKEND_STOPPED   = "STOPPED"
)

/**
maps the state of a kubernetes Job onto the backend status strings.
terminal conditions win, then suspension, then the pod counters
*/
func BackendStatusFor(job *v1batch.Job) string {
	for _, cond := range job.Status.Conditions {
		if cond.Status != v12.ConditionTrue {
			continue
		}
		switch cond.Type {
		case v1batch.JobComplete:
			return BACKEND_SUCCEEDED
		case v1batch.JobFailed:
			return BACKEND_FAILED
		case v1batch.JobSuspended:
			return BACKEND_STOPPED
		}
	}
	if job.Spec.Suspend != nil && *job.Spec.Suspend {
		return BACKEND_STOPPED
	}

	switch {
	case job.Status.Active > 0:
		return BACKEND_RUNNING
	case job.Status.Succeeded > 0:
		return BACKEND_SUCCEEDED
	case job.Status.Failed > 0:
		return BACKEND_FAILED
	default:
		return BACKEND_PENDING
	}
}

func failureMessage(job *v1batch.Job) (string, *metav1.Time) {
	for _, cond := range job.Status.Conditions {
		if cond.Type == v1batch.JobFailed && cond.Status == v12.ConditionTrue {
			return cond.Message, &cond.LastTransitionTime
		}
	}
	return "", nil
}

/**
helper function to string-format a time that may be nil
*/
func safeTimeString(timeval *metav1.Time) interface{} {
	if timeval == nil || timeval.IsZero() {
		return nil
	}
	return timeval.UTC().Format(time.RFC3339)
}

/**
converts a kubernetes Job into the raw submission payload that models.NormalizeSubmissionResponse takes
*/
func SubmissionPayloadFor(job *v1batch.Job) map[string]interface{} {
	metadata := make(map[string]interface{}, len(job.Labels))
	for k, v := range job.Labels {
		metadata[k] = v
	}

	rtn := map[string]interface{}{
		"type":          "SUBMISSION",
		"submission_id": job.Name,
		"status":        BackendStatusFor(job),
		"entrypoint":    job.Annotations[ANNOTATION_ENTRYPOINT],
		"start_time":    safeTimeString(job.Status.StartTime),
		"end_time":      safeTimeString(job.Status.CompletionTime),
		"metadata":      metadata,
	}
	if msg, failedAt := failureMessage(job); failedAt != nil {
		rtn["message"] = msg
		rtn["error_type"] = "JOB_FAILED"
		if job.Status.CompletionTime == nil {
			rtn["end_time"] = safeTimeString(failedAt)
		}
	}
	return rtn
}
