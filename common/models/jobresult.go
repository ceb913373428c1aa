package models

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

/**
JobResultObject accumulates what a job has produced so far. Update it with Merge.
It is not safe for concurrent writers, one owner per instance.
*/
type JobResultObject struct {
	Metrics    map[string]interface{} `json:"metrics"`
	Parameters map[string]interface{} `json:"parameters"`
	Artifacts  map[string]interface{} `json:"artifacts"`
}

func NewJobResultObject() *JobResultObject {
	return &JobResultObject{
		Metrics:    map[string]interface{}{},
		Parameters: map[string]interface{}{},
		Artifacts:  map[string]interface{}{},
	}
}

/**
folds `other` into the receiver. For each of metrics, parameters and artifacts, the top-level entries of a non-empty
map in `other` overwrite or extend the receiver's; an empty map leaves the receiver's alone.
Nested values are replaced wholesale, not merged. Later merges win on conflicting keys.
*/
func (r *JobResultObject) Merge(other *JobResultObject) {
	if other == nil {
		return
	}
	r.Metrics = mergeTopLevel(r.Metrics, other.Metrics)
	r.Parameters = mergeTopLevel(r.Parameters, other.Parameters)
	r.Artifacts = mergeTopLevel(r.Artifacts, other.Artifacts)
}

func mergeTopLevel(into map[string]interface{}, from map[string]interface{}) map[string]interface{} {
	if len(from) == 0 {
		return into
	}
	if into == nil {
		into = make(map[string]interface{}, len(from))
	}
	for k, v := range from {
		into[k] = v
	}
	return into
}

/**
the side-effect free form of Merge: returns a new object and leaves both arguments untouched
*/
func MergeJobResults(base *JobResultObject, update *JobResultObject) (*JobResultObject, error) {
	rtn := NewJobResultObject()
	if base != nil {
		if err := copier.CopyWithOption(rtn, base, copier.Option{DeepCopy: true}); err != nil {
			return nil, errors.Wrap(err, "could not copy result object")
		}
	}
	if update != nil {
		//copy the update too, so that the result shares no nested values with either argument
		updateCopy := NewJobResultObject()
		if err := copier.CopyWithOption(updateCopy, update, copier.Option{DeepCopy: true}); err != nil {
			return nil, errors.Wrap(err, "could not copy result update")
		}
		rtn.Merge(updateCopy)
	}
	return rtn, nil
}

func (r *JobResultObject) IsEmpty() bool {
	return r == nil || (len(r.Metrics) == 0 && len(r.Parameters) == 0 && len(r.Artifacts) == 0)
}

/**
reads stored output into a JobResultObject. Keys other than metrics, parameters and artifacts are ignored.
One of those three holding something other than a mapping is a ValidationError; null or an empty value
counts as an empty mapping.
*/
func JobResultObjectFromMap(mapData map[string]interface{}) (*JobResultObject, error) {
	verrs := newValidationErrors("JobResultObject")
	rtn := NewJobResultObject()

	fields := []struct {
		key    string
		target *map[string]interface{}
	}{
		{"metrics", &rtn.Metrics},
		{"parameters", &rtn.Parameters},
		{"artifacts", &rtn.Artifacts},
	}
	for _, f := range fields {
		raw := mapData[f.key]
		if isEmptyValue(raw) {
			continue
		}
		asMap, isMap := raw.(map[string]interface{})
		if !isMap {
			verrs.add(f.key, "input should be a valid dictionary, got %T", raw)
			continue
		}
		*f.target = asMap
	}
	if err := verrs.err(); err != nil {
		return nil, err
	}
	return rtn, nil
}

func isEmptyValue(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return v.Len() == 0
	default:
		return false
	}
}

/**
JobResultResponse links a stored result to its job
*/
type JobResultResponse struct {
	Id    uuid.UUID `json:"id"`
	JobId uuid.UUID `json:"job_id"`
}

type JobResultDownloadResponse struct {
	Id          uuid.UUID `json:"id"`
	DownloadUrl string    `json:"download_url"`
}

type JobResults struct {
	Id          uuid.UUID              `json:"id"`
	Metrics     map[string]interface{} `json:"metrics"`
	Parameters  map[string]interface{} `json:"parameters"`
	MetricUrl   string                 `json:"metric_url"`
	ArtifactUrl string                 `json:"artifact_url"`
}

type JobLogsResponse struct {
	Logs string `json:"logs"`
}

/**
a status change notification for a job
*/
type JobEvent struct {
	JobId   uuid.UUID `json:"job_id"`
	JobType JobType   `json:"job_type"`
	Status  JobStatus `json:"status"`
	Detail  *string   `json:"detail"`
}

/**
JobConfig is what is handed to the execution backend to launch a job
*/
type JobConfig struct {
	JobId   uuid.UUID `json:"job_id"`
	JobType JobType   `json:"job_type"`
	Command string    `json:"command"`
	Args    string    `json:"args"`
}
