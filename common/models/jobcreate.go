package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

/**
JobCreate is a request to run a job: a name, the dataset to run over and exactly one job-specific config,
selected by job_config.job_type
*/
type JobCreate struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Dataset     uuid.UUID         `json:"dataset"`
	MaxSamples  int               `json:"max_samples"`
	BatchSize   int               `json:"batch_size"`
	JobConfig   JobSpecificConfig `json:"job_config"`
}

const (
	UNLIMITED_SAMPLES = -1
)

func DecodeJobCreate(mapData map[string]interface{}) (*JobCreate, error) {
	return decodeJobCreate(mapData, "")
}

/**
decodes a request for one particular kind of job. A job_config that names a different kind is rejected,
one that names no kind at all gets `jobType`
*/
func DecodeJobCreateOfType(mapData map[string]interface{}, jobType JobType) (*JobCreate, error) {
	return decodeJobCreate(mapData, jobType)
}

func decodeJobCreate(mapData map[string]interface{}, expected JobType) (*JobCreate, error) {
	verrs := newValidationErrors("JobCreate")
	req := JobCreate{
		MaxSamples: UNLIMITED_SAMPLES,
		BatchSize:  1,
	}

	configMap, haveConfig, configErr := optionalMap(mapData, "job_config")
	switch {
	case configErr != nil:
		verrs.add("job_config", "%s", configErr)
	case !haveConfig:
		verrs.add("job_config", "field required")
	default:
		var jobConfig JobSpecificConfig
		var decodeErr error
		if expected == "" {
			jobConfig, decodeErr = DecodeJobSpecificConfig(configMap)
		} else {
			jobConfig, decodeErr = DecodeJobSpecificConfigOfType(configMap, expected)
		}
		verrs.merge("job_config", decodeErr)
		req.JobConfig = jobConfig
	}

	remainder := withoutKeys(mapData, "job_config")
	verrs.merge("", CustomisedMapStructureDecode("JobCreate", remainder, &req))

	if _, haveName := mapData["name"]; !haveName {
		verrs.add("name", "field required")
	}
	if _, haveDataset := mapData["dataset"]; !haveDataset {
		verrs.add("dataset", "field required")
	}
	if len(verrs.errors) > 0 {
		return nil, verrs.err()
	}
	if validationErr := req.Validate(); validationErr != nil {
		return nil, validationErr
	}
	return &req, nil
}

func (r JobCreate) Validate() error {
	verrs := newValidationErrors("JobCreate")
	if strings.TrimSpace(r.Name) == "" {
		verrs.add("name", "should not be empty")
	}
	if r.Dataset == uuid.Nil {
		verrs.add("dataset", "input should be a valid UUID")
	}
	if r.MaxSamples != UNLIMITED_SAMPLES && r.MaxSamples < 1 {
		verrs.add("max_samples", "input should be -1 (all samples) or at least 1")
	}
	if r.BatchSize < 1 {
		verrs.add("batch_size", "input should be greater than 0")
	}
	if r.JobConfig == nil {
		verrs.add("job_config", "field required")
	} else {
		verrs.merge("job_config", r.JobConfig.Validate())
	}
	return verrs.err()
}

func (r JobCreate) Type() JobType {
	if r.JobConfig == nil {
		return ""
	}
	return r.JobConfig.Type()
}

func (r *JobCreate) UnmarshalJSON(data []byte) error {
	var mapData map[string]interface{}
	if err := json.Unmarshal(data, &mapData); err != nil {
		return err
	}
	decoded, err := DecodeJobCreate(mapData)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}
