package models

import (
	"encoding/json"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

const (
	ANNOTATION_OUTPUT_FIELD = "ground_truth"
	ANNOTATION_MODEL        = "facebook/bart-large-cnn"
	ANNOTATION_PROVIDER     = "hf"
)

/**
JobAnnotateConfig is an inference run that writes reference answers ("ground truth") back to the dataset.
It wraps an inference config whose job_type and output_field are fixed; everything else is configurable
through the inference keys, with different defaults for the model, provider and store_to_dataset.
*/
type JobAnnotateConfig struct {
	base JobInferenceConfig
}

func DefaultJobAnnotateConfig() JobInferenceConfig {
	defaults := DefaultJobInferenceConfig()
	defaults.JobType = JOB_TYPE_ANNOTATION
	defaults.Model = ANNOTATION_MODEL
	defaults.Provider = ANNOTATION_PROVIDER
	defaults.OutputField = ANNOTATION_OUTPUT_FIELD
	defaults.StoreToDataset = true
	return defaults
}

func JobAnnotateConfigFromMap(mapData map[string]interface{}) (*JobAnnotateConfig, error) {
	verrs := newValidationErrors("JobAnnotateConfig")
	if rawField, haveField := mapData["output_field"]; haveField && rawField != nil {
		if str, isStr := rawField.(string); !isStr || str != ANNOTATION_OUTPUT_FIELD {
			verrs.add("output_field", "input should be '%s'", ANNOTATION_OUTPUT_FIELD)
		}
	}

	base, err := inferenceConfigFromMap("JobAnnotateConfig", withoutKeys(mapData, "output_field"), DefaultJobAnnotateConfig())
	verrs.merge("", err)
	if len(verrs.errors) > 0 {
		return nil, verrs.err()
	}
	return &JobAnnotateConfig{base: base}, nil
}

func (c JobAnnotateConfig) Type() JobType {
	return JOB_TYPE_ANNOTATION
}

func (c JobAnnotateConfig) GetSecretKeyName() *string {
	return c.base.SecretKeyName
}

func (c JobAnnotateConfig) Model() string {
	return c.base.Model
}

func (c JobAnnotateConfig) Provider() string {
	return c.base.Provider
}

func (c JobAnnotateConfig) OutputField() string {
	return ANNOTATION_OUTPUT_FIELD
}

func (c JobAnnotateConfig) StoreToDataset() bool {
	return c.base.StoreToDataset
}

func (c JobAnnotateConfig) TaskDefinition() TaskDefinition {
	return c.base.TaskDefinition
}

func (c JobAnnotateConfig) GenerationConfig() GenerationConfig {
	return c.base.GenerationConfig
}

func (c JobAnnotateConfig) Validate() error {
	if c.base.JobType != JOB_TYPE_ANNOTATION || c.base.OutputField != ANNOTATION_OUTPUT_FIELD {
		return &ValidationError{
			Model:  "JobAnnotateConfig",
			Errors: []FieldError{{Field: "", Constraint: "annotation config was not built with JobAnnotateConfigFromMap"}},
		}
	}
	return c.base.validate("JobAnnotateConfig")
}

/**
the fields a caller may set. job_type and output_field are fixed so they are not offered.
*/
func (c JobAnnotateConfig) SchemaFields() []string {
	all := jsonFieldNames(c.base)
	rtn := make([]string, 0, len(all))
	for _, f := range all {
		if f != "job_type" && f != "output_field" {
			rtn = append(rtn, f)
		}
	}
	return rtn
}

/**
returns an independent copy of the underlying inference settings, which is what the backend actually runs
*/
func (c JobAnnotateConfig) Inference() (JobInferenceConfig, error) {
	var rtn JobInferenceConfig
	if err := copier.CopyWithOption(&rtn, &c.base, copier.Option{DeepCopy: true}); err != nil {
		return JobInferenceConfig{}, errors.Wrap(err, "could not copy annotation settings")
	}
	return rtn, nil
}

func (c JobAnnotateConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.base)
}

func (c *JobAnnotateConfig) UnmarshalJSON(data []byte) error {
	var mapData map[string]interface{}
	if err := json.Unmarshal(data, &mapData); err != nil {
		return err
	}
	decoded, err := JobAnnotateConfigFromMap(mapData)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}
