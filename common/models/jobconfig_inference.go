package models

import (
	"encoding/json"
	"net/url"
	"strings"
)

const (
	DEFAULT_OUTPUT_FIELD = "predictions"
)

var knownTorchDtypes = []string{"auto", "float16", "bfloat16", "float32", "float64"}

/**
configuration for an inference job: run `Model` from `Provider` over a dataset and collect its
predictions into `OutputField`
*/
type JobInferenceConfig struct {
	JobType          JobType          `json:"job_type"`
	SecretKeyName    *string          `json:"secret_key_name"`
	Model            string           `json:"model"`
	Provider         string           `json:"provider"`
	TaskDefinition   TaskDefinition   `json:"task_definition"`
	Accelerator      string           `json:"accelerator"`
	Revision         string           `json:"revision"`
	UseFast          bool             `json:"use_fast"`
	TrustRemoteCode  bool             `json:"trust_remote_code"`
	TorchDtype       string           `json:"torch_dtype"`
	BaseUrl          *string          `json:"base_url"`
	OutputField      string           `json:"output_field"`
	GenerationConfig GenerationConfig `json:"generation_config"`
	StoreToDataset   bool             `json:"store_to_dataset"`
	SystemPrompt     *string          `json:"system_prompt"`
}

/**
the inference defaults. Model and provider have no default and must be supplied.
*/
func DefaultJobInferenceConfig() JobInferenceConfig {
	return JobInferenceConfig{
		JobType:          JOB_TYPE_INFERENCE,
		TaskDefinition:   SummarizationTaskDefinition(),
		Accelerator:      "auto",
		Revision:         "main",
		UseFast:          true,
		TrustRemoteCode:  false,
		TorchDtype:       "auto",
		OutputField:      DEFAULT_OUTPUT_FIELD,
		GenerationConfig: DefaultGenerationConfig(),
		StoreToDataset:   false,
	}
}

func JobInferenceConfigFromMap(mapData map[string]interface{}) (*JobInferenceConfig, error) {
	cfg, err := inferenceConfigFromMap("JobInferenceConfig", mapData, DefaultJobInferenceConfig())
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

/**
layers `mapData` over `defaults`. job_type is checked against defaults.JobType by the caller's
pinned-field rules, so here it is only stripped out.
nested mappings get their own defaulting so that a partial generation_config keeps the remaining defaults.
*/
func inferenceConfigFromMap(model string, mapData map[string]interface{}, defaults JobInferenceConfig) (JobInferenceConfig, error) {
	verrs := newValidationErrors(model)
	cfg := defaults

	if typeErr := checkPinnedJobType(mapData, defaults.JobType); typeErr != "" {
		verrs.add("job_type", "%s", typeErr)
	}

	taskMap, _, taskMapErr := optionalMap(mapData, "task_definition")
	if taskMapErr != nil {
		verrs.add("task_definition", "%s", taskMapErr)
	} else if taskMap != nil {
		td, tdErr := TaskDefinitionFromMap(taskMap)
		verrs.merge("task_definition", tdErr)
		cfg.TaskDefinition = td
	}

	genMap, _, genMapErr := optionalMap(mapData, "generation_config")
	if genMapErr != nil {
		verrs.add("generation_config", "%s", genMapErr)
	} else if genMap != nil {
		gc, gcErr := GenerationConfigFromMap(genMap)
		verrs.merge("generation_config", gcErr)
		cfg.GenerationConfig = gc
	}

	remainder := withoutKeys(mapData, "job_type", "task_definition", "generation_config")
	verrs.merge("", CustomisedMapStructureDecode(model, remainder, &cfg))
	cfg.JobType = defaults.JobType

	//report constraint violations alongside any decode errors, but only one problem per field
	verrs.mergeMissing("", cfg.validate(model))
	if err := verrs.err(); err != nil {
		return JobInferenceConfig{}, err
	}
	return cfg, nil
}

/**
returns a description of the problem if mapData carries a job_type that is not `pinned`, or an empty string
*/
func checkPinnedJobType(mapData map[string]interface{}, pinned JobType) string {
	raw, haveType := mapData["job_type"]
	if !haveType || raw == nil {
		return ""
	}
	str, isStr := raw.(string)
	if !isStr {
		return "input should be '" + string(pinned) + "'"
	}
	parsed, known := ParseJobType(str)
	if !known || parsed != pinned {
		return "input should be '" + string(pinned) + "'"
	}
	return ""
}

func (c JobInferenceConfig) Type() JobType {
	return JOB_TYPE_INFERENCE
}

func (c JobInferenceConfig) GetSecretKeyName() *string {
	return c.SecretKeyName
}

func (c JobInferenceConfig) Validate() error {
	return c.validate("JobInferenceConfig")
}

func (c JobInferenceConfig) validate(model string) error {
	verrs := newValidationErrors(model)
	if strings.TrimSpace(c.Model) == "" {
		verrs.add("model", "field required")
	}
	if strings.TrimSpace(c.Provider) == "" {
		verrs.add("provider", "field required")
	}
	verrs.merge("task_definition", c.TaskDefinition.Validate())
	verrs.merge("generation_config", c.GenerationConfig.Validate())
	if !stringInList(c.TorchDtype, knownTorchDtypes) {
		verrs.add("torch_dtype", "input should be one of %s", strings.Join(knownTorchDtypes, ", "))
	}
	if strings.TrimSpace(c.OutputField) == "" {
		verrs.add("output_field", "should not be empty")
	}
	if c.BaseUrl != nil {
		parsed, urlErr := url.Parse(*c.BaseUrl)
		if urlErr != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			verrs.add("base_url", "input should be a valid http(s) URL")
		}
	}
	if c.SecretKeyName != nil && strings.TrimSpace(*c.SecretKeyName) == "" {
		verrs.add("secret_key_name", "should not be empty when given")
	}
	return verrs.err()
}

func (c JobInferenceConfig) SchemaFields() []string {
	return jsonFieldNames(c)
}

func (c *JobInferenceConfig) UnmarshalJSON(data []byte) error {
	var mapData map[string]interface{}
	if err := json.Unmarshal(data, &mapData); err != nil {
		return err
	}
	decoded, err := JobInferenceConfigFromMap(mapData)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}

func stringInList(value string, list []string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}
