package models

import (
	"encoding/json"
	"net/url"
	"strings"
)

/**
a locally hosted judge model, used by the llm-as-judge metrics
*/
type DeepEvalLocalModelConfig struct {
	ModelName    string `json:"model_name"`
	ModelBaseUrl string `json:"model_base_url"`
}

func (d DeepEvalLocalModelConfig) Validate() error {
	verrs := newValidationErrors("DeepEvalLocalModelConfig")
	if strings.TrimSpace(d.ModelName) == "" {
		verrs.add("model_name", "field required")
	}
	if parsed, err := url.Parse(d.ModelBaseUrl); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		verrs.add("model_base_url", "input should be a valid URL")
	}
	return verrs.err()
}

type JobEvalConfig struct {
	JobType        JobType                   `json:"job_type"`
	SecretKeyName  *string                   `json:"secret_key_name"`
	TaskDefinition TaskDefinition            `json:"task_definition"`
	Metrics        MetricSet                 `json:"metrics"`
	LLMAsJudge     *DeepEvalLocalModelConfig `json:"llm_as_judge"`
}

func JobEvalConfigFromMap(mapData map[string]interface{}) (*JobEvalConfig, error) {
	return JobEvalConfigFromMapWithMetrics(mapData, DefaultTaskMetrics)
}

/**
builds an evaluation config, taking the default metric set from `metrics` once the task definition is known.
*/
func JobEvalConfigFromMapWithMetrics(mapData map[string]interface{}, metrics MetricsProvider) (*JobEvalConfig, error) {
	verrs := newValidationErrors("JobEvalConfig")
	cfg := JobEvalConfig{
		JobType:        JOB_TYPE_EVALUATION,
		TaskDefinition: SummarizationTaskDefinition(),
	}

	if typeErr := checkPinnedJobType(mapData, JOB_TYPE_EVALUATION); typeErr != "" {
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

	judgeMap, _, judgeMapErr := optionalMap(mapData, "llm_as_judge")
	if judgeMapErr != nil {
		verrs.add("llm_as_judge", "%s", judgeMapErr)
	} else if judgeMap != nil {
		var judge DeepEvalLocalModelConfig
		if decodeErr := CustomisedMapStructureDecode("DeepEvalLocalModelConfig", judgeMap, &judge); decodeErr != nil {
			verrs.merge("llm_as_judge", decodeErr)
		} else {
			cfg.LLMAsJudge = &judge
		}
	}

	metricsExplicit := false
	if rawMetrics, haveMetrics := mapData["metrics"]; haveMetrics && rawMetrics != nil {
		ms, msErr := metricSetFromValue(rawMetrics)
		if msErr != nil {
			verrs.add("metrics", "%s", msErr)
		} else {
			cfg.Metrics = ms
			metricsExplicit = true
		}
	}

	remainder := withoutKeys(mapData, "job_type", "task_definition", "llm_as_judge", "metrics")
	verrs.merge("", CustomisedMapStructureDecode("JobEvalConfig", remainder, &cfg))
	cfg.JobType = JOB_TYPE_EVALUATION

	if len(verrs.errors) > 0 {
		return nil, verrs.err()
	}

	//second phase: the metric default depends on the task definition we just resolved
	if !metricsExplicit {
		ms, providerErr := metrics.MetricsForTask(cfg.TaskDefinition)
		if providerErr != nil {
			verrs.add("metrics", "%s", providerErr)
			return nil, verrs.err()
		}
		cfg.Metrics = ms
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, validationErr
	}
	return &cfg, nil
}

func (c JobEvalConfig) Type() JobType {
	return JOB_TYPE_EVALUATION
}

func (c JobEvalConfig) GetSecretKeyName() *string {
	return c.SecretKeyName
}

func (c JobEvalConfig) Validate() error {
	verrs := newValidationErrors("JobEvalConfig")
	verrs.merge("task_definition", c.TaskDefinition.Validate())
	if c.Metrics.Len() == 0 {
		verrs.add("metrics", "at least one metric is required")
	}
	if unknown := c.Metrics.Unknown(); len(unknown) > 0 {
		verrs.add("metrics", "unknown metric(s): %s", strings.Join(unknown, ", "))
	}
	if c.LLMAsJudge != nil {
		verrs.merge("llm_as_judge", c.LLMAsJudge.Validate())
	}
	if c.SecretKeyName != nil && strings.TrimSpace(*c.SecretKeyName) == "" {
		verrs.add("secret_key_name", "should not be empty when given")
	}
	return verrs.err()
}

func (c JobEvalConfig) SchemaFields() []string {
	return jsonFieldNames(c)
}

func (c *JobEvalConfig) UnmarshalJSON(data []byte) error {
	var mapData map[string]interface{}
	if err := json.Unmarshal(data, &mapData); err != nil {
		return err
	}
	decoded, err := JobEvalConfigFromMap(mapData)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}
