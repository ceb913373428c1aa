package models

import (
	"testing"

	"github.com/pkg/errors"
)

func TestJobAnnotateConfigDefaults(t *testing.T) {
	cfg, err := JobAnnotateConfigFromMap(map[string]interface{}{})
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if cfg.Type() != JOB_TYPE_ANNOTATION {
		t.Errorf("got job type %s", cfg.Type())
	}
	if cfg.OutputField() != "ground_truth" {
		t.Errorf("got output field %s", cfg.OutputField())
	}
	if cfg.Model() != "facebook/bart-large-cnn" {
		t.Errorf("got model %s", cfg.Model())
	}
	if cfg.Provider() != "hf" {
		t.Errorf("got provider %s", cfg.Provider())
	}
	if !cfg.StoreToDataset() {
		t.Error("annotation should store to the dataset by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default annotation config failed validation: %s", err)
	}
}

func TestJobAnnotateConfigOverrides(t *testing.T) {
	cfg, err := JobAnnotateConfigFromMap(map[string]interface{}{
		"model":             "google/flan-t5-base",
		"store_to_dataset":  false,
		"output_field":      "ground_truth",
		"generation_config": map[string]interface{}{"temperature": 0.1},
	})
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if cfg.Model() != "google/flan-t5-base" || cfg.StoreToDataset() {
		t.Errorf("overrides were not applied: model %s, store %t", cfg.Model(), cfg.StoreToDataset())
	}
	if cfg.GenerationConfig().Temperature != 0.1 || cfg.GenerationConfig().MaxNewTokens != 1024 {
		t.Errorf("generation config should be layered over the defaults, got %+v", cfg.GenerationConfig())
	}
}

/*
job_type and output_field are fixed and must never be changed silently
*/
func TestJobAnnotateConfigPinnedFields(t *testing.T) {
	for field, payload := range map[string]map[string]interface{}{
		"output_field": {"output_field": "predictions"},
		"job_type":     {"job_type": "inference"},
	} {
		cfg, err := JobAnnotateConfigFromMap(payload)
		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.HasField(field) {
			t.Errorf("overriding %s should be rejected, got %v, %v", field, cfg, err)
		}
	}

	if (JobAnnotateConfig{}).Validate() == nil {
		t.Error("a zero-value annotation config should not validate")
	}
}

func TestJobAnnotateConfigSchemaFields(t *testing.T) {
	cfg, _ := JobAnnotateConfigFromMap(map[string]interface{}{})
	fields := cfg.SchemaFields()
	for _, f := range fields {
		if f == "job_type" || f == "output_field" {
			t.Errorf("%s should not be offered as configurable", f)
		}
	}
	if !stringInList("model", fields) || !stringInList("generation_config", fields) {
		t.Errorf("inference fields should be offered, got %v", fields)
	}
}

/*
the projected inference config must be independent of the annotation config
*/
func TestJobAnnotateConfigInference(t *testing.T) {
	prompt := "Summarise the following"
	cfg, err := JobAnnotateConfigFromMap(map[string]interface{}{"system_prompt": prompt})
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}

	projected, projectErr := cfg.Inference()
	if projectErr != nil {
		t.Fatalf("unexpected error %s", projectErr)
	}
	if projected.OutputField != ANNOTATION_OUTPUT_FIELD || projected.JobType != JOB_TYPE_ANNOTATION {
		t.Errorf("pinned fields should be carried into the projection, got %+v", projected)
	}
	if projected.SystemPrompt == nil || *projected.SystemPrompt != prompt {
		t.Fatalf("system prompt was not carried over")
	}

	*projected.SystemPrompt = "changed"
	projected.GenerationConfig.TopP = 0.9
	again, _ := cfg.Inference()
	if *again.SystemPrompt != prompt || again.GenerationConfig.TopP != 0.5 {
		t.Error("changing the projection changed the annotation config")
	}
}
