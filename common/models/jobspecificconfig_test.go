package models

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

/*
each discriminator should build its own variant, and the variant should report that discriminator back
*/
func TestDecodeJobSpecificConfigDispatch(t *testing.T) {
	payloads := map[JobType]map[string]interface{}{
		JOB_TYPE_INFERENCE:  {"job_type": "inference", "model": "mistralai/Mistral-7B-v0.1", "provider": "vllm"},
		JOB_TYPE_EVALUATION: {"job_type": "evaluator"},
		JOB_TYPE_ANNOTATION: {"job_type": "annotate"},
	}

	for expected, payload := range payloads {
		cfg, err := DecodeJobSpecificConfig(payload)
		if err != nil {
			t.Errorf("%s: unexpected error %s", expected, err)
			continue
		}
		if cfg.Type() != expected {
			t.Errorf("%s: resolved variant had type %s", expected, cfg.Type())
		}
		if validationErr := cfg.Validate(); validationErr != nil {
			t.Errorf("%s: decoded config failed validation: %s", expected, validationErr)
		}
	}

	cfg, _ := DecodeJobSpecificConfig(payloads[JOB_TYPE_EVALUATION])
	if _, isEval := cfg.(*JobEvalConfig); !isEval {
		t.Errorf("evaluator should decode to a *JobEvalConfig, got %T", cfg)
	}
}

func TestDecodeJobSpecificConfigCaseInsensitive(t *testing.T) {
	cfg, err := DecodeJobSpecificConfig(map[string]interface{}{"job_type": "Annotate"})
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if cfg.Type() != JOB_TYPE_ANNOTATION {
		t.Errorf("got type %s", cfg.Type())
	}
}

func TestDecodeJobSpecificConfigUnknown(t *testing.T) {
	for _, payload := range []map[string]interface{}{
		{"job_type": "training"},
		{"job_type": 3},
		{"model": "m"},
	} {
		cfg, err := DecodeJobSpecificConfig(payload)
		if cfg != nil {
			t.Errorf("%v: should not produce a config, got %s", payload, spew.Sdump(cfg))
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%v: expected a ValidationError, got %v", payload, err)
			continue
		}
		if !errors.Is(err, ErrUnknownJobType) {
			t.Errorf("%v: error should wrap ErrUnknownJobType", payload)
		}
		if !verr.HasField("job_type") {
			t.Errorf("%v: error should be against job_type, got %s", payload, verr)
		}
	}
}

func TestDecodeJobSpecificConfigOfType(t *testing.T) {
	cfg, err := DecodeJobSpecificConfigOfType(map[string]interface{}{}, JOB_TYPE_EVALUATION)
	if err != nil || cfg.Type() != JOB_TYPE_EVALUATION {
		t.Errorf("a payload without a discriminator should take the expected type, got %v, %v", cfg, err)
	}

	_, err = DecodeJobSpecificConfigOfType(map[string]interface{}{"job_type": "inference", "model": "m", "provider": "p"}, JOB_TYPE_EVALUATION)
	if err == nil {
		t.Fatal("a different discriminator should be rejected")
	}
	if errors.Is(err, ErrUnknownJobType) {
		t.Error("a known but mismatched discriminator is not an unknown job type")
	}

	_, err = DecodeJobSpecificConfigOfType(map[string]interface{}{"job_type": "bogus"}, JOB_TYPE_EVALUATION)
	if !errors.Is(err, ErrUnknownJobType) {
		t.Errorf("an unknown discriminator should wrap ErrUnknownJobType, got %v", err)
	}
}
