package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestRedactConfig(t *testing.T) {
	input := map[string]interface{}{
		"model":           "gpt-4o",
		"api_key":         "sk-123",
		"HF_TOKEN":        "hf_abc",
		"max_new_tokens":  512,
		"secret_key_name": "openai_api_key",
		"providers": []interface{}{
			map[string]interface{}{"name": "azure", "azure-api-key": "k"},
			"plain",
		},
		"auth": map[string]interface{}{"password": "hunter2", "user": "bob"},
	}
	expected := map[string]interface{}{
		"model":           "gpt-4o",
		"api_key":         REDACTED_MARKER,
		"HF_TOKEN":        REDACTED_MARKER,
		"max_new_tokens":  512,
		"secret_key_name": "openai_api_key",
		"providers": []interface{}{
			map[string]interface{}{"name": "azure", "azure-api-key": REDACTED_MARKER},
			"plain",
		},
		"auth": map[string]interface{}{"password": REDACTED_MARKER, "user": "bob"},
	}

	result := RedactConfig(input)
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("redaction mismatch (-want +got):\n%s", diff)
	}
	if input["api_key"] != "sk-123" || input["auth"].(map[string]interface{})["password"] != "hunter2" {
		t.Error("redaction modified its input")
	}
}

func TestNormalizeSubmissionResponse(t *testing.T) {
	raw := map[string]interface{}{
		"type":          "SUBMISSION",
		"submission_id": "modeljob-1234",
		"status":        "RUNNING",
		"entrypoint":    `python inference.py --config '{"job":{"model":"m","api_key":"sk-1"},"name":"it'\''s"}'`,
		"config":        map[string]interface{}{"leaked": true},
		"start_time":    float64(1700000000000),
		"metadata":      map[string]interface{}{"modeljobs.jobId": "1234"},
		"something_new": "ignored",
		"driver_exit_code": 0,
	}

	result, err := NormalizeSubmissionResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	expectedConfig := map[string]interface{}{
		"job":  map[string]interface{}{"model": "m", "api_key": REDACTED_MARKER},
		"name": "it's",
	}
	if diff := cmp.Diff(expectedConfig, result.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if result.StartTime == nil || result.StartTime.Unix() != 1700000000 {
		t.Errorf("start time was not read from epoch millis: %v", result.StartTime)
	}
	if result.DriverExitCode == nil || *result.DriverExitCode != 0 {
		t.Errorf("got driver exit code %v", result.DriverExitCode)
	}
	status, known := result.LifecycleStatus()
	if !known || status != JOB_RUNNING {
		t.Errorf("got lifecycle status %s, %t", status, known)
	}
	if result.RuntimeEnv == nil {
		t.Error("runtime_env should default to an empty mapping")
	}
}

/*
a missing or broken entrypoint must never fail the response, it just leaves the config empty
*/
func TestNormalizeSubmissionResponseBadEntrypoint(t *testing.T) {
	for name, entrypoint := range map[string]interface{}{
		"absent":           nil,
		"not a string":     42,
		"unbalanced quote": `python inference.py --config '{"a":1}`,
		"no flag":          `python inference.py`,
		"not json":         `python inference.py --config 'hello'`,
		"json array":       `python inference.py --config '[1]'`,
	} {
		raw := map[string]interface{}{"submission_id": "x", "status": "PENDING"}
		if entrypoint != nil {
			raw["entrypoint"] = entrypoint
		}
		result, err := NormalizeSubmissionResponse(raw)
		if err != nil {
			t.Errorf("%s: unexpected error %s", name, err)
			continue
		}
		if result.Config == nil || len(result.Config) != 0 {
			t.Errorf("%s: config should be empty, got %v", name, result.Config)
		}
	}
}

func TestNormalizeSubmissionResponseFractionalExitCode(t *testing.T) {
	_, err := NormalizeSubmissionResponse(map[string]interface{}{
		"submission_id":    "x",
		"driver_exit_code": 1.5,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.HasField("driver_exit_code") {
		t.Errorf("expected an error for driver_exit_code, got %v", err)
	}
}

func TestTransformSubmissionPayloadEqualsFlag(t *testing.T) {
	raw := map[string]interface{}{"entrypoint": `run --config='{"x":1}'`}
	result := TransformSubmissionPayload(raw)
	if _, hasEntrypoint := result["entrypoint"]; hasEntrypoint {
		t.Error("entrypoint should be removed")
	}
	if diff := cmp.Diff(map[string]interface{}{"x": float64(1)}, result["config"]); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if _, stillThere := raw["entrypoint"]; !stillThere {
		t.Error("the input should not be modified")
	}
}
