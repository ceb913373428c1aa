package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func resultWithMetrics(metrics map[string]interface{}) *JobResultObject {
	r := NewJobResultObject()
	r.Metrics = metrics
	return r
}

func TestJobResultObjectMerge(t *testing.T) {
	tests := []struct {
		name     string
		base     map[string]interface{}
		update   map[string]interface{}
		expected map[string]interface{}
	}{
		{"disjoint keys", map[string]interface{}{"x": 1}, map[string]interface{}{"y": 2}, map[string]interface{}{"x": 1, "y": 2}},
		{"empty update", map[string]interface{}{"x": 1}, map[string]interface{}{}, map[string]interface{}{"x": 1}},
		{"overwrite", map[string]interface{}{"x": 1}, map[string]interface{}{"x": 9}, map[string]interface{}{"x": 9}},
		{"into empty", map[string]interface{}{}, map[string]interface{}{"x": 1}, map[string]interface{}{"x": 1}},
		{"nested replaced wholesale", map[string]interface{}{"x": map[string]interface{}{"a": 1}}, map[string]interface{}{"x": map[string]interface{}{"b": 2}}, map[string]interface{}{"x": map[string]interface{}{"b": 2}}},
	}

	for _, tt := range tests {
		a := resultWithMetrics(tt.base)
		a.Merge(resultWithMetrics(tt.update))
		if diff := cmp.Diff(tt.expected, a.Metrics); diff != "" {
			t.Errorf("%s: metrics mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestJobResultObjectMergeAllSections(t *testing.T) {
	a := NewJobResultObject()
	a.Parameters["model"] = "m"
	b := NewJobResultObject()
	b.Artifacts["predictions"] = "s3://bucket/p.json"
	b.Metrics["rouge"] = 0.4

	a.Merge(b)
	a.Merge(nil)
	if a.Parameters["model"] != "m" || a.Artifacts["predictions"] != "s3://bucket/p.json" || a.Metrics["rouge"] != 0.4 {
		t.Errorf("unexpected merge result %+v", a)
	}
}

/*
the pure merge must leave both of its arguments exactly as they were
*/
func TestMergeJobResultsPure(t *testing.T) {
	base := resultWithMetrics(map[string]interface{}{"x": 1, "nested": map[string]interface{}{"a": 1}})
	update := resultWithMetrics(map[string]interface{}{"y": 2})
	update.Artifacts["file"] = "f"

	merged, err := MergeJobResults(base, update)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	expected := map[string]interface{}{"x": 1, "y": 2, "nested": map[string]interface{}{"a": 1}}
	if diff := cmp.Diff(expected, merged.Metrics); diff != "" {
		t.Errorf("merged metrics mismatch (-want +got):\n%s", diff)
	}

	merged.Metrics["x"] = 99
	merged.Metrics["z"] = 3
	if diff := cmp.Diff(map[string]interface{}{"x": 1, "nested": map[string]interface{}{"a": 1}}, base.Metrics); diff != "" {
		t.Errorf("base was changed (-want +got):\n%s", diff)
	}
	if len(update.Metrics) != 1 || len(base.Artifacts) != 0 {
		t.Error("arguments were changed by the merge")
	}
}

func TestJobResultObjectFromMap(t *testing.T) {
	result, err := JobResultObjectFromMap(map[string]interface{}{
		"metrics":    map[string]interface{}{"bleu": 0.2},
		"parameters": nil,
		"artifacts":  "",
		"run_id":     "ignored",
	})
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if result.Metrics["bleu"] != 0.2 || len(result.Parameters) != 0 || len(result.Artifacts) != 0 {
		t.Errorf("unexpected result %+v", result)
	}
	if result.IsEmpty() {
		t.Error("a result with metrics is not empty")
	}
	if !NewJobResultObject().IsEmpty() {
		t.Error("a new result should be empty")
	}

	_, err = JobResultObjectFromMap(map[string]interface{}{"metrics": []interface{}{1}, "artifacts": 3})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.HasField("metrics") || !verr.HasField("artifacts") {
		t.Errorf("non-mapping sections should be rejected, got %v", err)
	}
}
