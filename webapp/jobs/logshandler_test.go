package jobs

import (
	"context"
	"testing"

	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/webapp/jobrunner"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestStopJobHandler_ServeHTTP(t *testing.T) {
	env := setupTestEnv()
	defer env.Close()
	record := submitTestJob(t, env)

	toTest := StopJobHandler{Runner: env.runner}
	mockWriter := helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, makeRequest("POST", "https://myserver.com/api/job/stop?jobId="+record.Id.String(), ""))
	if mockWriter.StatusCode() != 200 {
		t.Fatalf("Got status %d, expected 200. Body was %s", mockWriter.StatusCode(), mockWriter.LastWrittenString())
	}

	k8job, _ := env.k8client.BatchV1().Jobs("modeljobs-test").Get(context.Background(), jobrunner.JobNameFor(record.Id), metav1.GetOptions{})
	if k8job.Spec.Suspend == nil || !*k8job.Spec.Suspend {
		t.Error("the kubernetes job should have been suspended")
	}
}

func TestGetLogsHandler_ServeHTTP(t *testing.T) {
	env := setupTestEnv()
	defer env.Close()
	record := submitTestJob(t, env)

	toTest := GetLogsHandler{Runner: env.runner}
	mockWriter := helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, makeRequest("GET", "https://myserver.com/api/job/logs?jobId="+record.Id.String(), ""))
	if mockWriter.StatusCode() != 200 {
		t.Fatalf("Got status %d, expected 200. Body was %s", mockWriter.StatusCode(), mockWriter.LastWrittenString())
	}
	content, _ := mockWriter.LastWrittenJson()
	if _, hasLogs := content["logs"]; !hasLogs {
		t.Errorf("response should carry a logs field, got %v", content)
	}
}
