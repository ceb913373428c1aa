package jobs

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/common/models"
)

/*
a valid request should be launched and the new record returned with a 201
*/
func TestCreateJobHandler_ServeHTTP(t *testing.T) {
	env := setupTestEnv()
	defer env.Close()

	body := `{"name":"my job","dataset":"` + uuid.New().String() + `","job_config":{"job_type":"inference","model":"mistralai/Mistral-7B-v0.1","provider":"hf"}}`
	toTest := CreateJobHandler{Runner: env.runner}
	mockWriter := helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, makeRequest("POST", "https://myserver.com/api/job/new", body))

	if mockWriter.StatusCode() != 201 {
		t.Fatalf("Got status %d, expected 201. Body was %s", mockWriter.StatusCode(), mockWriter.LastWrittenString())
	}
	content, err := mockWriter.LastWrittenJson()
	if err != nil {
		t.Fatalf("response was not json: %s", err)
	}
	if content["status"] != string(models.JOB_PENDING) {
		t.Errorf("Got status %v, expected pending", content["status"])
	}
	if content["job_type"] != "inference" {
		t.Errorf("Got job_type %v, expected inference", content["job_type"])
	}

	jobs, _ := models.ListJobRecords(env.redisClient, nil, 0)
	if len(jobs) != 1 {
		t.Errorf("Expected one stored job, got %s", spew.Sdump(jobs))
	}
}

/*
every violated field should be reported at once, with nested paths under job_config
*/
func TestCreateJobHandler_ValidationErrors(t *testing.T) {
	env := setupTestEnv()
	defer env.Close()

	body := `{"dataset":"not-a-uuid","job_config":{"job_type":"inference","model":"","provider":"hf","generation_config":{"temperature":5}}}`
	toTest := CreateJobHandler{Runner: env.runner}
	mockWriter := helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, makeRequest("POST", "https://myserver.com/api/job/new", body))

	if mockWriter.StatusCode() != 422 {
		t.Fatalf("Got status %d, expected 422. Body was %s", mockWriter.StatusCode(), mockWriter.LastWrittenString())
	}
	content, _ := mockWriter.LastWrittenJson()
	errs, isList := content["errors"].([]interface{})
	if !isList {
		t.Fatalf("errors should be a list, got %s", spew.Sdump(content["errors"]))
	}
	seen := map[string]bool{}
	for _, e := range errs {
		if entry, isMap := e.(map[string]interface{}); isMap {
			seen[entry["field"].(string)] = true
		}
	}
	for _, expected := range []string{"name", "dataset", "job_config.model", "job_config.generation_config.temperature"} {
		if !seen[expected] {
			t.Errorf("expected an error for %s, got %s", expected, spew.Sdump(errs))
		}
	}

	jobs, _ := models.ListJobRecords(env.redisClient, nil, 0)
	if len(jobs) != 0 {
		t.Error("an invalid request should not be stored")
	}
}

func TestCreateJobHandler_UnknownJobType(t *testing.T) {
	env := setupTestEnv()
	defer env.Close()

	body := `{"name":"x","dataset":"` + uuid.New().String() + `","job_config":{"job_type":"training"}}`
	toTest := CreateJobHandler{Runner: env.runner}
	mockWriter := helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, makeRequest("POST", "https://myserver.com/api/job/new", body))

	if mockWriter.StatusCode() != 422 {
		t.Errorf("Got status %d, expected 422", mockWriter.StatusCode())
	}
}

/*
the typed endpoints should refuse a config of the wrong kind
*/
func TestCreateJobHandler_TypedMismatch(t *testing.T) {
	env := setupTestEnv()
	defer env.Close()

	body := `{"name":"x","dataset":"` + uuid.New().String() + `","job_config":{"job_type":"inference","model":"m","provider":"hf"}}`
	toTest := CreateJobHandler{Runner: env.runner, JobType: models.JOB_TYPE_EVALUATION}
	mockWriter := helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, makeRequest("POST", "https://myserver.com/api/job/evaluator/new", body))

	if mockWriter.StatusCode() != 422 {
		t.Errorf("Got status %d, expected 422. Body was %s", mockWriter.StatusCode(), mockWriter.LastWrittenString())
	}
}

func TestCreateJobHandler_TypedAnnotate(t *testing.T) {
	env := setupTestEnv()
	defer env.Close()

	body := `{"name":"label it","dataset":"` + uuid.New().String() + `","job_config":{"job_type":"annotate"}}`
	toTest := CreateJobHandler{Runner: env.runner, JobType: models.JOB_TYPE_ANNOTATION}
	mockWriter := helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, makeRequest("POST", "https://myserver.com/api/job/annotate/new", body))

	if mockWriter.StatusCode() != 201 {
		t.Fatalf("Got status %d, expected 201. Body was %s", mockWriter.StatusCode(), mockWriter.LastWrittenString())
	}
	content, _ := mockWriter.LastWrittenJson()
	if content["job_type"] != "annotate" {
		t.Errorf("Got job_type %v, expected annotate", content["job_type"])
	}
}

func TestCreateJobHandler_BadBody(t *testing.T) {
	env := setupTestEnv()
	defer env.Close()

	toTest := CreateJobHandler{Runner: env.runner}
	mockWriter := helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, makeRequest("POST", "https://myserver.com/api/job/new", `[1,2,3`))
	if mockWriter.StatusCode() != 400 {
		t.Errorf("Got status %d, expected 400", mockWriter.StatusCode())
	}

	mockWriter = helpers.NewMockResponseWriter()
	toTest.ServeHTTP(mockWriter, makeRequest("GET", "https://myserver.com/api/job/new", ""))
	if mockWriter.StatusCode() != 405 {
		t.Errorf("Got status %d, expected 405", mockWriter.StatusCode())
	}
}
