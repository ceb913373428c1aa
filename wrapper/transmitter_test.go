package main

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"testing"
	"time"

	"github.com/guardian/modeljobs/common/models"
)

func TestSendToWebappRetries(t *testing.T) {
	retryDelay = time.Millisecond
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(503)
			return
		}
		w.WriteHeader(200)
	}))
	defer server.Close()

	err := SendToWebapp(context.Background(), server.URL+"/api/result?jobId=x", models.NewJobResultObject(), 5)
	if err != nil {
		t.Errorf("send should succeed on the third attempt, got %s", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestSendToWebappGivesUp(t *testing.T) {
	retryDelay = time.Millisecond
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(503)
	}))
	defer server.Close()

	if err := SendToWebapp(context.Background(), server.URL, map[string]string{}, 2); err == nil {
		t.Error("send should fail once retries are exhausted")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestSendToWebappFatal(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(422)
	}))
	defer server.Close()

	if err := SendToWebapp(context.Background(), server.URL, map[string]string{}, 5); err == nil {
		t.Error("a 422 should not be retried")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestReadResultFile(t *testing.T) {
	dir, _ := ioutil.TempDir("", "wrapper-test")
	defer os.RemoveAll(dir)
	fileName := path.Join(dir, "results.json")
	ioutil.WriteFile(fileName, []byte(`{"metrics":{"rouge":0.3},"notes":"ignored"}`), 0644)

	result, err := ReadResultFile(fileName)
	if err != nil {
		t.Fatalf("ReadResultFile failed: %s", err)
	}
	if result.Metrics["rouge"] != 0.3 {
		t.Errorf("Got metrics %v", result.Metrics)
	}

	ioutil.WriteFile(fileName, []byte(`{"metrics":"bad"}`), 0644)
	if _, err := ReadResultFile(fileName); err == nil {
		t.Error("a non-mapping metrics value should be rejected")
	}

	if _, err := ReadResultFile(path.Join(dir, "missing.json")); err == nil {
		t.Error("a missing file should be an error")
	}
}
