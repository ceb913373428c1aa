package jobs

import (
	"net/http"

	"github.com/alicebob/miniredis"
	"github.com/go-redis/redis/v7"
	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/webapp/jobrunner"
	"k8s.io/client-go/kubernetes/fake"
)

type testEnv struct {
	server      *miniredis.Miniredis
	redisClient *redis.Client
	k8client    *fake.Clientset
	runner      *jobrunner.JobRunner
}

func (e testEnv) Close() {
	e.redisClient.Close()
	e.server.Close()
}

func setupTestEnv() testEnv {
	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	k8client := fake.NewSimpleClientset()
	launcher := jobrunner.NewJobLauncher(k8client, helpers.KubernetesConfig{
		Namespace:    "modeljobs-test",
		TemplatePath: "../config/jobtemplate.yaml",
		Image:        "modeljobs/jobs:test",
		SecretName:   "provider-keys",
	})
	return testEnv{
		server:      s,
		redisClient: redisClient,
		k8client:    k8client,
		runner:      jobrunner.NewJobRunner(redisClient, launcher),
	}
}

func makeRequest(method string, uri string, body string) *http.Request {
	mockBody := helpers.NewMockReadCloser([]byte(body))
	return &http.Request{
		Method:     method,
		RequestURI: uri,
		Proto:      "https",
		ProtoMajor: 1,
		ProtoMinor: 0,
		Body:       mockBody,
	}
}
