package jobrunner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/common/models"
	"k8s.io/client-go/kubernetes/fake"
)

const testNamespace = "modeljobs-test"

func newTestLauncher() (*fake.Clientset, *JobLauncher) {
	k8client := fake.NewSimpleClientset()
	launcher := NewJobLauncher(k8client, helpers.KubernetesConfig{
		Namespace:    testNamespace,
		TemplatePath: "../config/jobtemplate.yaml",
		Image:        "modeljobs/jobs:test",
		SecretName:   "provider-keys",
	})
	return k8client, launcher
}

func inferenceRequest(t *testing.T, extraConfig map[string]interface{}) *models.JobCreate {
	jobConfig := map[string]interface{}{
		"job_type": "inference",
		"model":    "hf-internal-testing/tiny-random-BartForConditionalGeneration",
		"provider": "hf",
	}
	for k, v := range extraConfig {
		jobConfig[k] = v
	}
	req, err := models.DecodeJobCreate(map[string]interface{}{
		"name":       "test inference",
		"dataset":    uuid.New().String(),
		"job_config": jobConfig,
	})
	if err != nil {
		t.Fatalf("could not build test request: %s", err)
	}
	return req
}
