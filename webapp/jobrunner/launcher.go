package jobrunner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/common/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	v1batch "k8s.io/api/batch/v1"
	v12 "k8s.io/api/core/v1"
	k8errors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	v1 "k8s.io/client-go/kubernetes/typed/batch/v1"
	v13 "k8s.io/client-go/kubernetes/typed/core/v1"
)

const (
	LABEL_JOB_ID          = "modeljobs.jobId"
	LABEL_JOB_TYPE        = "modeljobs.jobType"
	ANNOTATION_ENTRYPOINT = "modeljobs.entrypoint"
	API_KEY_ENV           = "API_KEY"
	JOB_ID_ENV            = "JOB_ID"
	WEBAPP_BASE_ENV       = "WEBAPP_BASE"
)

/**
JobLauncher runs jobs as kubernetes batch Jobs, one per model job, named after the job id
*/
type JobLauncher struct {
	jobClient      v1.JobInterface
	podClient      v13.PodInterface
	templatePath   string
	image          string
	serviceAccount string
	secretName     string
	wrapperPath    string
	webappBase     string
}

func NewJobLauncher(k8client kubernetes.Interface, conf helpers.KubernetesConfig) *JobLauncher {
	ns := GetMyNamespace(conf)
	log.Printf("Launching jobs in namespace %s", ns)
	return &JobLauncher{
		jobClient:      k8client.BatchV1().Jobs(ns),
		podClient:      k8client.CoreV1().Pods(ns),
		templatePath:   conf.TemplatePath,
		image:          conf.Image,
		serviceAccount: conf.ServiceAccount,
		secretName:     conf.SecretName,
		wrapperPath:    conf.WrapperPath,
		webappBase:     conf.WebappBase,
	}
}

func JobNameFor(jobId uuid.UUID) string {
	return fmt.Sprintf("modeljob-%s", jobId)
}

/**
creates the kubernetes Job that runs `jobConfig`. If `secretKeyName` is set, that key of the configured secret is
given to the container as API_KEY.
*/
func (l *JobLauncher) CreateJob(ctx context.Context, jobConfig *models.JobConfig, secretKeyName *string) (*v1batch.Job, error) {
	jobPtr, loadErr := LoadFromTemplate(l.templatePath)
	if loadErr != nil {
		log.Printf("Could not load job template data for %s: %s", jobConfig.JobId, loadErr)
		return nil, loadErr
	}
	return l.createFromTemplate(ctx, jobPtr, jobConfig, secretKeyName)
}

func (l *JobLauncher) createFromTemplate(ctx context.Context, jobPtr *v1batch.Job, jobConfig *models.JobConfig, secretKeyName *string) (*v1batch.Job, error) {
	entrypoint := Entrypoint(jobConfig)

	currentLabels := jobPtr.GetLabels()
	if currentLabels == nil {
		currentLabels = make(map[string]string)
	}
	currentLabels[LABEL_JOB_ID] = jobConfig.JobId.String()
	currentLabels[LABEL_JOB_TYPE] = string(jobConfig.JobType)
	jobPtr.SetLabels(currentLabels)

	annotations := jobPtr.GetAnnotations()
	if annotations == nil {
		annotations = make(map[string]string)
	}
	annotations[ANNOTATION_ENTRYPOINT] = entrypoint
	jobPtr.SetAnnotations(annotations)

	jobPtr.ObjectMeta.Name = JobNameFor(jobConfig.JobId)
	jobPtr.ObjectMeta.GenerateName = ""

	podLabels := jobPtr.Spec.Template.GetLabels()
	if podLabels == nil {
		podLabels = make(map[string]string)
	}
	podLabels[LABEL_JOB_ID] = jobConfig.JobId.String()
	jobPtr.Spec.Template.SetLabels(podLabels)
	if l.serviceAccount != "" {
		jobPtr.Spec.Template.Spec.ServiceAccountName = l.serviceAccount
	}

	container := &jobPtr.Spec.Template.Spec.Containers[0]
	if l.image != "" {
		container.Image = l.image
	}
	if l.wrapperPath != "" {
		container.Command = []string{"sh", "-c", l.wrapperPath + " " + entrypoint}
	} else {
		container.Command = []string{"sh", "-c", entrypoint}
	}
	container.Args = nil
	container.Env = setEnv(container.Env, v12.EnvVar{Name: JOB_ID_ENV, Value: jobConfig.JobId.String()})
	if l.webappBase != "" {
		container.Env = setEnv(container.Env, v12.EnvVar{Name: WEBAPP_BASE_ENV, Value: l.webappBase})
	}

	if secretKeyName != nil {
		if l.secretName == "" {
			return nil, errors.Errorf("job %s asks for secret key %s but no secret is configured", jobConfig.JobId, *secretKeyName)
		}
		container.Env = setEnv(container.Env, v12.EnvVar{
			Name: API_KEY_ENV,
			ValueFrom: &v12.EnvVarSource{
				SecretKeyRef: &v12.SecretKeySelector{
					LocalObjectReference: v12.LocalObjectReference{Name: l.secretName},
					Key:                  *secretKeyName,
				},
			},
		})
	}

	created, err := l.jobClient.Create(ctx, jobPtr, metav1.CreateOptions{})
	if err != nil {
		log.Print("Can't create job: ", err)
		return nil, errors.Wrapf(err, "could not create job for %s", jobConfig.JobId)
	}
	return created, nil
}

/**
puts `newVar` first in the list, replacing any existing variable of the same name
*/
func setEnv(existing []v12.EnvVar, newVar v12.EnvVar) []v12.EnvVar {
	vars := []v12.EnvVar{newVar}
	for _, v := range existing {
		if v.Name != newVar.Name {
			vars = append(vars, v)
		}
	}
	return vars
}

/**
look up the Kubernetes Job associated with the given job ID.
returns nil, nil if there is no such job
*/
func (l *JobLauncher) FindRunnerFor(ctx context.Context, jobId uuid.UUID) (*v1batch.Job, error) {
	job, err := l.jobClient.Get(ctx, JobNameFor(jobId), metav1.GetOptions{})
	if k8errors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		log.Print("ERROR: Could not get k8s job: ", err)
		return nil, errors.Wrapf(err, "could not look up job %s", jobId)
	}
	return job, nil
}

/**
suspends the job, which terminates its running pods. It is reported as STOPPED from then on
*/
func (l *JobLauncher) StopJob(ctx context.Context, jobId uuid.UUID) error {
	job, err := l.FindRunnerFor(ctx, jobId)
	if err != nil {
		return err
	}
	if job == nil {
		return errors.Errorf("no job found for %s", jobId)
	}
	suspend := true
	job.Spec.Suspend = &suspend
	if _, updateErr := l.jobClient.Update(ctx, job, metav1.UpdateOptions{}); updateErr != nil {
		return errors.Wrapf(updateErr, "could not stop job %s", jobId)
	}
	return nil
}

/**
the raw submission payload for the given job, as the normaliser expects it. nil, nil if there is no such job
*/
func (l *JobLauncher) SubmissionFor(ctx context.Context, jobId uuid.UUID) (map[string]interface{}, error) {
	job, err := l.FindRunnerFor(ctx, jobId)
	if err != nil || job == nil {
		return nil, err
	}
	return SubmissionPayloadFor(job), nil
}

/**
deletes the kubernetes Job for the given id, along with its pods. A job that is still active is left alone.
returns false if nothing was deleted
*/
func (l *JobLauncher) DeleteJob(ctx context.Context, jobId uuid.UUID, dryRun bool) (bool, error) {
	job, err := l.FindRunnerFor(ctx, jobId)
	if err != nil || job == nil {
		return false, err
	}
	if BackendStatusFor(job) == BACKEND_RUNNING {
		log.Printf("%s seems to still be active, not removing it.", job.Name)
		return false, nil
	}

	var dryRunValue []string
	if dryRun {
		dryRunValue = []string{metav1.DryRunAll}
	}
	propagation := metav1.DeletePropagationBackground
	deleteErr := l.jobClient.Delete(ctx, job.Name, metav1.DeleteOptions{
		DryRun:            dryRunValue,
		PropagationPolicy: &propagation,
	})
	if deleteErr != nil {
		return false, errors.Wrapf(deleteErr, "could not delete k8s job %s", job.Name)
	}
	return true, nil
}
