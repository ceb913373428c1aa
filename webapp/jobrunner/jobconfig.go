package jobrunner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/guardian/modeljobs/common/models"
	"github.com/pkg/errors"
)

const (
	INFERENCE_COMMAND = "python inference.py"
	EVALUATOR_COMMAND = "python evaluator.py"
)

/**
the document passed to the job container with --config
*/
type jobArgs struct {
	Name       string      `json:"name"`
	JobId      uuid.UUID   `json:"job_id"`
	Dataset    uuid.UUID   `json:"dataset"`
	MaxSamples int         `json:"max_samples"`
	BatchSize  int         `json:"batch_size"`
	Job        interface{} `json:"job"`
}

/**
works out the command and arguments that run the given request on the backend.
annotation runs the inference command, with the annotation settings projected onto an inference config.
*/
func BuildJobConfig(jobId uuid.UUID, req *models.JobCreate) (*models.JobConfig, error) {
	if req == nil || req.JobConfig == nil {
		return nil, errors.New("cannot build a job config without a job request")
	}

	var command string
	var jobSettings interface{}
	switch cfg := req.JobConfig.(type) {
	case *models.JobInferenceConfig:
		command = INFERENCE_COMMAND
		jobSettings = cfg
	case *models.JobEvalConfig:
		command = EVALUATOR_COMMAND
		jobSettings = cfg
	case *models.JobAnnotateConfig:
		command = INFERENCE_COMMAND
		projected, projectErr := cfg.Inference()
		if projectErr != nil {
			return nil, projectErr
		}
		jobSettings = projected
	default:
		return nil, errors.Errorf("no command for job config %T", req.JobConfig)
	}

	args, marshalErr := json.Marshal(jobArgs{
		Name:       req.Name,
		JobId:      jobId,
		Dataset:    req.Dataset,
		MaxSamples: req.MaxSamples,
		BatchSize:  req.BatchSize,
		Job:        jobSettings,
	})
	if marshalErr != nil {
		return nil, errors.Wrap(marshalErr, "could not serialise job arguments")
	}

	return &models.JobConfig{
		JobId:   jobId,
		JobType: req.Type(),
		Command: command,
		Args:    string(args),
	}, nil
}

/**
the shell command line the job container runs. The arguments are single-quoted so that they arrive as one word
*/
func Entrypoint(jobConfig *models.JobConfig) string {
	return fmt.Sprintf("%s %s %s", jobConfig.Command, models.ENTRYPOINT_CONFIG_FLAG, shellQuote(jobConfig.Args))
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
