package jobs

import (
	"net/http"

	"github.com/go-redis/redis/v7"
	"github.com/guardian/modeljobs/common/models"
	"github.com/guardian/modeljobs/webapp/jobrunner"
)

type JobsEndpoints struct {
	CreateHandler          CreateJobHandler
	CreateInferenceHandler CreateJobHandler
	CreateEvalHandler      CreateJobHandler
	CreateAnnotateHandler  CreateJobHandler
	GetHandler             GetJobHandler
	ListHandler            ListJobHandler
	LogsHandler            GetLogsHandler
	StopHandler            StopJobHandler
}

func NewJobsEndpoints(redisClient *redis.Client, runner *jobrunner.JobRunner) JobsEndpoints {
	return JobsEndpoints{
		CreateHandler:          CreateJobHandler{Runner: runner},
		CreateInferenceHandler: CreateJobHandler{Runner: runner, JobType: models.JOB_TYPE_INFERENCE},
		CreateEvalHandler:      CreateJobHandler{Runner: runner, JobType: models.JOB_TYPE_EVALUATION},
		CreateAnnotateHandler:  CreateJobHandler{Runner: runner, JobType: models.JOB_TYPE_ANNOTATION},
		GetHandler:             GetJobHandler{Runner: runner},
		ListHandler:            ListJobHandler{RedisClient: redisClient},
		LogsHandler:            GetLogsHandler{Runner: runner},
		StopHandler:            StopJobHandler{Runner: runner},
	}
}

func (e JobsEndpoints) WireUp(baseUrlPath string) {
	http.Handle(baseUrlPath+"/new", e.CreateHandler)
	http.Handle(baseUrlPath+"/inference/new", e.CreateInferenceHandler)
	http.Handle(baseUrlPath+"/evaluator/new", e.CreateEvalHandler)
	http.Handle(baseUrlPath+"/annotate/new", e.CreateAnnotateHandler)
	http.Handle(baseUrlPath+"/get", e.GetHandler)
	http.Handle(baseUrlPath+"/logs", e.LogsHandler)
	http.Handle(baseUrlPath+"/stop", e.StopHandler)
	http.Handle(baseUrlPath+"", e.ListHandler)
}
