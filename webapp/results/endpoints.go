package results

import (
	"net/http"

	"github.com/go-redis/redis/v7"
)

type ResultsEndpoints struct {
	ResultHandler JobResultHandler
}

func NewResultsEndpoints(redisClient *redis.Client) ResultsEndpoints {
	return ResultsEndpoints{
		ResultHandler: JobResultHandler{RedisClient: redisClient},
	}
}

func (e ResultsEndpoints) WireUp(baseUrlPath string) {
	http.Handle(baseUrlPath, e.ResultHandler)
}
