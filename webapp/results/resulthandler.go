package results

import (
	"net/http"

	"github.com/go-redis/redis/v7"
	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/common/models"
	log "github.com/sirupsen/logrus"
)

/**
GET returns the accumulated result for the job in `jobId`.
POST merges the body into it; running jobs call this as they produce metrics, parameters and artifacts
*/
type JobResultHandler struct {
	RedisClient *redis.Client
}

type JobResultResponse struct {
	Status string                  `json:"status"`
	Result *models.JobResultObject `json:"result"`
}

func (h JobResultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}

	jobId, paramsErr := helpers.GetJobIdFromQuerystring(r.RequestURI)
	if paramsErr != nil {
		helpers.WriteJsonContent(paramsErr, w, 400)
		return
	}

	switch r.Method {
	case "GET":
		result, getErr := models.JobResultForId(*jobId, h.RedisClient)
		if getErr != nil {
			log.Printf("ERROR JobResultHandler could not get result for %s: %s", jobId, getErr)
			helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "could not get data, see logs for details"}, w, 500)
			return
		}
		if result == nil {
			helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "not_found", Detail: "no result for this job"}, w, 404)
			return
		}
		helpers.WriteJsonContent(JobResultResponse{"ok", result}, w, 200)
	case "POST":
		h.receiveResult(w, r)
	default:
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: "wrong method type"}, w, 405)
	}
}

func (h JobResultHandler) receiveResult(w http.ResponseWriter, r *http.Request) {
	jobId, _ := helpers.GetJobIdFromQuerystring(r.RequestURI)

	rawUpdate, readErr := helpers.ReadJsonObject(r.Body)
	if readErr != nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "bad_request", Detail: readErr.Error()}, w, 400)
		return
	}
	update, parseErr := models.JobResultObjectFromMap(rawUpdate)
	if parseErr != nil {
		if !helpers.WriteValidationError(parseErr, w) {
			helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "bad_request", Detail: parseErr.Error()}, w, 400)
		}
		return
	}

	record, recordErr := models.JobRecordForId(*jobId, h.RedisClient)
	if recordErr != nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "could not get data, see logs for details"}, w, 500)
		return
	}
	if record == nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "not_found", Detail: "no such job"}, w, 404)
		return
	}

	merged, mergeErr := models.MergeJobResult(r.Context(), h.RedisClient, *jobId, update)
	if mergeErr != nil {
		log.Printf("ERROR JobResultHandler could not merge result for %s: %s", jobId, mergeErr)
		if !helpers.WriteValidationError(mergeErr, w) {
			helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "db_error", Detail: "could not save result, see logs for details"}, w, 500)
		}
		return
	}
	helpers.WriteJsonContent(JobResultResponse{"ok", merged}, w, 200)
}
