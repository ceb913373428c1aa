package jobs

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-redis/redis/v7"
	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/common/models"
)

type ListJobHandler struct {
	RedisClient *redis.Client
}

type ListJobResponse struct {
	Status  string               `json:"status"`
	Entries []models.JobResponse `json:"entries"`
}

/**
list out job records, newest first

query parameters:
- status - only list jobs in this state
- limit - the maximum number of items to get. Defaults to 100
*/
func (h ListJobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "GET") {
		return
	}

	requestUrl, urlErr := url.ParseRequestURI(r.RequestURI)
	if urlErr != nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "bad_data", Detail: "could not understand the passed url"}, w, 400)
		return
	}

	limit := int64(100)
	if limitString := requestUrl.Query().Get("limit"); limitString != "" {
		var parseErr error
		limit, parseErr = strconv.ParseInt(limitString, 10, 64)
		if parseErr != nil || limit < 1 {
			helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "bad_data", Detail: "limit parameter must be a positive number"}, w, 400)
			return
		}
	}

	var maybeStatus *models.JobStatus
	if statusString := requestUrl.Query().Get("status"); statusString != "" {
		status, known := models.ParseJobStatus(statusString)
		if !known {
			helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "bad_data", Detail: "status parameter is not a known job status"}, w, 400)
			return
		}
		maybeStatus = &status
	}

	jobs, getErr := models.ListJobRecords(h.RedisClient, maybeStatus, limit)
	if getErr != nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{
			Status: "db_error",
			Detail: "could not get data, see logs for details",
		}, w, 500)
		return
	}

	helpers.WriteJsonContent(ListJobResponse{Status: "ok", Entries: jobs}, w, 200)
}
