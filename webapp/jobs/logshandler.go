package jobs

import (
	"net/http"

	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/webapp/jobrunner"
	log "github.com/sirupsen/logrus"
)

type GetLogsHandler struct {
	Runner *jobrunner.JobRunner
}

func (h GetLogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "GET") {
		return
	}

	jobId, paramsErr := helpers.GetJobIdFromQuerystring(r.RequestURI)
	if paramsErr != nil {
		helpers.WriteJsonContent(paramsErr, w, 400)
		return
	}

	logs, getErr := h.Runner.Logs(r.Context(), *jobId)
	if getErr != nil {
		log.Printf("ERROR GetLogsHandler could not get logs for %s: %s", jobId, getErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: "could not get logs"}, w, 500)
		return
	}
	helpers.WriteJsonContent(logs, w, 200)
}

type StopJobHandler struct {
	Runner *jobrunner.JobRunner
}

func (h StopJobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "POST") {
		return
	}

	jobId, paramsErr := helpers.GetJobIdFromQuerystring(r.RequestURI)
	if paramsErr != nil {
		helpers.WriteJsonContent(paramsErr, w, 400)
		return
	}

	if stopErr := h.Runner.Stop(r.Context(), *jobId); stopErr != nil {
		log.Printf("ERROR StopJobHandler could not stop %s: %s", jobId, stopErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: stopErr.Error()}, w, 500)
		return
	}
	helpers.WriteJsonContent(map[string]string{"status": "ok"}, w, 200)
}
