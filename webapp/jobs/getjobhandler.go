package jobs

import (
	"net/http"

	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/webapp/jobrunner"
	log "github.com/sirupsen/logrus"
)

/**
returns the job record merged with the backend's view of it, bringing the record's status up to date on the way
*/
type GetJobHandler struct {
	Runner *jobrunner.JobRunner
}

func (h GetJobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !helpers.AssertHttpMethod(r, w, "GET") {
		return //error is already output
	}

	jobId, paramsErr := helpers.GetJobIdFromQuerystring(r.RequestURI)
	if paramsErr != nil {
		helpers.WriteJsonContent(paramsErr, w, 400)
		return
	}

	result, jobErr := h.Runner.Reconcile(r.Context(), *jobId)
	if jobErr != nil {
		log.Printf("ERROR could not get job %s: %s", jobId, jobErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: "Could not retrieve entry"}, w, 500)
		return
	}
	if result == nil {
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "not_found", Detail: "no such job"}, w, 404)
		return
	}

	helpers.WriteJsonContent(result, w, 200)
}
