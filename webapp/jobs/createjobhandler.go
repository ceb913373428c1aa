package jobs

import (
	"net/http"

	"github.com/guardian/modeljobs/common/helpers"
	"github.com/guardian/modeljobs/common/models"
	"github.com/guardian/modeljobs/webapp/jobrunner"
	log "github.com/sirupsen/logrus"
)

/**
accepts a JobCreate body and launches it. If JobType is set, the handler only accepts that kind of job
*/
type CreateJobHandler struct {
	Runner  *jobrunner.JobRunner
	JobType models.JobType
}

func (h CreateJobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	if !helpers.AssertHttpMethod(r, w, "POST") {
		return
	}

	rawRequest, readErr := helpers.ReadJsonObject(r.Body)
	if readErr != nil {
		log.Print("Could not read request body ", readErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: "Invalid json request body"}, w, 400)
		return
	}

	var rq *models.JobCreate
	var decodeErr error
	if h.JobType == "" {
		rq, decodeErr = models.DecodeJobCreate(rawRequest)
	} else {
		rq, decodeErr = models.DecodeJobCreateOfType(rawRequest, h.JobType)
	}
	if decodeErr != nil {
		log.Printf("Rejected job request: %s", decodeErr)
		if !helpers.WriteValidationError(decodeErr, w) {
			helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "error", Detail: decodeErr.Error()}, w, 400)
		}
		return
	}

	record, submitErr := h.Runner.Submit(r.Context(), rq, nil)
	if submitErr != nil {
		log.Printf("ERROR could not submit job: %s", submitErr)
		helpers.WriteJsonContent(helpers.GenericErrorResponse{Status: "server_error", Detail: submitErr.Error()}, w, 500)
		return
	}

	helpers.WriteJsonContent(record, w, 201)
}
