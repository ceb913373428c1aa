package helpers

import (
	"net/http"

	"github.com/guardian/modeljobs/common/models"
	"github.com/pkg/errors"
)

type ValidationErrorResponse struct {
	Status string              `json:"status"`
	Detail string              `json:"detail"`
	Errors []models.FieldError `json:"errors"`
}

/**
writes a 422 listing every violated field if `err` is a ValidationError. Returns false, having written nothing,
for any other kind of error
*/
func WriteValidationError(err error, w http.ResponseWriter) bool {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	WriteJsonContent(ValidationErrorResponse{
		Status: "error",
		Detail: verr.Error(),
		Errors: verr.Errors,
	}, w, 422)
	return true
}
