package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

/**
returned (wrapped in a ValidationError) when a job_type discriminator is not one of the known kinds.
test for it with errors.Is
*/
var ErrUnknownJobType = errors.New("unknown job type")

/**
a single violated constraint. Field is a dotted path from the root of the payload that was validated,
e.g. "job_config.generation_config.top_p"
*/
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

/**
ValidationError is raised when a payload does not match the shape or constraints of the model it is
being decoded into. It carries every violation that was found, not just the first.
*/
type ValidationError struct {
	Model  string       `json:"model"`
	Errors []FieldError `json:"errors"`
	cause  error
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		if fe.Field == "" {
			parts[i] = fe.Constraint
		} else {
			parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Constraint)
		}
	}
	return fmt.Sprintf("%d validation error(s) for %s: %s", len(e.Errors), e.Model, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

/**
returns true if the given field path has at least one violation recorded against it
*/
func (e *ValidationError) HasField(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

/**
collects field errors while a model is being validated
*/
type validationErrors struct {
	model  string
	errors []FieldError
	cause  error
}

func newValidationErrors(model string) *validationErrors {
	return &validationErrors{model: model}
}

func (v *validationErrors) add(field string, constraint string, args ...interface{}) {
	v.errors = append(v.errors, FieldError{Field: field, Constraint: fmt.Sprintf(constraint, args...)})
}

/**
folds the errors of a nested ValidationError into this one, prefixing their paths.
any other kind of error is recorded against the prefix itself
*/
func (v *validationErrors) merge(prefix string, err error) {
	if err == nil {
		return
	}
	var nested *ValidationError
	if errors.As(err, &nested) {
		for _, fe := range nested.Errors {
			v.errors = append(v.errors, FieldError{Field: joinFieldPath(prefix, fe.Field), Constraint: fe.Constraint})
		}
		if nested.cause != nil && v.cause == nil {
			v.cause = nested.cause
		}
		return
	}
	v.errors = append(v.errors, FieldError{Field: prefix, Constraint: err.Error()})
}

/**
as merge, but violations against a field that already has one recorded are dropped
*/
func (v *validationErrors) mergeMissing(prefix string, err error) {
	before := newValidationErrors(v.model)
	before.merge(prefix, err)
	for _, fe := range before.errors {
		if !v.hasField(fe.Field) {
			v.errors = append(v.errors, fe)
		}
	}
}

func (v *validationErrors) hasField(field string) bool {
	for _, fe := range v.errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (v *validationErrors) err() error {
	if len(v.errors) == 0 {
		return nil
	}
	sort.SliceStable(v.errors, func(i, j int) bool { return v.errors[i].Field < v.errors[j].Field })
	return &ValidationError{Model: v.model, Errors: v.errors, cause: v.cause}
}

func joinFieldPath(prefix string, field string) string {
	if prefix == "" {
		return field
	}
	if field == "" {
		return prefix
	}
	return prefix + "." + field
}

/**
InvalidArgumentError is raised when a required reference is absent where the contract requires it.
*/
type InvalidArgumentError struct {
	Argument string
	Message  string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

func NewInvalidArgument(argument string, message string) *InvalidArgumentError {
	return &InvalidArgumentError{Argument: argument, Message: message}
}
