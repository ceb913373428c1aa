package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type JobType string

const (
	JOB_TYPE_INFERENCE  JobType = "inference"
	JOB_TYPE_EVALUATION JobType = "evaluator"
	JOB_TYPE_ANNOTATION JobType = "annotate"
)

var knownJobTypes = []JobType{JOB_TYPE_INFERENCE, JOB_TYPE_EVALUATION, JOB_TYPE_ANNOTATION}

type JobStatus string

const (
	JOB_CREATED   JobStatus = "created"
	JOB_PENDING   JobStatus = "pending"
	JOB_RUNNING   JobStatus = "running"
	JOB_FAILED    JobStatus = "failed"
	JOB_SUCCEEDED JobStatus = "succeeded"
	JOB_STOPPED   JobStatus = "stopped"
)

var knownJobStatuses = []JobStatus{JOB_CREATED, JOB_PENDING, JOB_RUNNING, JOB_FAILED, JOB_SUCCEEDED, JOB_STOPPED}

var lowerCaser = cases.Lower(language.Und)

/**
enum values are always handled in lower case, whatever the caller or the backend sent us
*/
func normaliseEnumValue(value string) string {
	return lowerCaser.String(strings.TrimSpace(value))
}

/**
returns the JobType matching the given string (case-insensitive) and true, or an empty JobType and false
if it is not one of the known kinds
*/
func ParseJobType(value string) (JobType, bool) {
	normalised := normaliseEnumValue(value)
	for _, t := range knownJobTypes {
		if string(t) == normalised {
			return t, true
		}
	}
	return "", false
}

func KnownJobTypes() []JobType {
	rtn := make([]JobType, len(knownJobTypes))
	copy(rtn, knownJobTypes)
	return rtn
}

func ParseJobStatus(value string) (JobStatus, bool) {
	normalised := normaliseEnumValue(value)
	for _, s := range knownJobStatuses {
		if string(s) == normalised {
			return s, true
		}
	}
	return "", false
}

/**
true if the job will not change state again without outside intervention
*/
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JOB_FAILED, JOB_SUCCEEDED, JOB_STOPPED:
		return true
	default:
		return false
	}
}

func jobTypeNames() string {
	names := make([]string, len(knownJobTypes))
	for i, t := range knownJobTypes {
		names[i] = "'" + string(t) + "'"
	}
	return strings.Join(names, ", ")
}
