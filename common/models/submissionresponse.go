package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/shlex"
	log "github.com/sirupsen/logrus"
)

/**
JobSubmissionResponse is our view of the execution backend's record of a submitted job.
Build it with NormalizeSubmissionResponse, never by decoding the backend payload directly, so that
the launch configuration always goes through redaction.
*/
type JobSubmissionResponse struct {
	Type                   *string                `json:"type"`
	SubmissionId           *string                `json:"submission_id"`
	DriverInfo             *string                `json:"driver_info"`
	Status                 *string                `json:"status"`
	Config                 map[string]interface{} `json:"config"`
	Message                *string                `json:"message"`
	ErrorType              *string                `json:"error_type"`
	StartTime              *time.Time             `json:"start_time"`
	EndTime                *time.Time             `json:"end_time"`
	Metadata               map[string]interface{} `json:"metadata"`
	RuntimeEnv             map[string]interface{} `json:"runtime_env"`
	DriverAgentHttpAddress *string                `json:"driver_agent_http_address"`
	DriverNodeId           *string                `json:"driver_node_id"`
	DriverExitCode         *int                   `json:"driver_exit_code"`
}

const ENTRYPOINT_CONFIG_FLAG = "--config"

/**
turns a raw backend payload into a JobSubmissionResponse.
The embedded launch configuration is pulled out of `entrypoint` and redacted first, and replaces
whatever `config` the backend sent. If there is no entrypoint or it can't be parsed, config is left empty
rather than failing the response. Everything else is then decoded, with unknown keys ignored.
*/
func NormalizeSubmissionResponse(raw map[string]interface{}) (*JobSubmissionResponse, error) {
	transformed := TransformSubmissionPayload(raw)

	rtn := &JobSubmissionResponse{}
	if decodeErr := LenientMapStructureDecode("JobSubmissionResponse", transformed, rtn); decodeErr != nil {
		return nil, decodeErr
	}
	if rtn.Config == nil {
		rtn.Config = map[string]interface{}{}
	}
	if rtn.Metadata == nil {
		rtn.Metadata = map[string]interface{}{}
	}
	if rtn.RuntimeEnv == nil {
		rtn.RuntimeEnv = map[string]interface{}{}
	}
	return rtn, nil
}

/**
the pre-validation step of NormalizeSubmissionResponse: returns a copy of `raw` with `entrypoint` removed and
`config` replaced by the redacted launch configuration (or an empty mapping)
*/
func TransformSubmissionPayload(raw map[string]interface{}) map[string]interface{} {
	rtn := withoutKeys(raw, "entrypoint", "config")

	config, extractErr := configFromEntrypoint(raw["entrypoint"])
	if extractErr != "" {
		if raw["entrypoint"] != nil {
			log.Debugf("Could not read launch config from entrypoint of %v: %s", raw["submission_id"], extractErr)
		}
		rtn["config"] = map[string]interface{}{}
	} else {
		rtn["config"] = RedactConfig(config)
	}
	return rtn
}

/**
finds the json argument to --config in a shell-style entrypoint string.
Returns a description of the problem instead of an error as none of these are fatal
*/
func configFromEntrypoint(entrypoint interface{}) (map[string]interface{}, string) {
	entrypointStr, isStr := entrypoint.(string)
	if !isStr || strings.TrimSpace(entrypointStr) == "" {
		return nil, "no entrypoint"
	}

	tokens, splitErr := shlex.Split(entrypointStr)
	if splitErr != nil {
		return nil, splitErr.Error()
	}

	var configArg *string
	for i, tok := range tokens {
		if tok == ENTRYPOINT_CONFIG_FLAG && i+1 < len(tokens) {
			configArg = &tokens[i+1]
			break
		}
		if strings.HasPrefix(tok, ENTRYPOINT_CONFIG_FLAG+"=") {
			value := strings.TrimPrefix(tok, ENTRYPOINT_CONFIG_FLAG+"=")
			configArg = &value
			break
		}
	}
	if configArg == nil {
		return nil, "no " + ENTRYPOINT_CONFIG_FLAG + " argument"
	}

	var config map[string]interface{}
	if unmarshalErr := json.Unmarshal([]byte(*configArg), &config); unmarshalErr != nil {
		return nil, unmarshalErr.Error()
	}
	if config == nil {
		return nil, "config is not a json object"
	}
	return config, ""
}

/**
the backend's status string, mapped onto a JobStatus. false if it is missing or not one we know
*/
func (r *JobSubmissionResponse) LifecycleStatus() (JobStatus, bool) {
	if r == nil || r.Status == nil {
		return "", false
	}
	return ParseJobStatus(*r.Status)
}
