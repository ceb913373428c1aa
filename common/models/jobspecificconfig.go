package models

import (
	"reflect"
	"strings"
)

/**
JobSpecificConfig is implemented by exactly one config type per JobType. Type() always returns the
pinned discriminator of the variant.
*/
type JobSpecificConfig interface {
	Type() JobType
	Validate() error
	GetSecretKeyName() *string
	SchemaFields() []string
}

/**
reads the `job_type` discriminator and builds the matching variant.
unknown or missing discriminators give a ValidationError that wraps ErrUnknownJobType.
*/
func DecodeJobSpecificConfig(mapData map[string]interface{}) (JobSpecificConfig, error) {
	rawType, haveType := mapData["job_type"]
	jobTypeStr, isStr := rawType.(string)
	if !haveType || !isStr {
		return nil, unknownJobTypeError(rawType)
	}
	jobType, known := ParseJobType(jobTypeStr)
	if !known {
		return nil, unknownJobTypeError(rawType)
	}

	//the constructors return typed pointers, so don't let a nil one escape as a non-nil interface
	switch jobType {
	case JOB_TYPE_INFERENCE:
		cfg, err := JobInferenceConfigFromMap(mapData)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	case JOB_TYPE_EVALUATION:
		cfg, err := JobEvalConfigFromMap(mapData)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	case JOB_TYPE_ANNOTATION:
		cfg, err := JobAnnotateConfigFromMap(mapData)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	default:
		return nil, unknownJobTypeError(rawType)
	}
}

/**
as DecodeJobSpecificConfig, but the discriminator must also equal `expected`
*/
func DecodeJobSpecificConfigOfType(mapData map[string]interface{}, expected JobType) (JobSpecificConfig, error) {
	if rawType, haveType := mapData["job_type"]; haveType {
		if typeErr := checkPinnedJobType(mapData, expected); typeErr != "" {
			verrs := newValidationErrors("JobSpecificConfig")
			verrs.add("job_type", "%s", typeErr)
			if str, isStr := rawType.(string); !isStr || !isKnownJobType(str) {
				verrs.cause = ErrUnknownJobType
			}
			return nil, verrs.err()
		}
	}
	withType := withoutKeys(mapData)
	withType["job_type"] = string(expected)
	return DecodeJobSpecificConfig(withType)
}

func isKnownJobType(value string) bool {
	_, known := ParseJobType(value)
	return known
}

func unknownJobTypeError(rawType interface{}) error {
	verrs := newValidationErrors("JobSpecificConfig")
	if rawType == nil {
		verrs.add("job_type", "field required, should be one of %s", jobTypeNames())
	} else {
		verrs.add("job_type", "input tag '%v' does not match any of the expected tags: %s", rawType, jobTypeNames())
	}
	verrs.cause = ErrUnknownJobType
	return verrs.err()
}

/**
lists the json field names of a struct, in declaration order
*/
func jsonFieldNames(value interface{}) []string {
	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	rtn := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		rtn = append(rtn, name)
	}
	return rtn
}
