package models

import (
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

/**
convenience function to perform a mapstructure decode using the customised decode hook below,
to handle UUID and timestamp values.
Keys in `incoming` that have no corresponding field in `outgoing` are an error, and every failure is
reported as a ValidationError against `model`.
*/
func CustomisedMapStructureDecode(model string, incoming interface{}, outgoing interface{}) error {
	return customisedDecode(model, incoming, outgoing, true)
}

/**
as CustomisedMapStructureDecode, but keys with no corresponding field are silently dropped. Use this for
payloads that we don't own, like the execution backend's responses
*/
func LenientMapStructureDecode(model string, incoming interface{}, outgoing interface{}) error {
	return customisedDecode(model, incoming, outgoing, false)
}

func customisedDecode(model string, incoming interface{}, outgoing interface{}, errorUnused bool) error {
	decoder, setupErr := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructureDecodeHook,
		ErrorUnused: errorUnused,
		TagName:     "json",
		Result:      outgoing,
	})
	if setupErr != nil {
		return errors.Wrap(setupErr, "could not set up decoder")
	}
	decodeErr := decoder.Decode(incoming)
	if decodeErr == nil {
		return nil
	}
	return validationErrorFromDecode(model, decodeErr)
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

/**
this custom decode hook will perform a couple of extra conversions:
- if the input type is string and the output is uuid, then it will attempt to parse the uuid and send the error back
up the chain if it can't
- if the input type is string and the output is time, then it will attempt to parse the time as an RFC 3339 timestamp
and send the error back up the chain if it can't.
- if the input is a number and the output is time, it is treated as milliseconds since the epoch, which is how
the execution backend reports timestamps
- if the input is a float and the output is an integer, it must be a whole number. mapstructure would otherwise
truncate it
*/
func mapstructureDecodeHook(inType reflect.Type, outType reflect.Type, value interface{}) (interface{}, error) {
	if isIntKind(outType.Kind()) && (inType.Kind() == reflect.Float32 || inType.Kind() == reflect.Float64) {
		f := reflect.ValueOf(value).Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, errors.Errorf("input should be a valid integer, got a number with a fractional part: %v", f)
		}
		return value, nil
	}

	switch outType {
	case uuidType:
		if inType.Kind() == reflect.String {
			return uuid.Parse(value.(string))
		}
	case timeType:
		switch inType.Kind() {
		case reflect.String:
			return time.Parse(time.RFC3339, value.(string))
		case reflect.Float32, reflect.Float64:
			millis := reflect.ValueOf(value).Float()
			return time.Unix(0, int64(millis)*int64(time.Millisecond)).UTC(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			millis := reflect.ValueOf(value).Int()
			return time.Unix(0, millis*int64(time.Millisecond)).UTC(), nil
		}
	}
	return value, nil
}

func isIntKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

var (
	quotedFieldRegex = regexp.MustCompile(`^'([^']*)'\s*(.*)$`)
	hookErrorRegex   = regexp.MustCompile(`^error decoding '([^']*)': (.*)$`)
	invalidKeysRegex = regexp.MustCompile(`^has invalid keys: (.*)$`)
)

/**
mapstructure reports errors as free text of the form "'field.path' message". Break these back down into
FieldErrors so that API consumers can see which field was at fault.
*/
func validationErrorFromDecode(model string, decodeErr error) error {
	verrs := newValidationErrors(model)

	var msErr *mapstructure.Error
	var messages []string
	if errors.As(decodeErr, &msErr) {
		messages = msErr.Errors
	} else {
		messages = []string{decodeErr.Error()}
	}

	for _, msg := range messages {
		parts := quotedFieldRegex.FindStringSubmatch(msg)
		if parts == nil {
			parts = hookErrorRegex.FindStringSubmatch(msg)
		}
		if parts == nil {
			verrs.add("", "%s", msg)
			continue
		}
		field := parts[1]
		detail := parts[2]
		if keys := invalidKeysRegex.FindStringSubmatch(detail); keys != nil {
			for _, k := range strings.Split(keys[1], ", ") {
				verrs.add(joinFieldPath(field, k), "extra fields not permitted")
			}
			continue
		}
		verrs.add(field, "%s", detail)
	}
	return verrs.err()
}

/**
returns a shallow copy of the given map with the given keys removed
*/
func withoutKeys(from map[string]interface{}, keys ...string) map[string]interface{} {
	rtn := make(map[string]interface{}, len(from))
	for k, v := range from {
		rtn[k] = v
	}
	for _, k := range keys {
		delete(rtn, k)
	}
	return rtn
}

func safeGetString(value interface{}) string {
	if str, isStr := value.(string); isStr {
		return str
	}
	return ""
}

/**
returns the map stored under `key`, nil if there is no value, or an error if the value is not a map
*/
func optionalMap(from map[string]interface{}, key string) (map[string]interface{}, bool, error) {
	value, haveValue := from[key]
	if !haveValue || value == nil {
		return nil, false, nil
	}
	mapValue, isMap := value.(map[string]interface{})
	if !isMap {
		return nil, true, errors.Errorf("expected a mapping, got %T", value)
	}
	return mapValue, true, nil
}
