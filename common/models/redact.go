package models

import (
	"strings"
)

const REDACTED_MARKER = "<redacted>"

var sensitiveKeyNames = []string{
	"api_key",
	"apikey",
	"secret",
	"token",
	"password",
	"passwd",
	"credential",
	"access_key",
	"private_key",
	"authorization",
}

/**
a key is sensitive if, lower-cased with dashes read as underscores, it is one of the sensitive names or ends
with "_<name>". So "HF_TOKEN" and "openai-api-key" are sensitive but "max_new_tokens" and "secret_key_name" are not.
*/
func isSensitiveKey(key string) bool {
	normalised := strings.ReplaceAll(normaliseEnumValue(key), "-", "_")
	for _, name := range sensitiveKeyNames {
		if normalised == name || strings.HasSuffix(normalised, "_"+name) {
			return true
		}
	}
	return false
}

/**
returns a copy of `config` where the value of every sensitive key, at any depth, is replaced with REDACTED_MARKER.
keys are never removed. The input is not modified.
*/
func RedactConfig(config map[string]interface{}) map[string]interface{} {
	rtn := make(map[string]interface{}, len(config))
	for k, v := range config {
		if isSensitiveKey(k) {
			rtn[k] = REDACTED_MARKER
		} else {
			rtn[k] = redactValue(v)
		}
	}
	return rtn
}

func redactValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		return RedactConfig(typed)
	case []interface{}:
		rtn := make([]interface{}, len(typed))
		for i, entry := range typed {
			rtn[i] = redactValue(entry)
		}
		return rtn
	default:
		return value
	}
}
