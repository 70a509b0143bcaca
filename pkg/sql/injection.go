package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a bind value that matched a SQL injection
// pattern.
type InjectionCheckResult struct {
	IsSQLi      bool
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string
	ParamValue  any
}

// CheckBindValue screens a single bind value with libinjection. Only string
// values are checked; numbers and booleans cannot carry injection patterns.
// Returns nil when the value is clean.
func CheckBindValue(paramName string, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if !isSQLi {
		return nil
	}

	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		ParamName:   paramName,
		ParamValue:  value,
	}
}

// CheckBindValues screens every supplied bind value and returns one result
// per value that failed. An empty slice means all values are clean.
func CheckBindValues(values map[string]any) []InjectionCheckResult {
	var failures []InjectionCheckResult
	for name, value := range values {
		if result := CheckBindValue(name, value); result != nil {
			failures = append(failures, *result)
		}
	}
	return failures
}
