package logger

import (
	"time"
)

// Standard field keys.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldEndpoint  = "endpoint"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldStatus    = "status"
	FieldKind      = "kind"
	FieldCode      = "code"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldWaiters   = "waiters"
	FieldBackend   = "backend"
)

// Fields builds a field map from alternating key-value pairs.
//
//	log.Info("sent", logger.Fields("method", "GET", "status", 200))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields returns fields describing a failed operation.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		"operation": op,
		FieldError:  err.Error(),
	}
}

// DurationFields returns fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		"operation":   op,
		FieldDuration: d.Milliseconds(),
	}
}
