package logger

import (
	"time"

	apperrors "github.com/kbukum/audiovault/errors"
)

// Standard field key constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"

	FieldStage     = "stage"
	FieldOutcome   = "outcome"
	FieldErrorKind = "error_kind"
	FieldErrorCode = "error_code"
	FieldRecordID  = "record_id"
	FieldFilename  = "filename"
	FieldPath      = "path"
)

// Outcome values logged under FieldOutcome.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "save", "id", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed. Typed errors
// also contribute their kind and code.
func ErrorFields(op string, err error) map[string]interface{} {
	return MergeWithError(map[string]interface{}{FieldOperation: op}, err)
}

// StageFields creates the fields every pipeline stage log line carries.
func StageFields(stage string, d time.Duration, err error) map[string]interface{} {
	fields := map[string]interface{}{
		FieldStage:    stage,
		FieldDuration: d.Milliseconds(),
		FieldOutcome:  OutcomeSuccess,
	}
	if err != nil {
		fields[FieldOutcome] = OutcomeFailure
		MergeWithError(fields, err)
	}
	return fields
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// MergeWithError adds error, error_kind and error_code fields to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	if appErr, ok := apperrors.AsAppError(err); ok {
		fields[FieldErrorKind] = string(appErr.Kind)
		fields[FieldErrorCode] = string(appErr.Code)
	}
	return fields
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
