package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Kind is the error family derived from Code.
	Kind Kind `json:"kind"`
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Stage is the pipeline stage that failed, when known.
	Stage string `json:"stage,omitempty"`
	// Retryable indicates if the operation can be retried by the caller.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	prefix := string(e.Code)
	if e.Stage != "" {
		prefix = e.Stage + ": " + prefix
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithStage records the failing pipeline stage and returns the receiver.
// An already recorded stage is kept.
func (e *AppError) WithStage(stage string) *AppError {
	if e.Stage == "" {
		e.Stage = stage
	}
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError; kind, status and retryability follow the code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Kind:       KindOfCode(code),
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatusOf(code),
		Retryable:  IsRetryableCode(code),
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap converts any error into an *AppError. AppErrors anywhere in the chain
// are returned as-is; everything else becomes the given code with err as cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return New(code, message).WithCause(err)
}

// WithStage attaches a stage to err, converting it to an internal AppError
// first when it is not already one.
func WithStage(err error, stage string) *AppError {
	if err == nil {
		return nil
	}
	return Wrap(err, ErrCodeInternal, "An unexpected error occurred.").WithStage(stage)
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// --- Common Error Constructors ---

// FileNotFound reports a missing input file.
func FileNotFound(path string) *AppError {
	return New(ErrCodeFileNotFound, "The audio file does not exist.").
		WithDetail("path", path)
}

// InvalidPath reports an empty path or a path that is not a regular file.
func InvalidPath(path, reason string) *AppError {
	return Newf(ErrCodeInvalidPath, "Invalid path: %s", reason).
		WithDetail("path", path)
}

// FileTooLarge reports an input file over the configured size limit.
func FileTooLarge(size, limit int64) *AppError {
	return Newf(ErrCodeFileTooLarge, "The file exceeds the maximum size of %d bytes.", limit).
		WithDetails(map[string]any{"size_bytes": size, "limit_bytes": limit})
}

// UnsupportedFormat reports a format outside the supported set or one that
// could not be converted to PCM.
func UnsupportedFormat(format string) *AppError {
	return Newf(ErrCodeUnsupportedFormat, "Audio format %q is not supported.", format).
		WithDetail("format", format)
}

// CorruptAudio reports audio whose container could not be read.
func CorruptAudio(reason string) *AppError {
	return Newf(ErrCodeCorruptAudio, "The audio file is corrupt: %s", reason)
}

// AudioTooLong reports audio longer than the transcription limit.
func AudioTooLong(durationSeconds, limitSeconds float64) *AppError {
	return Newf(ErrCodeAudioTooLong, "Audio lasts %.1fs, the limit is %.1fs.", durationSeconds, limitSeconds).
		WithDetails(map[string]any{"duration_seconds": durationSeconds, "limit_seconds": limitSeconds})
}

// TranscriptionUnavailable reports a recognition backend that could not serve the call.
func TranscriptionUnavailable(service string, cause error) *AppError {
	return Newf(ErrCodeTranscriptionUnavailable, "The %s transcription service is unavailable.", service).
		WithDetail("service", service).
		WithCause(cause)
}

// IntegrityCheckFailed reports a payload that failed authentication.
func IntegrityCheckFailed() *AppError {
	return New(ErrCodeIntegrityCheckFailed, "The encrypted payload failed its integrity check.")
}

// MalformedPayload reports a payload that is not valid encrypted text.
func MalformedPayload(reason string) *AppError {
	return Newf(ErrCodeMalformedPayload, "The encrypted payload is malformed: %s", reason)
}

// MissingKey reports that no encryption key was provisioned.
func MissingKey() *AppError {
	return New(ErrCodeMissingKey, "No encryption key is configured.")
}

// InvalidKey reports key material that cannot be used.
func InvalidKey(reason string) *AppError {
	return Newf(ErrCodeInvalidKey, "The encryption key is invalid: %s", reason)
}

// StoreWrite reports a failure persisting the store.
func StoreWrite(cause error) *AppError {
	return New(ErrCodeStoreWrite, "The record store could not be written.").WithCause(cause)
}

// StoreCorrupt reports a store file that exists but cannot be parsed.
func StoreCorrupt(path string, cause error) *AppError {
	return New(ErrCodeStoreCorrupt, "The record store file is corrupt.").
		WithDetail("path", path).
		WithCause(cause)
}

// RecordNotFound reports an unknown record id.
func RecordNotFound(id string) *AppError {
	return New(ErrCodeRecordNotFound, "The requested record was not found.").
		WithDetail("id", id)
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	appErr := Newf(ErrCodeInvalidInput, "Invalid input: %s", reason)
	if field != "" {
		appErr.WithDetail("field", field)
	}
	return appErr
}

// Unauthorized reports a request without valid credentials.
func Unauthorized(reason string) *AppError {
	return New(ErrCodeUnauthorized, reason)
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}
