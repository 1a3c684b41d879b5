package errors

import "net/http"

// Kind groups error codes into the families callers usually branch on.
type Kind string

const (
	// KindFormat covers unsupported, corrupt or over-long audio.
	KindFormat Kind = "FormatError"
	// KindService covers a transcription backend that is unreachable or errored.
	KindService Kind = "ServiceError"
	// KindCrypto covers key problems and payloads that fail to decrypt.
	KindCrypto Kind = "CryptoError"
	// KindStore covers write failures and unparsable store files.
	KindStore Kind = "StoreError"
	// KindUsage covers bad or missing paths and other caller mistakes.
	KindUsage Kind = "UsageError"
	// KindInternal is anything not classified above.
	KindInternal Kind = "InternalError"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Format errors
const (
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeCorruptAudio      ErrorCode = "CORRUPT_AUDIO"
	ErrCodeAudioTooLong      ErrorCode = "AUDIO_TOO_LONG"
)

// Service errors
const (
	ErrCodeTranscriptionUnavailable ErrorCode = "TRANSCRIPTION_SERVICE_UNAVAILABLE"
)

// Crypto errors
const (
	ErrCodeIntegrityCheckFailed ErrorCode = "INTEGRITY_CHECK_FAILED"
	ErrCodeMalformedPayload     ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeMissingKey           ErrorCode = "MISSING_KEY"
	ErrCodeInvalidKey           ErrorCode = "INVALID_KEY"
)

// Store errors
const (
	ErrCodeStoreWrite   ErrorCode = "STORE_WRITE_ERROR"
	ErrCodeStoreCorrupt ErrorCode = "STORE_CORRUPT"
)

// Usage errors
const (
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrCodeInvalidPath    ErrorCode = "INVALID_PATH"
	ErrCodeFileTooLarge   ErrorCode = "FILE_TOO_LARGE"
	ErrCodeRecordNotFound ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
)

// Internal errors
const (
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type codeInfo struct {
	kind       Kind
	httpStatus int
	retryable  bool
}

var codeTable = map[ErrorCode]codeInfo{
	ErrCodeUnsupportedFormat:        {KindFormat, http.StatusUnsupportedMediaType, false},
	ErrCodeCorruptAudio:             {KindFormat, http.StatusUnprocessableEntity, false},
	ErrCodeAudioTooLong:             {KindFormat, http.StatusRequestEntityTooLarge, false},
	ErrCodeTranscriptionUnavailable: {KindService, http.StatusServiceUnavailable, true},
	ErrCodeIntegrityCheckFailed:     {KindCrypto, http.StatusUnprocessableEntity, false},
	ErrCodeMalformedPayload:         {KindCrypto, http.StatusUnprocessableEntity, false},
	ErrCodeMissingKey:               {KindCrypto, http.StatusInternalServerError, false},
	ErrCodeInvalidKey:               {KindCrypto, http.StatusInternalServerError, false},
	ErrCodeStoreWrite:               {KindStore, http.StatusInternalServerError, true},
	ErrCodeStoreCorrupt:             {KindStore, http.StatusInternalServerError, false},
	ErrCodeFileNotFound:             {KindUsage, http.StatusNotFound, false},
	ErrCodeInvalidPath:              {KindUsage, http.StatusBadRequest, false},
	ErrCodeFileTooLarge:             {KindUsage, http.StatusRequestEntityTooLarge, false},
	ErrCodeRecordNotFound:           {KindUsage, http.StatusNotFound, false},
	ErrCodeInvalidInput:             {KindUsage, http.StatusBadRequest, false},
	ErrCodeUnauthorized:             {KindUsage, http.StatusUnauthorized, false},
	ErrCodeInternal:                 {KindInternal, http.StatusInternalServerError, false},
}

// KindOfCode returns the family a code belongs to.
func KindOfCode(code ErrorCode) Kind {
	if info, ok := codeTable[code]; ok {
		return info.kind
	}
	return KindInternal
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return codeTable[code].retryable
}

func httpStatusOf(code ErrorCode) int {
	if info, ok := codeTable[code]; ok {
		return info.httpStatus
	}
	return http.StatusInternalServerError
}
