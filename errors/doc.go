// Package errors provides the unified failure taxonomy for audiovault.
//
// Every public boundary returns *AppError carrying a Kind (FormatError,
// ServiceError, CryptoError, StoreError, UsageError), a machine-readable
// Code, a human-readable Message and, once the orchestrator has seen it,
// the pipeline Stage that failed. Callers switch on Kind or Code instead
// of parsing free text.
package errors
