// Package converter runs the conversion pipeline: inspect an audio file,
// dump its bytes, transcribe it, encrypt the transcript and append the
// resulting record to the store.
//
// Any stage failure aborts the conversion with the stage recorded on the
// returned AppError; nothing is appended unless every stage succeeded.
// Each stage gets its own span, a structured log entry and duration and
// error metrics.
package converter
