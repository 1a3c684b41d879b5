package transcription

import (
	"context"
	"fmt"

	"github.com/kbukum/audiovault/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe sends audio for transcription and returns the result.
	Transcribe(ctx context.Context, req Request) (*Response, error)

	// Accepts reports whether the backend reads the given container
	// natively. Anything else is converted to PCM WAV first.
	Accepts(format string) bool
}

// StatusError is a non-success reply from a backend.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.StatusCode, e.Body)
}
