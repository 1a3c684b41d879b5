package converter

import (
	"context"
	"time"

	"github.com/kbukum/audiovault/audio"
	"github.com/kbukum/audiovault/encryption"
	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/observability"
	"github.com/kbukum/audiovault/store"
	"github.com/kbukum/audiovault/transcription"
)

// Inspector measures and dumps audio files. *audio.Inspector implements it.
type Inspector interface {
	Inspect(ctx context.Context, path string) (*audio.Asset, error)
	Dump(path string) (audio.RawDump, error)
}

// Transcriber turns inspected audio into text. *transcription.Transcriber
// implements it.
type Transcriber interface {
	Transcribe(ctx context.Context, asset *audio.Asset, source string) (*transcription.Result, error)
}

// RecordStore persists records. *store.Store implements it.
type RecordStore interface {
	Append(ctx context.Context, rec store.Record) error
	Get(ctx context.Context, id string) (*store.Record, error)
	List(ctx context.Context) ([]store.Summary, error)
}

// Deps are the collaborators a Converter is built from. Transcriber and
// Encryptor may be nil for a converter that only inspects and lists;
// Convert and Reveal then fail.
type Deps struct {
	Inspector   Inspector
	Transcriber Transcriber
	Encryptor   encryption.Encryptor
	Store       RecordStore

	Metrics *observability.PipelineMetrics
	Logger  *logger.Logger

	// Now stamps new records. Defaults to time.Now.
	Now func() time.Time
	// NewID names new records. Defaults to a random UUID.
	NewID func() string
}
