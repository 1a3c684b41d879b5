package store

import (
	"time"

	"github.com/kbukum/audiovault/audio"
)

// Record is one persisted conversion. The JSON field names are the on-disk
// format.
type Record struct {
	ID                         string    `json:"id"`
	Filename                   string    `json:"filename"`
	Format                     string    `json:"format"`
	SizeBytes                  int64     `json:"size_bytes"`
	DurationSeconds            float64   `json:"duration_seconds"`
	SampleRate                 int       `json:"sample_rate"`
	Channels                   int       `json:"channels"`
	BitsPerSample              int       `json:"bits_per_sample"`
	RawBytesBase64             string    `json:"raw_bytes_base64"`
	TranscriptCiphertextBase64 string    `json:"transcript_ciphertext_base64"`
	CreatedAt                  time.Time `json:"created_at"`
}

// NewRecord assembles a record from a finished conversion. createdAt is
// stored in UTC.
func NewRecord(id string, asset *audio.Asset, raw audio.RawDump, ciphertext string, createdAt time.Time) Record {
	return Record{
		ID:                         id,
		Filename:                   asset.Filename,
		Format:                     string(asset.Format),
		SizeBytes:                  asset.SizeBytes,
		DurationSeconds:            asset.DurationSeconds,
		SampleRate:                 asset.SampleRate,
		Channels:                   asset.Channels,
		BitsPerSample:              asset.BitsPerSample,
		RawBytesBase64:             raw.Base64(),
		TranscriptCiphertextBase64: ciphertext,
		CreatedAt:                  createdAt.UTC(),
	}
}

// Asset returns the audio metadata the record was built from.
func (r *Record) Asset() audio.Asset {
	return audio.Asset{
		Filename:        r.Filename,
		Format:          audio.Format(r.Format),
		SizeBytes:       r.SizeBytes,
		DurationSeconds: r.DurationSeconds,
		SampleRate:      r.SampleRate,
		Channels:        r.Channels,
		BitsPerSample:   r.BitsPerSample,
	}
}

// Summary is a record without its payloads, for listings.
type Summary struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename"`
	Format          string    `json:"format"`
	SizeBytes       int64     `json:"size_bytes"`
	DurationSeconds float64   `json:"duration_seconds"`
	SampleRate      int       `json:"sample_rate"`
	Channels        int       `json:"channels"`
	BitsPerSample   int       `json:"bits_per_sample"`
	CreatedAt       time.Time `json:"created_at"`
}

// Summary drops the raw dump and ciphertext.
func (r *Record) Summary() Summary {
	return Summary{
		ID:              r.ID,
		Filename:        r.Filename,
		Format:          r.Format,
		SizeBytes:       r.SizeBytes,
		DurationSeconds: r.DurationSeconds,
		SampleRate:      r.SampleRate,
		Channels:        r.Channels,
		BitsPerSample:   r.BitsPerSample,
		CreatedAt:       r.CreatedAt,
	}
}
