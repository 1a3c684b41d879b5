package audio

import (
	"encoding/base64"
	"os"

	apperrors "github.com/kbukum/audiovault/errors"
)

// RawDump is the exact content of an audio file.
type RawDump []byte

// Base64 is the persisted text form: standard base64 with padding.
func (d RawDump) Base64() string {
	return base64.StdEncoding.EncodeToString(d)
}

// DecodeRawDump reverses Base64. Only the canonical encoding is accepted,
// so every altered bit of s is an error.
func DecodeRawDump(s string) (RawDump, error) {
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, apperrors.InvalidInput("raw_bytes_base64", "not valid base64")
	}
	return RawDump(b), nil
}

// Dump reads path verbatim. It has no effect beyond the read.
func (in *Inspector) Dump(path string) (RawDump, error) {
	if _, err := statInput(path); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.InvalidPath(path, err.Error())
	}
	return RawDump(b), nil
}
