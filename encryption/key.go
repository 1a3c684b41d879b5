package encryption

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/kbukum/audiovault/errors"
)

// KeySize is the key length in bytes for both algorithms.
const KeySize = 32

// keyEncodings are tried in order. URL-safe padded is what GenerateKey
// emits; the others accept keys produced by common tooling.
var keyEncodings = []*base64.Encoding{
	base64.URLEncoding,
	base64.RawURLEncoding,
	base64.StdEncoding,
	base64.RawStdEncoding,
}

// ParseKey decodes the text form of a key. Empty input is MISSING_KEY;
// anything that is not base64 of exactly KeySize bytes is INVALID_KEY.
// The key text never appears in the returned error.
func ParseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.MissingKey()
	}

	decodedLen := -1
	for _, enc := range keyEncodings {
		key, err := enc.DecodeString(s)
		if err != nil {
			continue
		}
		if len(key) == KeySize {
			return key, nil
		}
		decodedLen = len(key)
	}

	if decodedLen >= 0 {
		return nil, errors.InvalidKey(fmt.Sprintf("key must decode to %d bytes, got %d", KeySize, decodedLen))
	}
	return nil, errors.InvalidKey("key is not valid base64")
}

// GenerateKey returns a new random key in URL-safe base64.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", errors.Internal(err)
	}
	return EncodeKey(key), nil
}

// EncodeKey returns the text form ParseKey accepts.
func EncodeKey(key []byte) string {
	return base64.URLEncoding.EncodeToString(key)
}
