package encryption

import (
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/kbukum/audiovault/errors"
)

// NewChaCha20 creates a ChaCha20-Poly1305 service. Payload layout matches
// AES-GCM: a 12-byte nonce followed by the sealed text and 16-byte tag.
func NewChaCha20(key []byte) (*Service, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.InvalidKey(err.Error())
	}

	return &Service{aead: aead, algorithm: AlgorithmChaCha20}, nil
}
