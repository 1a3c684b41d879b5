package encryption

import (
	"fmt"

	"github.com/kbukum/audiovault/errors"
)

// Encryptor defines the interface for symmetric encryption and decryption.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(payload string) (string, error)
}

// Algorithm represents supported encryption algorithms.
type Algorithm string

const (
	// AlgorithmAESGCM is AES-256-GCM (default, widely supported).
	AlgorithmAESGCM Algorithm = "aes-256-gcm"

	// AlgorithmChaCha20 is ChaCha20-Poly1305 (fast on CPUs without AES-NI).
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// Option configures the encryption service.
type Option func(*options)

type options struct {
	algorithm Algorithm
}

// WithAlgorithm selects the encryption algorithm (default: AES-256-GCM).
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) { o.algorithm = alg }
}

// New creates an Encryptor for a 32-byte key. Use ParseKey to turn the
// configured text form into key bytes.
func New(key []byte, opts ...Option) (Encryptor, error) {
	o := &options{algorithm: AlgorithmAESGCM}
	for _, opt := range opts {
		opt(o)
	}
	if len(key) != KeySize {
		return nil, errors.InvalidKey(fmt.Sprintf("key must be %d bytes, got %d", KeySize, len(key)))
	}

	var (
		svc *Service
		err error
	)
	switch o.algorithm {
	case AlgorithmAESGCM, "":
		svc, err = NewAESGCM(key)
	case AlgorithmChaCha20:
		svc, err = NewChaCha20(key)
	default:
		return nil, errors.InvalidInput("algorithm", fmt.Sprintf("unknown algorithm %q", o.algorithm))
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// FromConfig parses cfg.Key and builds the configured Encryptor.
func FromConfig(cfg Config) (Encryptor, error) {
	key, err := ParseKey(cfg.Key)
	if err != nil {
		return nil, err
	}
	return New(key, WithAlgorithm(Algorithm(cfg.Algorithm)))
}
