package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/kbukum/audiovault/errors"
)

// Service seals and opens payloads with an AEAD cipher.
type Service struct {
	aead      cipher.AEAD
	algorithm Algorithm
}

// NewAESGCM creates an AES-256-GCM service.
func NewAESGCM(key []byte) (*Service, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.InvalidKey(err.Error())
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("create GCM: %w", err))
	}

	return &Service{aead: gcm, algorithm: AlgorithmAESGCM}, nil
}

// Algorithm reports which cipher the service uses.
func (s *Service) Algorithm() Algorithm {
	return s.algorithm
}

// Encrypt seals plaintext under a fresh random nonce and returns
// base64(nonce || ciphertext || tag). Empty plaintext is allowed.
func (s *Service) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Internal(fmt.Errorf("generate nonce: %w", err))
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a payload produced by Encrypt.
func (s *Service) Decrypt(payload string) (string, error) {
	data, err := base64.StdEncoding.Strict().DecodeString(payload)
	if err != nil {
		// Decodable only when the non-zero padding bits are ignored: the text
		// was altered after Encrypt produced it.
		if _, lerr := base64.StdEncoding.DecodeString(payload); lerr == nil {
			return "", errors.IntegrityCheckFailed()
		}
		return "", errors.MalformedPayload("payload is not valid base64")
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize+s.aead.Overhead() {
		return "", errors.MalformedPayload(fmt.Sprintf("payload is %d bytes, shorter than nonce and tag", len(data)))
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.IntegrityCheckFailed()
	}
	if !utf8.Valid(plaintext) {
		return "", errors.MalformedPayload("decrypted text is not valid UTF-8")
	}

	return string(plaintext), nil
}
