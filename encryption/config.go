package encryption

import "fmt"

// Config holds the key and cipher selection.
type Config struct {
	// Key is the base64 text of a 32-byte key, usually supplied through
	// the CRYPTO_KEY environment variable.
	Key       string `yaml:"key" mapstructure:"key"`
	Algorithm string `yaml:"algorithm" mapstructure:"algorithm" validate:"omitempty,oneof=aes-256-gcm chacha20-poly1305"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = string(AlgorithmAESGCM)
	}
}

// Validate checks the key format when one is set. A missing key is only
// an error for operations that encrypt or decrypt.
func (c *Config) Validate() error {
	switch Algorithm(c.Algorithm) {
	case AlgorithmAESGCM, AlgorithmChaCha20:
	default:
		return fmt.Errorf("crypto.algorithm must be one of [%s %s] (got: %s)", AlgorithmAESGCM, AlgorithmChaCha20, c.Algorithm)
	}
	if c.Key != "" {
		if _, err := ParseKey(c.Key); err != nil {
			return err
		}
	}
	return nil
}
