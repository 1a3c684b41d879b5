// Package encryption seals transcripts with an authenticated cipher.
//
// The 256-bit key is injected at construction and never leaves the
// Encryptor. Payloads are base64(nonce || ciphertext || tag); a wrong key or
// any modified byte fails authentication with INTEGRITY_CHECK_FAILED rather
// than returning garbage.
//
// # Usage
//
//	key, err := encryption.ParseKey(cfg.Crypto.Key)
//	enc, err := encryption.New(key, encryption.WithAlgorithm(encryption.AlgorithmChaCha20))
//	payload, err := enc.Encrypt(text)
//	text, err := enc.Decrypt(payload)
package encryption
