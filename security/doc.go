// Package security builds crypto/tls configurations from file paths.
//
// The same TLSConfig shape serves both ends: ServerConfig for the HTTP API
// (with optional client-certificate verification against CAFile) and
// ClientConfig for backend connections such as the whisper sidecar.
//
//	cfg := security.TLSConfig{CertFile: "cert.pem", KeyFile: "key.pem"}
//	tlsConfig, err := cfg.ServerConfig()
package security
