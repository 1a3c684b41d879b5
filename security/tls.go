package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/kbukum/audiovault/errors"
)

// TLSConfig holds certificate paths and verification settings.
type TLSConfig struct {
	// CAFile verifies the peer: the server for clients, client
	// certificates for servers.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`
	// CertFile and KeyFile are this side's certificate pair.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`
	// ServerName overrides the name checked against the server certificate.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
	// SkipVerify disables server certificate verification. Client side only.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`
	// MinVersion is "1.2" (default) or "1.3".
	MinVersion string `yaml:"min_version" mapstructure:"min_version" validate:"omitempty,oneof=1.2 1.3"`
}

// Validate checks that the configuration is consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("tls: cert_file and key_file must be provided together")
	}
	if _, err := c.minVersion(); err != nil {
		return err
	}
	return nil
}

// ClientEnabled reports whether any client-side setting is present.
func (c *TLSConfig) ClientEnabled() bool {
	return c != nil && (c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.ServerName != "")
}

// ServerEnabled reports whether a server certificate is configured.
func (c *TLSConfig) ServerEnabled() bool {
	return c != nil && c.CertFile != "" && c.KeyFile != ""
}

// ClientConfig returns the tls.Config for dialing, or nil when no
// client-side setting is present.
func (c *TLSConfig) ClientConfig() (*tls.Config, error) {
	if !c.ClientEnabled() {
		return nil, nil
	}
	minVersion, err := c.minVersion()
	if err != nil {
		return nil, err
	}
	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify,
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
	}
	if c.CAFile != "" {
		if cfg.RootCAs, err = loadPool(c.CAFile); err != nil {
			return nil, err
		}
	}
	if c.CertFile != "" {
		cert, err := c.loadPair()
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// ServerConfig returns the tls.Config for listening. A CAFile turns on
// mandatory client-certificate verification.
func (c *TLSConfig) ServerConfig() (*tls.Config, error) {
	if !c.ServerEnabled() {
		return nil, errors.InvalidInput("tls", "server TLS needs cert_file and key_file")
	}
	minVersion, err := c.minVersion()
	if err != nil {
		return nil, err
	}
	cert, err := c.loadPair()
	if err != nil {
		return nil, err
	}
	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}
	if c.CAFile != "" {
		if cfg.ClientCAs, err = loadPool(c.CAFile); err != nil {
			return nil, err
		}
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg, nil
}

func (c *TLSConfig) minVersion() (uint16, error) {
	switch c.MinVersion {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	}
	return 0, errors.InvalidInput("tls", fmt.Sprintf("min_version must be 1.2 or 1.3 (got: %s)", c.MinVersion))
}

func (c *TLSConfig) loadPair() (tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return tls.Certificate{}, errors.InvalidInput("tls", "cannot load certificate pair").WithCause(err)
	}
	return cert, nil
}

func loadPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidInput("tls", "cannot read ca_file").WithCause(err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.InvalidInput("tls", "ca_file holds no PEM certificates")
	}
	return pool, nil
}
