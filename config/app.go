package config

import (
	"github.com/kbukum/audiovault/audio"
	"github.com/kbukum/audiovault/encryption"
	"github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/observability"
	"github.com/kbukum/audiovault/server"
	"github.com/kbukum/audiovault/store"
	"github.com/kbukum/audiovault/transcription"
	"github.com/kbukum/audiovault/validation"
)

// AppConfig is the complete audiovault configuration.
type AppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Store         store.Config         `yaml:"store" mapstructure:"store"`
	Crypto        encryption.Config    `yaml:"crypto" mapstructure:"crypto"`
	Audio         audio.Config         `yaml:"audio" mapstructure:"audio"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every unset section with its defaults.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Crypto.ApplyDefaults()
	c.Audio.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	c.Observability.ApplyDefaults()
}

// Validate runs the struct tag rules over the whole tree and then each
// section's own cross-field checks. The key itself is not required here:
// commands that never touch ciphertext (inspect, keygen, doctor) run
// without one.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return errors.Validation(err.Error())
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	sections := []interface{ Validate() error }{
		&c.Store, &c.Crypto, &c.Audio, &c.Transcription, &c.Server, &c.Observability,
	}
	for _, s := range sections {
		if err := s.Validate(); err != nil {
			if errors.IsAppError(err) {
				return err
			}
			return errors.Wrap(err, errors.ErrCodeInvalidInput, err.Error())
		}
	}
	return nil
}

// Load reads, defaults and validates an AppConfig in one step.
func Load(serviceName string, opts ...LoaderOption) (*AppConfig, error) {
	var cfg AppConfig
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
