package store

import "fmt"

// DefaultPath is where records are kept unless configured.
const DefaultPath = "./data/conversions.json"

// Config holds record store configuration.
type Config struct {
	// Path is the JSON array file. Its directory is created on Open.
	Path string `yaml:"path" mapstructure:"path" validate:"required"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
}

// Validate checks that the store configuration is valid.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("store: path is required")
	}
	return nil
}
