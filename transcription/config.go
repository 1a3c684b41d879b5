package transcription

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/audiovault/security"
)

// Provider names.
const (
	ProviderWhisper = "whisper"
	ProviderOpenAI  = "openai"
)

// LanguageAuto leaves the spoken language to the backend's detection.
const LanguageAuto = "auto"

// Config selects and configures the recognition backend.
//
// Language defaults to "es" and is sent as a hint the backend does not
// second-guess: other audio must set it, e.g. `language: en` for English,
// or `language: auto` to let the backend detect the language itself.
type Config struct {
	Provider string `yaml:"provider" mapstructure:"provider" validate:"required,oneof=whisper openai"`
	// Language is passed to the backend as the expected spoken language.
	Language string `yaml:"language" mapstructure:"language"`
	// MaxDuration rejects longer audio with AUDIO_TOO_LONG. Zero disables the check.
	MaxDuration time.Duration `yaml:"max_duration" mapstructure:"max_duration" validate:"gte=0"`
	// Timeout bounds the single backend call. Zero leaves only the caller's deadline.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	Whisper WhisperConfig `yaml:"whisper" mapstructure:"whisper"`
	OpenAI  OpenAIConfig  `yaml:"openai" mapstructure:"openai"`
}

// WhisperConfig configures the faster-whisper sidecar.
type WhisperConfig struct {
	URL   string `yaml:"url" mapstructure:"url" validate:"omitempty,url"`
	Model string `yaml:"model" mapstructure:"model"`
	// TLS is used for https sidecar URLs with a private CA or mTLS.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// OpenAIConfig configures the OpenAI audio API.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderWhisper
	}
	if c.Language == "" {
		c.Language = "es"
	}
	if c.MaxDuration == 0 {
		c.MaxDuration = 15 * time.Minute
	}
	if c.Timeout == 0 {
		c.Timeout = 2 * time.Minute
	}
	if c.Whisper.URL == "" {
		c.Whisper.URL = "http://localhost:8387"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "base"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "whisper-1"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderWhisper:
		if c.Whisper.URL == "" {
			return fmt.Errorf("transcription.whisper.url is required for the whisper provider")
		}
		if err := c.Whisper.TLS.Validate(); err != nil {
			return fmt.Errorf("transcription.whisper.%w", err)
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("transcription.openai.api_key is required for the openai provider")
		}
	default:
		return fmt.Errorf("transcription.provider must be %q or %q (got: %q)", ProviderWhisper, ProviderOpenAI, c.Provider)
	}
	if c.MaxDuration < 0 || c.Timeout < 0 {
		return fmt.Errorf("transcription durations must not be negative")
	}
	return nil
}

// BackendLanguage is the language hint sent with each request. Empty means
// the backend detects the language.
func (c *Config) BackendLanguage() string {
	if strings.EqualFold(c.Language, LanguageAuto) {
		return ""
	}
	return c.Language
}

// ProviderConfig flattens the selected backend's settings into the map a
// provider.Factory receives.
func (c *Config) ProviderConfig() map[string]any {
	switch c.Provider {
	case ProviderOpenAI:
		return map[string]any{
			"api_key":  c.OpenAI.APIKey,
			"base_url": c.OpenAI.BaseURL,
			"model":    c.OpenAI.Model,
			"language": c.BackendLanguage(),
		}
	default:
		return map[string]any{
			"url":      c.Whisper.URL,
			"model":    c.Whisper.Model,
			"language": c.BackendLanguage(),
			"timeout":  c.Timeout,
			"tls":      c.Whisper.TLS,
		}
	}
}
