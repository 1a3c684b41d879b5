// Package openai implements transcription.Provider with the OpenAI audio
// transcription API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/audiovault/provider"
	"github.com/kbukum/audiovault/transcription"
)

// ProviderName is the registered name for the OpenAI provider.
const ProviderName = transcription.ProviderOpenAI

const healthTimeout = 5 * time.Second

// accepted containers the API decodes itself.
var accepted = map[string]bool{
	"mp3":  true,
	"m4a":  true,
	"ogg":  true,
	"flac": true,
	"wav":  true,
}

// Config holds configuration for the OpenAI transcription provider.
type Config struct {
	APIKey string `json:"-" yaml:"api_key"`
	// BaseURL overrides the API endpoint, e.g. for a compatible gateway.
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url"`
	Model    string `json:"model" yaml:"model"`
	Language string `json:"language,omitempty" yaml:"language"`
}

// Provider implements transcription.Provider using go-openai.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

// NewProvider creates a new OpenAI transcription provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.Whisper1
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(clientCfg)}, nil
}

// Factory returns a provider.Factory that creates OpenAI Provider
// instances from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		oc := Config{}
		if v, ok := cfg["api_key"].(string); ok {
			oc.APIKey = v
		}
		if v, ok := cfg["base_url"].(string); ok {
			oc.BaseURL = v
		}
		if v, ok := cfg["model"].(string); ok {
			oc.Model = v
		}
		if v, ok := cfg["language"].(string); ok {
			oc.Language = v
		}
		return NewProvider(oc)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// Accepts reports whether the API reads format without conversion.
func (p *Provider) Accepts(format string) bool {
	return accepted[strings.ToLower(format)]
}

// IsAvailable lists models as a cheap authenticated probe.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Transcribe uploads the audio file and returns the recognized text.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}

	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    p.cfg.Model,
		FilePath: req.AudioPath,
		Language: lang,
		Format:   goopenai.AudioResponseFormatJSON,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &transcription.Response{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}, nil
}

// toStatusError turns HTTP-level API failures into transcription.StatusError
// and passes transport errors through.
func toStatusError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &transcription.StatusError{Service: ProviderName, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &transcription.StatusError{Service: ProviderName, StatusCode: reqErr.HTTPStatusCode, Body: reqErr.HTTPStatus}
	}
	return fmt.Errorf("openai request: %w", err)
}
