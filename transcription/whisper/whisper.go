// Package whisper implements transcription.Provider against a
// faster-whisper HTTP sidecar.
package whisper

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/audiovault/provider"
	"github.com/kbukum/audiovault/security"
	"github.com/kbukum/audiovault/transcription"
	"github.com/kbukum/audiovault/version"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = transcription.ProviderWhisper

	defaultWhisperURL   = "http://localhost:8387"
	defaultWhisperModel = "base"
	// healthTimeout bounds the availability probe.
	healthTimeout = 5 * time.Second
	// maxErrorBody caps how much of an error reply is kept.
	maxErrorBody = 512
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL      string        `json:"url" yaml:"url"`
	Model    string        `json:"model" yaml:"model"`
	Language string        `json:"language,omitempty" yaml:"language"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
	// TLS customizes verification for https URLs. Nil uses the system roots.
	TLS *tls.Config `json:"-" yaml:"-"`
}

// Provider implements transcription.Provider using a faster-whisper HTTP sidecar.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new Whisper transcription provider. Timeout only
// applies to the HTTP client; callers normally bound calls with ctx.
func NewProvider(cfg Config) *Provider {
	if cfg.URL == "" {
		cfg.URL = defaultWhisperURL
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.TLS != nil {
		client.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: cfg.TLS,
		}
	}
	return &Provider{cfg: cfg, client: client}
}

// Factory returns a provider.Factory that creates Whisper Provider
// instances from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		wc := Config{}
		if v, ok := cfg["url"].(string); ok {
			wc.URL = v
		}
		if v, ok := cfg["model"].(string); ok {
			wc.Model = v
		}
		if v, ok := cfg["language"].(string); ok {
			wc.Language = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			wc.Timeout = v
		}
		if v, ok := cfg["tls"].(security.TLSConfig); ok {
			tlsCfg, err := v.ClientConfig()
			if err != nil {
				return nil, err
			}
			wc.TLS = tlsCfg
		}
		return NewProvider(wc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// Accepts reports true for wav only; the sidecar expects PCM input.
func (p *Provider) Accepts(format string) bool {
	return strings.EqualFold(format, "wav")
}

// IsAvailable checks if the Whisper sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", version.UserAgent())
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Transcribe sends an audio file to the Whisper sidecar and returns the transcription.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	audioData, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	_ = writer.WriteField("model", p.cfg.Model)
	if lang != "" {
		_ = writer.WriteField("language", lang)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL+"/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("User-Agent", version.UserAgent())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &transcription.StatusError{
			Service:    ProviderName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	return toResponse(&result), nil
}

// --- internal Whisper API response types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// toResponse prefers the top-level text and falls back to joining segments.
func toResponse(resp *whisperResponse) *transcription.Response {
	text := resp.Text
	if strings.TrimSpace(text) == "" && len(resp.Segments) > 0 {
		parts := make([]string, 0, len(resp.Segments))
		for _, seg := range resp.Segments {
			parts = append(parts, strings.TrimSpace(seg.Text))
		}
		text = strings.Join(parts, " ")
	}

	var duration float64
	if len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}

	return &transcription.Response{
		Text:     text,
		Duration: duration,
		Language: resp.Language,
	}
}
