// Package app builds the audiovault object graph from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/kbukum/audiovault/audio"
	"github.com/kbukum/audiovault/config"
	"github.com/kbukum/audiovault/converter"
	"github.com/kbukum/audiovault/encryption"
	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/observability"
	"github.com/kbukum/audiovault/provider"
	"github.com/kbukum/audiovault/store"
	"github.com/kbukum/audiovault/transcription"
	"github.com/kbukum/audiovault/transcription/openai"
	"github.com/kbukum/audiovault/transcription/whisper"
	"github.com/kbukum/audiovault/version"
)

// App holds the wired components shared by every command.
type App struct {
	Config    *config.AppConfig
	Converter *converter.Converter
	Inspector *audio.Inspector
	FFmpeg    *audio.FFmpeg
	Backend   transcription.Provider
	Store     *store.Store
	Encryptor encryption.Encryptor
	Log       *logger.Logger

	shutdown observability.ShutdownFunc
}

// Option adjusts how New wires the graph.
type Option func(*options)

type options struct {
	transcoder audio.Transcoder
	registry   *provider.Registry[transcription.Provider]
}

// WithTranscoder replaces ffmpeg for decoding and normalization.
func WithTranscoder(t audio.Transcoder) Option {
	return func(o *options) { o.transcoder = t }
}

// WithRegistry supplies the transcription backend registry. The built-in
// whisper and openai factories are added to it when missing.
func WithRegistry(r *provider.Registry[transcription.Provider]) Option {
	return func(o *options) { o.registry = r }
}

// New wires every component from cfg. cfg must already be defaulted and
// validated. An empty crypto key leaves Encryptor nil so commands that
// never touch ciphertext still run.
func New(ctx context.Context, cfg *config.AppConfig, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger.Init(cfg.Logging)
	log := logger.Get("app")

	if cfg.Observability.ServiceVersion == "" {
		cfg.Observability.ServiceVersion = version.GetVersionInfo().Short()
	}
	shutdown, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}

	a := &App{Config: cfg, Log: log, shutdown: shutdown}
	if err := a.wire(o); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	log.Debug("application wired", logger.Fields(
		"store", a.Store.Path(),
		"provider", a.Backend.Name(),
		"algorithm", cfg.Crypto.Algorithm,
		"key_configured", a.Encryptor != nil,
	))
	return a, nil
}

func (a *App) wire(o options) error {
	cfg := a.Config

	a.FFmpeg = audio.NewFFmpeg(cfg.Audio)
	transcoder := o.transcoder
	if transcoder == nil {
		transcoder = a.FFmpeg
	}
	a.Inspector = audio.NewInspector(cfg.Audio,
		audio.WithTranscoder(transcoder),
		audio.WithLogger(logger.Get("audio")),
	)

	st, err := store.FromConfig(cfg.Store, store.WithLogger(logger.Get("store")))
	if err != nil {
		return err
	}
	a.Store = st

	if cfg.Crypto.Key != "" {
		enc, err := encryption.FromConfig(cfg.Crypto)
		if err != nil {
			return err
		}
		a.Encryptor = enc
	}

	reg := o.registry
	if reg == nil {
		reg = transcription.NewRegistry()
	}
	registerBackends(reg)
	backend, err := transcription.NewProvider(reg, cfg.Transcription)
	if err != nil {
		return err
	}
	a.Backend = backend
	transcriber := transcription.New(backend, a.Inspector.Transcoder(), cfg.Transcription,
		transcription.WithLogger(logger.Get("transcription")),
	)

	metrics, err := observability.NewPipelineMetrics(observability.Meter("github.com/kbukum/audiovault/converter"))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	conv, err := converter.New(converter.Deps{
		Inspector:   a.Inspector,
		Transcriber: transcriber,
		Encryptor:   a.Encryptor,
		Store:       a.Store,
		Metrics:     metrics,
		Logger:      logger.Get("converter"),
	})
	if err != nil {
		return err
	}
	a.Converter = conv
	return nil
}

func registerBackends(reg *provider.Registry[transcription.Provider]) {
	if !reg.Has(whisper.ProviderName) {
		reg.RegisterFactory(whisper.ProviderName, whisper.Factory())
	}
	if !reg.Has(openai.ProviderName) {
		reg.RegisterFactory(openai.ProviderName, openai.Factory())
	}
}

// Close flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	return a.shutdown(ctx)
}
