package transcription

import (
	"context"
	"errors"
	"strings"

	"github.com/kbukum/audiovault/audio"
	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/provider"
)

// Transcriber makes exactly one backend call per Transcribe, with no retries.
type Transcriber struct {
	backend    Provider
	call       provider.RequestResponse[Request, *Response]
	normalizer audio.Transcoder
	cfg        Config
	log        *logger.Logger
}

// TranscriberOption configures a Transcriber.
type TranscriberOption func(*Transcriber)

// WithLogger sets the logger for backend calls.
func WithLogger(l *logger.Logger) TranscriberOption {
	return func(t *Transcriber) { t.log = l }
}

// New creates a Transcriber. normalizer converts audio the backend does
// not accept into the recognition waveform.
func New(backend Provider, normalizer audio.Transcoder, cfg Config, opts ...TranscriberOption) *Transcriber {
	t := &Transcriber{
		backend:    backend,
		normalizer: normalizer,
		cfg:        cfg,
		log:        logger.Get("transcription"),
	}
	for _, opt := range opts {
		opt(t)
	}

	base := provider.Func(backend.Name(), backend.IsAvailable, backend.Transcribe)
	t.call = provider.Chain(
		provider.WithTracing[Request, *Response]("transcription"),
		provider.WithLogging[Request, *Response](t.log),
	)(base)
	return t
}

// Transcribe recognizes the speech in source, which asset describes.
func (t *Transcriber) Transcribe(ctx context.Context, asset *audio.Asset, source string) (*Result, error) {
	if asset == nil {
		return nil, apperrors.InvalidInput("asset", "asset is required")
	}
	if limit := t.cfg.MaxDuration.Seconds(); limit > 0 && asset.DurationSeconds > limit {
		return nil, apperrors.AudioTooLong(asset.DurationSeconds, limit)
	}

	path, format := source, string(asset.Format)
	if !t.backend.Accepts(format) {
		if t.normalizer == nil {
			return nil, apperrors.UnsupportedFormat(format).WithDetail("reason", "no converter configured")
		}
		pcm, cleanup, err := t.normalizer.Transcode(ctx, source, audio.RecognitionSpec)
		if err != nil {
			if _, ok := apperrors.AsAppError(err); ok {
				return nil, err
			}
			return nil, apperrors.UnsupportedFormat(format).WithCause(err)
		}
		defer cleanup()
		path, format = pcm, string(audio.FormatWAV)
	}

	callCtx := ctx
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	resp, err := t.call.Execute(callCtx, Request{
		AudioPath: path,
		Format:    format,
		Language:  t.cfg.BackendLanguage(),
	})
	if err != nil {
		return nil, t.unavailable(callCtx, err)
	}
	if resp == nil {
		return nil, apperrors.TranscriptionUnavailable(t.backend.Name(), errors.New("empty response"))
	}

	text := strings.TrimSpace(resp.Text)
	lang := resp.Language
	if lang == "" {
		lang = t.cfg.BackendLanguage()
	}
	return &Result{Text: text, Language: lang, NoSpeech: text == ""}, nil
}

func (t *Transcriber) unavailable(ctx context.Context, err error) *apperrors.AppError {
	appErr := apperrors.TranscriptionUnavailable(t.backend.Name(), err)

	var status *StatusError
	switch {
	case errors.As(err, &status):
		appErr.WithDetail("status", status.StatusCode)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		appErr.WithDetail("reason", "timeout")
	case errors.Is(ctx.Err(), context.Canceled):
		appErr.WithDetail("reason", "canceled")
	}
	return appErr
}
