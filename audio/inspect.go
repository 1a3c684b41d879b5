package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/logger"
)

// decodeStrategy measures a file whose signature already matched.
type decodeStrategy func(ctx context.Context, in *Inspector, path string, format Format) (pcmInfo, error)

// strategies is the closed dispatch table. Every supported Format has an
// entry; a Format without one is UNSUPPORTED_FORMAT.
var strategies = map[Format]decodeStrategy{
	FormatWAV:  decodeWAV,
	FormatMP3:  decodeViaTranscoder,
	FormatM4A:  decodeViaTranscoder,
	FormatOGG:  decodeViaTranscoder,
	FormatAAC:  decodeViaTranscoder,
	FormatFLAC: decodeViaTranscoder,
	FormatWMA:  decodeViaTranscoder,
}

// Inspector derives Asset metadata and raw dumps from audio files.
type Inspector struct {
	transcoder  Transcoder
	maxFileSize int64
	log         *logger.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithTranscoder replaces the ffmpeg transcoder.
func WithTranscoder(t Transcoder) Option {
	return func(in *Inspector) { in.transcoder = t }
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(in *Inspector) { in.log = l }
}

// NewInspector creates an Inspector. Without WithTranscoder it uses
// ffmpeg as configured in cfg.
func NewInspector(cfg Config, opts ...Option) *Inspector {
	cfg.ApplyDefaults()
	in := &Inspector{
		maxFileSize: cfg.MaxFileSizeBytes,
		log:         logger.Get("audio"),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.transcoder == nil {
		in.transcoder = NewFFmpeg(cfg)
	}
	return in
}

// Transcoder returns the transcoder the Inspector decodes with.
func (in *Inspector) Transcoder() Transcoder {
	return in.transcoder
}

// Inspect validates path and measures the audio it contains.
func (in *Inspector) Inspect(ctx context.Context, path string) (*Asset, error) {
	st, err := statInput(path)
	if err != nil {
		return nil, err
	}
	if in.maxFileSize > 0 && st.Size() > in.maxFileSize {
		return nil, apperrors.FileTooLarge(st.Size(), in.maxFileSize)
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	header, err := readHeader(path)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := checkSignature(format, header); err != nil {
		return nil, err
	}

	decode, ok := strategies[format]
	if !ok {
		return nil, apperrors.UnsupportedFormat(string(format))
	}
	info, err := decode(ctx, in, path, format)
	if err != nil {
		return nil, err
	}

	asset := &Asset{
		Filename:        filepath.Base(path),
		Format:          format,
		SizeBytes:       st.Size(),
		DurationSeconds: info.Duration(),
		SampleRate:      info.SampleRate,
		Channels:        info.Channels,
		BitsPerSample:   info.BitsPerSample,
	}
	in.log.WithContext(ctx).Debug("audio inspected", logger.Fields(
		logger.FieldFilename, asset.Filename,
		"format", string(asset.Format),
		"duration_seconds", asset.DurationSeconds,
	))
	return asset, nil
}

func decodeWAV(ctx context.Context, in *Inspector, path string, format Format) (pcmInfo, error) {
	info, err := readPCMInfo(path)
	if errors.Is(err, errNotPCM) {
		in.log.Debug("non-PCM WAV, transcoding", logger.Fields(logger.FieldFilename, filepath.Base(path)))
		return decodeViaTranscoder(ctx, in, path, format)
	}
	return info, err
}

// decodeViaTranscoder converts to canonical PCM, keeping the source rate
// and channels, and measures the result. The canonical file is removed
// before returning.
func decodeViaTranscoder(ctx context.Context, in *Inspector, path string, format Format) (pcmInfo, error) {
	pcmPath, cleanup, err := in.transcoder.Transcode(ctx, path, CanonicalSpec)
	if err != nil {
		return pcmInfo{}, err
	}
	defer cleanup()

	info, err := readPCMInfo(pcmPath)
	if err != nil {
		return pcmInfo{}, apperrors.UnsupportedFormat(string(format)).
			WithDetail("reason", "decoder produced unreadable PCM").
			WithCause(err)
	}
	return info, nil
}

// statInput checks that path names an existing regular file.
func statInput(path string) (os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, apperrors.InvalidPath(path, "path is empty")
	}
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.FileNotFound(path)
		}
		return nil, apperrors.InvalidPath(path, err.Error())
	}
	if st.IsDir() {
		return nil, apperrors.InvalidPath(path, "path is a directory")
	}
	if !st.Mode().IsRegular() {
		return nil, apperrors.InvalidPath(path, "path is not a regular file")
	}
	return st, nil
}
