package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/process"
)

// Transcoder converts an audio file to a 16-bit PCM WAV. The returned
// cleanup removes the output and must be called on every path once the
// caller is done with it.
type Transcoder interface {
	Transcode(ctx context.Context, src string, spec PCMSpec) (path string, cleanup func(), err error)
}

// FFmpeg transcodes with the ffmpeg command line tool.
type FFmpeg struct {
	Binary  string
	TempDir string
	// GracePeriod bounds how long ffmpeg may take to exit after SIGTERM.
	GracePeriod time.Duration
}

// NewFFmpeg creates an ffmpeg transcoder from the audio configuration.
func NewFFmpeg(cfg Config) *FFmpeg {
	binary := cfg.FFmpegPath
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{Binary: binary, TempDir: cfg.TempDir, GracePeriod: 2 * time.Second}
}

// Transcode writes src as 16-bit little-endian PCM WAV shaped by spec.
// Any decoder failure is UNSUPPORTED_FORMAT; it never yields empty audio.
func (f *FFmpeg) Transcode(ctx context.Context, src string, spec PCMSpec) (string, func(), error) {
	out, err := os.CreateTemp(f.TempDir, "audiovault-*.wav")
	if err != nil {
		return "", nil, apperrors.Internal(fmt.Errorf("create temp file: %w", err))
	}
	outPath := out.Name()
	out.Close()
	cleanup := func() { _ = os.Remove(outPath) }

	result, err := process.Run(ctx, process.Command{
		Binary:      f.Binary,
		Args:        ffmpegArgs(src, outPath, spec),
		GracePeriod: f.GracePeriod,
	})
	if err != nil {
		cleanup()
		return "", nil, f.mapError(ctx, src, result, err)
	}

	return outPath, cleanup, nil
}

func (f *FFmpeg) mapError(ctx context.Context, src string, result *process.Result, err error) error {
	format := "unknown"
	if ft, ferr := FormatFromPath(src); ferr == nil {
		format = string(ft)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperrors.New(apperrors.ErrCodeInternal, "Audio conversion was interrupted.").WithCause(ctxErr)
	}

	appErr := apperrors.UnsupportedFormat(format).WithCause(err)
	if errors.Is(err, process.ErrNotFound) {
		return appErr.WithDetail("reason", fmt.Sprintf("decoder %q is not installed", f.Binary))
	}
	if tail := result.StderrTail(3); tail != "" {
		appErr.WithDetail("reason", tail)
	}
	logger.Get("audio").Warn("ffmpeg conversion failed", logger.MergeWithError(logger.Fields(logger.FieldFilename, src), err))
	return appErr
}

func ffmpegArgs(src, dst string, spec PCMSpec) []string {
	args := []string{
		"-nostdin", "-hide_banner", "-loglevel", "error", "-y",
		"-i", src,
		"-vn", "-map_metadata", "-1",
		"-c:a", "pcm_s16le",
	}
	if spec.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(spec.Channels))
	}
	if spec.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(spec.SampleRate))
	}
	return append(args, "-f", "wav", dst)
}

// Version runs "ffmpeg -version" and returns its first line.
func (f *FFmpeg) Version(ctx context.Context) (string, error) {
	result, err := process.Run(ctx, process.Command{Binary: f.Binary, Args: []string{"-hide_banner", "-version"}})
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(result.Stdout), "\n")
	return strings.TrimSpace(line), nil
}

// Available reports whether the ffmpeg binary resolves.
func (f *FFmpeg) Available() bool {
	_, err := process.LookPath(f.Binary)
	return err == nil
}
