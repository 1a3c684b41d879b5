package audio

import "fmt"

// DefaultMaxFileSize is the largest file Inspect accepts unless configured.
const DefaultMaxFileSize int64 = 50 * 1024 * 1024

// Config controls decoding and input limits.
type Config struct {
	// FFmpegPath is the ffmpeg binary, resolved through PATH when not absolute.
	FFmpegPath string `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	// MaxFileSizeBytes rejects larger inputs with FILE_TOO_LARGE.
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes" mapstructure:"max_file_size_bytes" validate:"gte=0"`
	// TempDir holds canonical PCM files while they are measured or
	// transcribed. Empty means os.TempDir().
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.MaxFileSizeBytes == 0 {
		c.MaxFileSizeBytes = DefaultMaxFileSize
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxFileSizeBytes < 0 {
		return fmt.Errorf("audio.max_file_size_bytes must be positive (got: %d)", c.MaxFileSizeBytes)
	}
	return nil
}
