package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/audiovault/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty config", func(t *testing.T) {
		var cfg ServiceConfig
		cfg.ApplyDefaults()
		if cfg.Name != "audiovault" || cfg.Environment != "development" {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
		if cfg.Logging.ServiceName != "audiovault" {
			t.Errorf("logging service name = %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("debug raises log level", func(t *testing.T) {
		cfg := ServiceConfig{Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	if cfg.Store.Path != "./data/conversions.json" {
		t.Errorf("store.path = %q", cfg.Store.Path)
	}
	if cfg.Crypto.Algorithm != "aes-256-gcm" {
		t.Errorf("crypto.algorithm = %q", cfg.Crypto.Algorithm)
	}
	if cfg.Audio.FFmpegPath != "ffmpeg" || cfg.Audio.MaxFileSizeBytes != 50*1024*1024 {
		t.Errorf("audio = %+v", cfg.Audio)
	}
	if cfg.Transcription.Provider != "whisper" || cfg.Transcription.Language != "es" {
		t.Errorf("transcription = %+v", cfg.Transcription)
	}
	if cfg.Transcription.MaxDuration != 15*time.Minute || cfg.Transcription.Timeout != 2*time.Minute {
		t.Errorf("transcription durations = %v, %v", cfg.Transcription.MaxDuration, cfg.Transcription.Timeout)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8080 {
		t.Errorf("server = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Observability.Enabled || cfg.Observability.ServiceName != "audiovault" {
		t.Errorf("observability = %+v", cfg.Observability)
	}
	if cfg.Crypto.Key != "" {
		t.Error("no key should be invented")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
environment: staging
logging:
  level: warn
  format: json
store:
  path: /var/lib/audiovault/records.json
crypto:
  algorithm: chacha20-poly1305
transcription:
  provider: openai
  language: en
  max_duration: 5m
  openai:
    api_key: sk-test
server:
  port: 9090
  auth_secret: 0123456789abcdef0123456789abcdef
`)

	cfg, err := Load("audiovault", WithConfigFile(path), WithFileSystem(&mockFS{real: true}))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Environment != "staging" || cfg.Logging.Level != "warn" {
		t.Errorf("service = %+v", cfg.ServiceConfig)
	}
	if cfg.Store.Path != "/var/lib/audiovault/records.json" {
		t.Errorf("store.path = %q", cfg.Store.Path)
	}
	if cfg.Crypto.Algorithm != "chacha20-poly1305" {
		t.Errorf("crypto.algorithm = %q", cfg.Crypto.Algorithm)
	}
	if cfg.Transcription.Provider != "openai" || cfg.Transcription.OpenAI.APIKey != "sk-test" {
		t.Errorf("transcription = %+v", cfg.Transcription)
	}
	if cfg.Transcription.MaxDuration != 5*time.Minute {
		t.Errorf("max_duration = %v", cfg.Transcription.MaxDuration)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "store:\n  path: /from/file.json\n")

	key := "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="
	t.Setenv("STORE_PATH", "/from/env.json")
	t.Setenv("CRYPTO_KEY", key)

	cfg, err := Load("audiovault", WithConfigFile(path), WithFileSystem(&mockFS{real: true}))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Store.Path != "/from/env.json" {
		t.Errorf("store.path = %q", cfg.Store.Path)
	}
	if cfg.Crypto.Key != key {
		t.Errorf("crypto.key not taken from CRYPTO_KEY")
	}
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "TRANSCRIPTION_LANGUAGE=fr\n")
	// Register a restore, then unset so the .env value is not shadowed.
	t.Setenv("TRANSCRIPTION_LANGUAGE", "")
	os.Unsetenv("TRANSCRIPTION_LANGUAGE")

	cfg, err := Load("audiovault", WithEnvFile(envPath), WithFileSystem(&mockFS{real: true}))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Transcription.Language != "fr" {
		t.Errorf("language = %q, want fr", cfg.Transcription.Language)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		content  string
		wantCode errors.ErrorCode
		wantText string
	}{
		{"unknown provider", "transcription:\n  provider: vosk\n", errors.ErrCodeInvalidInput, "provider"},
		{"openai without key", "transcription:\n  provider: openai\n", errors.ErrCodeInvalidInput, "api_key"},
		{"bad key", "crypto:\n  key: short\n", errors.ErrCodeInvalidKey, ""},
		{"bad environment", "environment: qa\n", errors.ErrCodeInvalidInput, "environment"},
		{"short auth secret", "server:\n  auth_secret: abc\n", errors.ErrCodeInvalidInput, "auth_secret"},
		{"unparsable yaml", "store: [\n", errors.ErrCodeInvalidInput, "cannot parse"},
	}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, "config"+string(rune('a'+i))+".yml", tc.content)
			_, err := Load("audiovault", WithConfigFile(path), WithFileSystem(&mockFS{real: true}))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tc.wantCode) {
				t.Errorf("code: got %v, want %s", err, tc.wantCode)
			}
			if tc.wantText != "" && !strings.Contains(err.Error(), tc.wantText) {
				t.Errorf("error %q should mention %q", err.Error(), tc.wantText)
			}
		})
	}
}

func TestExplicitConfigFileMissing(t *testing.T) {
	var cfg AppConfig
	err := LoadConfig("audiovault", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestResolverSearchOrder(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]bool
		want  string
	}{
		{"working directory first", map[string]bool{"config.yml": true, "config/config.yml": true}, "config.yml"},
		{"config subdirectory", map[string]bool{"config/config.yaml": true}, "config/config.yaml"},
		{"user config dir", map[string]bool{"/home/u/.config/audiovault/config.toml": true}, "/home/u/.config/audiovault/config.toml"},
		{"etc", map[string]bool{"/etc/audiovault/config.yml": true}, "/etc/audiovault/config.yml"},
		{"nothing found", map[string]bool{}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &Resolver{FileSystem: &mockFS{files: tc.files, configDir: "/home/u/.config"}}
			files := resolver.ResolveFiles("audiovault", LoaderConfig{})
			if files.ConfigFile != tc.want {
				t.Errorf("ConfigFile = %q, want %q", files.ConfigFile, tc.want)
			}
		})
	}
}

func TestResolverEnvFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{".env": true, ".env.audiovault": true}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("audiovault", LoaderConfig{})
	if files.EnvFile != ".env.audiovault" {
		t.Errorf("EnvFile = %q, want service-specific file first", files.EnvFile)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("TRANSCRIPTION_WHISPER_URL")
	for _, want := range []string{"transcription.whisper.url", "transcription.whisper_url", "transcription_whisper_url"} {
		found := false
		for _, v := range got {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Errorf("variants %v missing %q", got, want)
		}
	}

	if got := generateEnvKeyVariants("DEBUG"); len(got) != 1 || got[0] != "debug" {
		t.Errorf("single word variants = %v", got)
	}
}

// mockFS answers Exists from files unless real is set, in which case it
// defers to the real filesystem but hides the user config dir.
type mockFS struct {
	files     map[string]bool
	configDir string
	real      bool
}

func (m *mockFS) Exists(path string) bool {
	if m.real {
		return (&RealFileSystem{}).Exists(path)
	}
	return m.files[filepath.Clean(path)] || m.files[path]
}

func (m *mockFS) LoadEnv(path string) error {
	if m.real {
		return (&RealFileSystem{}).LoadEnv(path)
	}
	return nil
}

func (m *mockFS) Getwd() (string, error)         { return "/mock", nil }
func (m *mockFS) UserConfigDir() (string, error) { return m.configDir, nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem != fs || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected loader config: %+v", lc)
	}
}
