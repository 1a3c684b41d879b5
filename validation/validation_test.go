package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/audiovault/errors"
)

func TestPath(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"relative", "clips/a.wav", ""},
		{"absolute", "/tmp/a.mp3", ""},
		{"empty", "", "path: is required"},
		{"blank", "  \t", "path: is required"},
		{"too long", strings.Repeat("a", MaxPathLen+1), "path: must be at most 4096 bytes"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Path("path", tc.value)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Path() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Path() = %v, want %q", err, tc.wantErr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestValidatorCollectsAll(t *testing.T) {
	if err := New().Err(); err != nil {
		t.Errorf("empty Validator Err() = %v", err)
	}

	v := New().Required("path", "").Check(false, "key", "must be set").MaxLen("name", "ok", 10)
	if len(v.Errors()) != 2 {
		t.Fatalf("Errors() = %v", v.Errors())
	}
	appErr, ok := errors.AsAppError(v.Err())
	if !ok {
		t.Fatalf("Err() is not an AppError: %v", v.Err())
	}
	if !strings.Contains(appErr.Message, "path: is required") || !strings.Contains(appErr.Message, "key: must be set") {
		t.Errorf("message = %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 || fields[1].Field != "key" {
		t.Errorf("details.fields = %#v", appErr.Details["fields"])
	}
}

type sectionConfig struct {
	Path      string `mapstructure:"path" validate:"required"`
	Algorithm string `mapstructure:"algorithm" validate:"oneof=aes-256-gcm chacha20-poly1305"`
	MaxBytes  int64  `mapstructure:"max_bytes" validate:"gt=0"`
}

type rootConfig struct {
	Section sectionConfig `mapstructure:"section"`
}

func TestStructValidateUsesMapstructureNames(t *testing.T) {
	err := Validate(rootConfig{Section: sectionConfig{Algorithm: "rot13"}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"section.path: is required", "section.algorithm: must be one of", "section.max_bytes: must be greater than 0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestStructValidateJSONNames(t *testing.T) {
	type request struct {
		Path string `json:"path" validate:"required"`
		Note string `json:"note" validate:"max=3"`
	}

	if err := Validate(request{Path: "a.wav"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	err := Validate(request{Note: "toolong"})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"path: is required", "note: must be at most 3 characters"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err.Error(), want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{"MaxBytes": "max_bytes", "Path": "path", "already": "already"}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
