package server

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/audiovault/audio"
	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/observability"
	"github.com/kbukum/audiovault/security"
	"github.com/kbukum/audiovault/security/tlstest"
	"github.com/kbukum/audiovault/store"
)

type fakeConverter struct {
	mu      sync.Mutex
	records map[string]*store.Record
	order   []string

	active    atomic.Int32
	maxActive atomic.Int32
	delay     time.Duration
}

func newFakeConverter() *fakeConverter {
	return &fakeConverter{records: map[string]*store.Record{}}
}

func (f *fakeConverter) enter() func() {
	n := f.active.Add(1)
	for {
		m := f.maxActive.Load()
		if n <= m || f.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	return func() { f.active.Add(-1) }
}

func (f *fakeConverter) Convert(_ context.Context, path string) (*store.Record, error) {
	defer f.enter()()
	time.Sleep(f.delay)
	if strings.HasSuffix(path, ".mp3") {
		return nil, apperrors.CorruptAudio("truncated header").WithStage("inspect")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "rec-" + string(rune('a'+len(f.order)))
	rec := &store.Record{ID: id, Filename: "sample.wav", Format: "wav", DurationSeconds: 2, TranscriptCiphertextBase64: "secret"}
	f.records[id] = rec
	f.order = append(f.order, id)
	return rec, nil
}

func (f *fakeConverter) RevealByID(ctx context.Context, id string) (string, error) {
	defer f.enter()()
	time.Sleep(f.delay)
	if _, err := f.GetRecord(ctx, id); err != nil {
		return "", err
	}
	return "hello world", nil
}

func (f *fakeConverter) GetRecord(_ context.Context, id string) (*store.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, apperrors.RecordNotFound(id)
	}
	return rec, nil
}

func (f *fakeConverter) ListRecords(context.Context) ([]store.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []store.Summary{}
	for _, id := range f.order {
		out = append(out, f.records[id].Summary())
	}
	return out, nil
}

func (f *fakeConverter) Inspect(_ context.Context, path string) (*audio.Asset, error) {
	if path == "missing.wav" {
		return nil, apperrors.FileNotFound(path)
	}
	return &audio.Asset{Filename: "sample.wav", Format: audio.FormatWAV, DurationSeconds: 2, SampleRate: 8000, Channels: 1, BitsPerSample: 16}, nil
}

func newTestServer(t *testing.T, conv Converter, authSecret string) http.Handler {
	t.Helper()
	cfg := Config{AuthSecret: authSecret}
	cfg.ApplyDefaults()

	srv := New(cfg, logger.Nop())
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints("audiovault", func(context.Context) []observability.Health {
		return []observability.Health{{Name: "store", Status: observability.HealthStatusUp}}
	})
	NewAPI(conv, logger.Nop()).Register(srv.GinEngine(), authSecret)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", rr.Body.String(), err)
	}
}

func TestConversionFlow(t *testing.T) {
	h := newTestServer(t, newFakeConverter(), "")

	rr := do(t, h, http.MethodPost, "/api/v1/conversions", `{"path":"sample.wav"}`, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("convert status = %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Data map[string]any `json:"data"`
	}
	decode(t, rr, &created)
	id, _ := created.Data["id"].(string)
	if id == "" {
		t.Fatalf("no id in %v", created.Data)
	}
	if _, leaked := created.Data["transcript_ciphertext_base64"]; leaked {
		t.Error("convert should return a summary without payloads")
	}

	rr = do(t, h, http.MethodGet, "/api/v1/conversions", "", nil)
	var list struct {
		Data []map[string]any `json:"data"`
		Meta Meta             `json:"meta"`
	}
	decode(t, rr, &list)
	if rr.Code != http.StatusOK || len(list.Data) != 1 || list.Meta.Total != 1 {
		t.Fatalf("list = %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/api/v1/conversions/"+id, "", nil)
	var full struct {
		Data store.Record `json:"data"`
	}
	decode(t, rr, &full)
	if rr.Code != http.StatusOK || full.Data.TranscriptCiphertextBase64 != "secret" {
		t.Fatalf("get = %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodPost, "/api/v1/conversions/"+id+"/reveal", "", nil)
	var revealed struct {
		Data revealResponse `json:"data"`
	}
	decode(t, rr, &revealed)
	if rr.Code != http.StatusOK || revealed.Data.Text != "hello world" {
		t.Fatalf("reveal = %d %s", rr.Code, rr.Body.String())
	}
}

func TestErrorResponses(t *testing.T) {
	h := newTestServer(t, newFakeConverter(), "")

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
		wantKind   string
	}{
		{"corrupt audio", http.MethodPost, "/api/v1/conversions", `{"path":"corrupt.mp3"}`, http.StatusUnprocessableEntity, "CORRUPT_AUDIO", "FormatError"},
		{"missing path", http.MethodPost, "/api/v1/conversions", `{}`, http.StatusBadRequest, "INVALID_INPUT", "UsageError"},
		{"blank path", http.MethodPost, "/api/v1/inspect", `{"path":"   "}`, http.StatusBadRequest, "INVALID_INPUT", "UsageError"},
		{"overlong path", http.MethodPost, "/api/v1/inspect", `{"path":"` + strings.Repeat("a", 5000) + `"}`, http.StatusBadRequest, "INVALID_INPUT", "UsageError"},
		{"bad json", http.MethodPost, "/api/v1/inspect", `{`, http.StatusBadRequest, "INVALID_INPUT", "UsageError"},
		{"missing file", http.MethodPost, "/api/v1/inspect", `{"path":"missing.wav"}`, http.StatusNotFound, "FILE_NOT_FOUND", "UsageError"},
		{"unknown record", http.MethodGet, "/api/v1/conversions/nope", "", http.StatusNotFound, "RECORD_NOT_FOUND", "UsageError"},
		{"reveal unknown", http.MethodPost, "/api/v1/conversions/nope/reveal", "", http.StatusNotFound, "RECORD_NOT_FOUND", "UsageError"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, tc.method, tc.path, tc.body, nil)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tc.wantStatus, rr.Body.String())
			}
			var body apperrors.ErrorResponse
			decode(t, rr, &body)
			if string(body.Error.Code) != tc.wantCode || string(body.Error.Kind) != tc.wantKind {
				t.Errorf("error = %+v", body.Error)
			}
		})
	}
}

func TestConvertErrorCarriesStage(t *testing.T) {
	h := newTestServer(t, newFakeConverter(), "")
	rr := do(t, h, http.MethodPost, "/api/v1/conversions", `{"path":"bad.mp3"}`, nil)
	var body apperrors.ErrorResponse
	decode(t, rr, &body)
	if body.Error.Stage != "inspect" || body.Error.Retryable {
		t.Errorf("error = %+v", body.Error)
	}
}

func TestInspect(t *testing.T) {
	h := newTestServer(t, newFakeConverter(), "")
	rr := do(t, h, http.MethodPost, "/api/v1/inspect", `{"path":"sample.wav"}`, nil)
	var body struct {
		Data audio.Asset `json:"data"`
	}
	decode(t, rr, &body)
	if rr.Code != http.StatusOK || body.Data.DurationSeconds != 2 || body.Data.Format != audio.FormatWAV {
		t.Fatalf("inspect = %d %s", rr.Code, rr.Body.String())
	}
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestServer(t, newFakeConverter(), "")

	rr := do(t, h, http.MethodGet, "/health", "", nil)
	var health map[string]any
	decode(t, rr, &health)
	if rr.Code != http.StatusOK || health["status"] != "up" {
		t.Errorf("health = %d %v", rr.Code, health)
	}

	rr = do(t, h, http.MethodGet, "/info", "", nil)
	var info map[string]any
	decode(t, rr, &info)
	if rr.Code != http.StatusOK || info["service"] != "audiovault" {
		t.Errorf("info = %d %v", rr.Code, info)
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(t, newFakeConverter(), "")
	rr := do(t, h, http.MethodGet, "/api/v1/conversions", "", map[string]string{"X-Request-Id": "req-42"})
	if got := rr.Header().Get("X-Request-Id"); got != "req-42" {
		t.Errorf("X-Request-Id = %q", got)
	}
	rr = do(t, h, http.MethodGet, "/api/v1/conversions", "", nil)
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("a request id should be generated")
	}
}

func TestAuth(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	h := newTestServer(t, newFakeConverter(), secret)

	sign := func(method jwt.SigningMethod, key string, exp time.Time) string {
		tok, err := jwt.NewWithClaims(method, jwt.MapClaims{"sub": "tester", "exp": exp.Unix()}).SignedString([]byte(key))
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + sign(jwt.SigningMethodHS256, "another-secret-another-secret-xx", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"wrong algorithm", "Bearer " + sign(jwt.SigningMethodHS384, secret, time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(jwt.SigningMethodHS256, secret, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"valid", "Bearer " + sign(jwt.SigningMethodHS256, secret, time.Now().Add(time.Hour)), http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hdr := map[string]string{}
			if tc.header != "" {
				hdr["Authorization"] = tc.header
			}
			rr := do(t, h, http.MethodGet, "/api/v1/conversions", "", hdr)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tc.want, rr.Body.String())
			}
			if tc.want == http.StatusUnauthorized {
				var body apperrors.ErrorResponse
				decode(t, rr, &body)
				if body.Error.Code != apperrors.ErrCodeUnauthorized {
					t.Errorf("code = %s", body.Error.Code)
				}
			}
		})
	}

	if rr := do(t, h, http.MethodGet, "/health", "", nil); rr.Code != http.StatusOK {
		t.Errorf("/health must skip auth, got %d", rr.Code)
	}
}

func TestSingleWorkerSlot(t *testing.T) {
	conv := newFakeConverter()
	conv.delay = 20 * time.Millisecond
	h := newTestServer(t, conv, "")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := do(t, h, http.MethodPost, "/api/v1/conversions", `{"path":"sample.wav"}`, nil)
			if rr.Code != http.StatusCreated {
				t.Errorf("status = %d", rr.Code)
			}
		}()
	}
	wg.Wait()

	if got := conv.maxActive.Load(); got != 1 {
		t.Errorf("max concurrent conversions = %d, want 1", got)
	}
	if len(conv.order) != 4 {
		t.Errorf("conversions = %d, want 4", len(conv.order))
	}
}

func TestBodySizeLimit(t *testing.T) {
	h := newTestServer(t, newFakeConverter(), "")
	big := `{"path":"` + strings.Repeat("a", 2<<20) + `"}`
	rr := do(t, h, http.MethodPost, "/api/v1/inspect", big, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Host != "127.0.0.1" || cfg.Port != 8080 {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Error(err)
	}
	cfg.AuthSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short auth secret")
	}
	cfg.AuthSecret = ""
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid port")
	}
}

func TestStartServesTLS(t *testing.T) {
	certs := tlstest.Generate(t)
	cfg := Config{TLS: security.TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile}}
	cfg.ApplyDefaults()
	cfg.Port = 0

	srv := New(cfg, logger.Nop())
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints("audiovault", nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	if !strings.HasPrefix(srv.URL(), "https://127.0.0.1:") {
		t.Fatalf("URL() = %q", srv.URL())
	}
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: certs.Pool}}}
	resp, err := client.Get(srv.URL() + "/health")
	if err != nil {
		t.Fatalf("GET /health over TLS: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.TLS == nil {
		t.Errorf("status = %d, tls = %v", resp.StatusCode, resp.TLS != nil)
	}
}

func TestTLSConfigValidation(t *testing.T) {
	cfg := Config{TLS: security.TLSConfig{CertFile: "cert.pem"}}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "server.tls") {
		t.Errorf("Validate() = %v", err)
	}
}

func TestStartRequiresClientCertWithCA(t *testing.T) {
	certs := tlstest.Generate(t)
	cfg := Config{TLS: security.TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}}
	cfg.ApplyDefaults()
	cfg.Port = 0

	srv := New(cfg, logger.Nop())
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints("audiovault", nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	anonymous := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: certs.Pool}}}
	if resp, err := anonymous.Get(srv.URL() + "/health"); err == nil {
		resp.Body.Close()
		t.Fatal("request without a client certificate should fail the handshake")
	}

	client := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{
		RootCAs:      certs.Pool,
		Certificates: []tls.Certificate{certs.Client},
	}}}
	resp, err := client.Get(srv.URL() + "/health")
	if err != nil {
		t.Fatalf("GET /health with client cert: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
