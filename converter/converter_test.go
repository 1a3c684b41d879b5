package converter

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/audiovault/audio"
	"github.com/kbukum/audiovault/encryption"
	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/observability"
	"github.com/kbukum/audiovault/store"
	"github.com/kbukum/audiovault/transcription"
)

// scriptedProvider answers by the base name of the file it receives.
type scriptedProvider struct {
	texts map[string]string
	err   error
	calls int
}

func (p *scriptedProvider) Name() string                       { return "scripted" }
func (p *scriptedProvider) IsAvailable(_ context.Context) bool { return true }
func (p *scriptedProvider) Accepts(format string) bool         { return format == "wav" }

func (p *scriptedProvider) Transcribe(_ context.Context, req transcription.Request) (*transcription.Response, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &transcription.Response{Text: p.texts[filepath.Base(req.AudioPath)]}, nil
}

type failingStore struct {
	store.Store
	err error
}

func (f *failingStore) Append(context.Context, store.Record) error { return f.err }

type fixture struct {
	dir      string
	conv     *Converter
	store    *store.Store
	provider *scriptedProvider
}

func writeWAV(t *testing.T, path string, rate, frames int, amplitude float64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	data := make([]int, frames)
	for i := range data {
		data[i] = int(amplitude * 32767 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	if err := enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func newFixture(t *testing.T, mutate func(*Deps)) *fixture {
	t.Helper()
	dir := t.TempDir()

	writeWAV(t, filepath.Join(dir, "sample.wav"), 8000, 16000, 0.5)
	writeWAV(t, filepath.Join(dir, "silence.wav"), 8000, 8000, 0)
	if err := os.WriteFile(filepath.Join(dir, "corrupt.mp3"), []byte("ID3\x03"), 0o600); err != nil {
		t.Fatal(err)
	}

	st, err := store.Open(filepath.Join(dir, "store", "conversions.json"))
	if err != nil {
		t.Fatal(err)
	}
	keyText, err := encryption.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	key, _ := encryption.ParseKey(keyText)
	enc, err := encryption.New(key)
	if err != nil {
		t.Fatal(err)
	}

	p := &scriptedProvider{texts: map[string]string{"sample.wav": "hello world", "silence.wav": ""}}
	tcfg := transcription.Config{}
	tcfg.ApplyDefaults()

	deps := Deps{
		Inspector:   audio.NewInspector(audio.Config{}),
		Transcriber: transcription.New(p, nil, tcfg),
		Encryptor:   enc,
		Store:       st,
		Now:         func() time.Time { return time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC) },
	}
	if mutate != nil {
		mutate(&deps)
	}
	conv, err := New(deps)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{dir: dir, conv: conv, store: st, provider: p}
}

func (f *fixture) path(name string) string { return filepath.Join(f.dir, name) }

func TestConvertSample(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	rec, err := f.conv.Convert(ctx, f.path("sample.wav"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if rec.DurationSeconds != 2.0 || rec.Channels != 1 || rec.BitsPerSample != 16 || rec.SampleRate != 8000 {
		t.Errorf("asset fields = %+v", rec.Summary())
	}
	if rec.Format != "wav" || rec.Filename != "sample.wav" {
		t.Errorf("format/filename = %s/%s", rec.Format, rec.Filename)
	}
	if !rec.CreatedAt.Equal(time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", rec.CreatedAt)
	}

	raw, _ := os.ReadFile(f.path("sample.wav"))
	if rec.RawBytesBase64 != base64.StdEncoding.EncodeToString(raw) {
		t.Error("raw dump does not match file content")
	}

	text, err := f.conv.Reveal(ctx, rec)
	if err != nil || text != "hello world" {
		t.Fatalf("Reveal() = %q, %v", text, err)
	}
	byID, err := f.conv.RevealByID(ctx, rec.ID)
	if err != nil || byID != "hello world" {
		t.Fatalf("RevealByID() = %q, %v", byID, err)
	}
}

func TestConvertSilence(t *testing.T) {
	f := newFixture(t, nil)
	rec, err := f.conv.Convert(context.Background(), f.path("silence.wav"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	text, err := f.conv.Reveal(context.Background(), rec)
	if err != nil || text != "" {
		t.Fatalf("Reveal() = %q, %v", text, err)
	}
}

func TestConvertCorruptLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.conv.Convert(context.Background(), f.path("corrupt.mp3"))

	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Kind != apperrors.KindFormat {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if appErr.Stage != StageInspect {
		t.Errorf("Stage = %q, want %q", appErr.Stage, StageInspect)
	}
	if _, err := os.Stat(f.store.Path()); !os.IsNotExist(err) {
		t.Error("store file should not exist after a failed first conversion")
	}
	if f.provider.calls != 0 {
		t.Error("transcription must not run after inspection failed")
	}
}

func TestConvertTwiceYieldsDistinctRecords(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a, err := f.conv.Convert(ctx, f.path("sample.wav"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.conv.Convert(ctx, f.path("sample.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Error("ids must differ")
	}
	if a.Asset() != b.Asset() {
		t.Errorf("asset fields differ: %+v vs %+v", a.Asset(), b.Asset())
	}

	list, err := f.conv.ListRecords(ctx)
	if err != nil || len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("ListRecords() = %v, %v", list, err)
	}
}

func TestConvertManyKeepsOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 5; i++ {
		rec, err := f.conv.Convert(ctx, f.path("silence.wav"))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, rec.ID)
	}
	records, err := f.store.Load(ctx)
	if err != nil || len(records) != len(ids) {
		t.Fatalf("Load() = %d records, %v", len(records), err)
	}
	for i := range ids {
		if records[i].ID != ids[i] {
			t.Errorf("records[%d] = %s, want %s", i, records[i].ID, ids[i])
		}
	}
}

func TestRevealDetectsTampering(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	rec, err := f.conv.Convert(ctx, f.path("sample.wav"))
	if err != nil {
		t.Fatal(err)
	}
	payload, _ := base64.StdEncoding.DecodeString(rec.TranscriptCiphertextBase64)

	for i := 0; i < len(payload)*8; i++ {
		tampered := append([]byte(nil), payload...)
		tampered[i/8] ^= 1 << (i % 8)
		copyRec := *rec
		copyRec.TranscriptCiphertextBase64 = base64.StdEncoding.EncodeToString(tampered)

		_, err := f.conv.Reveal(ctx, &copyRec)
		if !apperrors.Is(err, apperrors.ErrCodeIntegrityCheckFailed) {
			t.Fatalf("bit %d: expected INTEGRITY_CHECK_FAILED, got %v", i, err)
		}
	}

	if text, err := f.conv.Reveal(ctx, rec); err != nil || text != "hello world" {
		t.Errorf("untouched record should still reveal: %q, %v", text, err)
	}
}

func TestRevealRejectsAlteredStoredText(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	// silence.wav yields an empty transcript: a 28-byte payload stored with "==".
	rec, err := f.conv.Convert(ctx, f.path("silence.wav"))
	if err != nil {
		t.Fatal(err)
	}
	stored := rec.TranscriptCiphertextBase64

	for i := 0; i < len(stored)*8; i++ {
		tampered := []byte(stored)
		tampered[i/8] ^= 1 << (i % 8)
		copyRec := *rec
		copyRec.TranscriptCiphertextBase64 = string(tampered)

		text, err := f.conv.Reveal(ctx, &copyRec)
		if err == nil {
			t.Fatalf("char %d bit %d: altered text revealed %q", i/8, i%8, text)
		}
		if apperrors.KindOf(err) != apperrors.KindCrypto {
			t.Fatalf("char %d bit %d: kind = %s, want CryptoError", i/8, i%8, apperrors.KindOf(err))
		}
	}

	if text, err := f.conv.Reveal(ctx, rec); err != nil || text != "" {
		t.Errorf("untouched record should reveal the empty transcript: %q, %v", text, err)
	}
}

func TestNoPartialRecordOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Deps)
		provErr   error
		wantStage string
		wantCode  apperrors.ErrorCode
	}{
		{
			name:      "transcription unavailable",
			provErr:   errors.New("connection refused"),
			wantStage: StageTranscribe,
			wantCode:  apperrors.ErrCodeTranscriptionUnavailable,
		},
		{
			name:      "missing key",
			mutate:    func(d *Deps) { d.Encryptor = nil },
			wantStage: StageEncrypt,
			wantCode:  apperrors.ErrCodeMissingKey,
		},
		{
			name: "store write",
			mutate: func(d *Deps) {
				d.Store = &failingStore{err: apperrors.StoreWrite(errors.New("disk full"))}
			},
			wantStage: StageStore,
			wantCode:  apperrors.ErrCodeStoreWrite,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.mutate)
			f.provider.err = tc.provErr

			rec, err := f.conv.Convert(context.Background(), f.path("sample.wav"))
			if rec != nil {
				t.Error("no record on failure")
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != tc.wantCode || appErr.Stage != tc.wantStage {
				t.Fatalf("error = %v (stage %q), want %s at %s", err, appErr.Stage, tc.wantCode, tc.wantStage)
			}
			records, err := f.store.Load(context.Background())
			if err != nil || len(records) != 0 {
				t.Errorf("store should be empty: %d records, %v", len(records), err)
			}
		})
	}
}

func TestInspectAndLookupErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	asset, err := f.conv.Inspect(ctx, f.path("sample.wav"))
	if err != nil || asset.DurationSeconds != 2.0 {
		t.Fatalf("Inspect() = %+v, %v", asset, err)
	}
	if _, err := os.Stat(f.store.Path()); !os.IsNotExist(err) {
		t.Error("Inspect must not write the store")
	}

	_, err = f.conv.Inspect(ctx, f.path("absent.wav"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}

	_, err = f.conv.RevealByID(ctx, "no-such-id")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeRecordNotFound || appErr.Stage != StageLoad {
		t.Errorf("expected RECORD_NOT_FOUND at load, got %v", err)
	}
}

func TestNewRequiresInspectorAndStore(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("expected error without inspector")
	}
	if _, err := New(Deps{Inspector: audio.NewInspector(audio.Config{})}); err == nil {
		t.Error("expected error without store")
	}
}

func TestStageSpansAndMetrics(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewPipelineMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	f := newFixture(t, func(d *Deps) {
		d.Metrics = metrics
		d.Logger = logger.NewWithWriter(&logs, &logger.Config{Level: "info", Format: "json"}, "audiovault")
	})
	ctx := context.Background()
	if _, err := f.conv.Convert(ctx, f.path("sample.wav")); err != nil {
		t.Fatal(err)
	}
	_, _ = f.conv.Convert(ctx, f.path("corrupt.mp3"))

	names := map[string]bool{}
	for _, s := range sr.Ended() {
		names[s.Name()] = true
	}
	for _, want := range []string{
		"converter.convert", "converter.inspect", "converter.dump",
		"converter.transcribe", "converter.encrypt", "converter.store",
		"transcription.scripted",
	} {
		if !names[want] {
			t.Errorf("missing span %q (got %v)", want, names)
		}
	}

	if !strings.Contains(logs.String(), `"trace_id":"`) {
		t.Errorf("conversion logs carry no trace_id: %s", logs.String())
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = true
		}
	}
	for _, want := range []string{"conversion.total", "stage.duration", "stage.errors"} {
		if !found[want] {
			t.Errorf("missing metric %q", want)
		}
	}
}
