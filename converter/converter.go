package converter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/audiovault/audio"
	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/observability"
	"github.com/kbukum/audiovault/store"
)

// Pipeline stage names, used for spans, log fields and AppError.Stage.
const (
	StageInspect    = "inspect"
	StageDump       = "dump"
	StageTranscribe = "transcribe"
	StageEncrypt    = "encrypt"
	StageStore      = "store"
	StageLoad       = "load"
	StageReveal     = "reveal"
)

// Converter is the orchestrator behind the CLI and HTTP adapters.
type Converter struct {
	deps Deps
	log  *logger.Logger
}

// New creates a Converter. Inspector and Store are required.
func New(deps Deps) (*Converter, error) {
	if deps.Inspector == nil {
		return nil, apperrors.Internal(errors.New("converter: inspector is required"))
	}
	if deps.Store == nil {
		return nil, apperrors.Internal(errors.New("converter: store is required"))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	log := deps.Logger
	if log == nil {
		log = logger.Get("converter")
	}
	return &Converter{deps: deps, log: log}, nil
}

// Convert runs the full pipeline for path and returns the appended record.
func (c *Converter) Convert(ctx context.Context, path string) (rec *store.Record, err error) {
	id := c.deps.NewID()
	ctx, span := observability.StartSpan(ctx, "converter.convert")
	observability.SetSpanAttribute(ctx, observability.AttrRecordID, id)
	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = logger.ContextWithTraceID(ctx, sc.TraceID().String())
	}
	start := time.Now()
	defer func() {
		observability.EndSpan(span, err)
		c.deps.Metrics.RecordConversion(ctx, err)

		fields := logger.MergeWithDuration(logger.Fields(logger.FieldRecordID, id), time.Since(start))
		if err != nil {
			fields[logger.FieldOutcome] = logger.OutcomeFailure
			c.log.WithContext(ctx).Warn("conversion failed", logger.MergeWithError(fields, err))
			return
		}
		fields[logger.FieldOutcome] = logger.OutcomeSuccess
		c.log.WithContext(ctx).Info("conversion complete", fields)
	}()

	if c.deps.Transcriber == nil {
		return nil, apperrors.Internal(errors.New("no transcriber configured")).WithStage(StageTranscribe)
	}
	if c.deps.Encryptor == nil {
		return nil, apperrors.MissingKey().WithStage(StageEncrypt)
	}

	asset, err := runStage(ctx, c, StageInspect, id, func(ctx context.Context) (*audio.Asset, error) {
		return c.deps.Inspector.Inspect(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrFormat, string(asset.Format))

	raw, err := runStage(ctx, c, StageDump, id, func(context.Context) (audio.RawDump, error) {
		return c.deps.Inspector.Dump(path)
	})
	if err != nil {
		return nil, err
	}

	text, err := runStage(ctx, c, StageTranscribe, id, func(ctx context.Context) (string, error) {
		result, err := c.deps.Transcriber.Transcribe(ctx, asset, path)
		if err != nil {
			return "", err
		}
		if result.NoSpeech {
			c.log.WithContext(ctx).Info("no speech detected", logger.Fields(logger.FieldRecordID, id))
		}
		return result.Text, nil
	})
	if err != nil {
		return nil, err
	}

	ciphertext, err := runStage(ctx, c, StageEncrypt, id, func(context.Context) (string, error) {
		return c.deps.Encryptor.Encrypt(text)
	})
	if err != nil {
		return nil, err
	}

	record := store.NewRecord(id, asset, raw, ciphertext, c.deps.Now())
	if _, err := runStage(ctx, c, StageStore, id, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.deps.Store.Append(ctx, record)
	}); err != nil {
		return nil, err
	}
	return &record, nil
}

// Reveal decrypts a record's transcript. Nothing is written back.
func (c *Converter) Reveal(ctx context.Context, rec *store.Record) (string, error) {
	if rec == nil {
		return "", apperrors.InvalidInput("record", "record is required").WithStage(StageReveal)
	}
	if c.deps.Encryptor == nil {
		return "", apperrors.MissingKey().WithStage(StageReveal)
	}
	return runStage(ctx, c, StageReveal, rec.ID, func(context.Context) (string, error) {
		return c.deps.Encryptor.Decrypt(rec.TranscriptCiphertextBase64)
	})
}

// RevealByID loads the record with id and decrypts its transcript.
func (c *Converter) RevealByID(ctx context.Context, id string) (string, error) {
	rec, err := c.GetRecord(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Reveal(ctx, rec)
}

// GetRecord returns the full record with id.
func (c *Converter) GetRecord(ctx context.Context, id string) (*store.Record, error) {
	return runStage(ctx, c, StageLoad, id, func(ctx context.Context) (*store.Record, error) {
		return c.deps.Store.Get(ctx, id)
	})
}

// ListRecords returns record summaries in insertion order.
func (c *Converter) ListRecords(ctx context.Context) ([]store.Summary, error) {
	return runStage(ctx, c, StageLoad, "", func(ctx context.Context) ([]store.Summary, error) {
		return c.deps.Store.List(ctx)
	})
}

// Inspect previews the metadata of path without converting it.
func (c *Converter) Inspect(ctx context.Context, path string) (*audio.Asset, error) {
	return runStage(ctx, c, StageInspect, "", func(ctx context.Context) (*audio.Asset, error) {
		return c.deps.Inspector.Inspect(ctx, path)
	})
}

// runStage wraps fn in a span named converter.<stage>, logs and measures it,
// and tags any error with the stage.
func runStage[T any](ctx context.Context, c *Converter, stage, recordID string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := observability.StartSpan(ctx, "converter."+stage)
	observability.SetSpanAttribute(ctx, observability.AttrStage, stage)

	start := time.Now()
	out, err := fn(ctx)
	d := time.Since(start)

	if err != nil {
		err = apperrors.WithStage(err, stage)
	}
	observability.EndSpan(span, err)
	c.deps.Metrics.RecordStage(ctx, stage, d, err)

	fields := logger.StageFields(stage, d, err)
	if recordID != "" {
		fields[logger.FieldRecordID] = recordID
	}
	log := c.log.WithContext(ctx)
	if err != nil {
		log.Warn("stage failed", fields)
		var zero T
		return zero, err
	}
	log.Debug("stage complete", fields)
	return out, nil
}
