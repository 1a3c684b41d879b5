package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Outcome attribute values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// PipelineMetrics holds the instruments recorded around each conversion
// stage.
type PipelineMetrics struct {
	conversionTotal metric.Int64Counter
	stageDuration   metric.Float64Histogram
	stageErrors     metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	conversionTotal, err := meter.Int64Counter("conversion.total",
		metric.WithDescription("Conversions attempted, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating conversion.total counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("stage.duration",
		metric.WithDescription("Duration of pipeline stages in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.duration histogram: %w", err)
	}

	stageErrors, err := meter.Int64Counter("stage.errors",
		metric.WithDescription("Pipeline stage failures by stage, kind and code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.errors counter: %w", err)
	}

	return &PipelineMetrics{
		conversionTotal: conversionTotal,
		stageDuration:   stageDuration,
		stageErrors:     stageErrors,
	}, nil
}

// RecordStage records how long a stage took and, on failure, counts the
// error under its kind and code.
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("outcome", outcome),
	))
	if err == nil {
		return
	}

	kind, code := string(apperrors.KindInternal), string(apperrors.ErrCodeInternal)
	if appErr, ok := apperrors.AsAppError(err); ok {
		kind, code = string(appErr.Kind), string(appErr.Code)
	}
	m.stageErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("kind", kind),
		attribute.String("code", code),
	))
}

// RecordConversion counts one finished Convert call.
func (m *PipelineMetrics) RecordConversion(ctx context.Context, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.conversionTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
