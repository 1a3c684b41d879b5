// Package observability wires OpenTelemetry tracing and metrics for the
// conversion pipeline.
//
// When disabled (the default) nothing is exported and the global no-op
// providers absorb every span and measurement, so instrumented code never
// needs to check whether telemetry is on.
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "converter.transcribe")
//	defer span.End()
//
//	metrics, err := observability.NewPipelineMetrics(observability.Meter("converter"))
//	metrics.RecordStage(ctx, "encrypt", elapsed, err)
package observability
