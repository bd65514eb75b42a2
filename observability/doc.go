// Package observability wires OpenTelemetry tracing and metrics.
//
// InitTracer and InitMeter install OTLP/HTTP exporters as the global
// providers; until they are called the global providers are no-ops, so the
// spans and counters recorded by the lifecycle manager cost nothing.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("garage"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("garage"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewLifecycleMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordStart(ctx, "honda", time.Since(begin))
package observability
