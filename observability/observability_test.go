package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("garage")

	if cfg.ServiceName != "garage" {
		t.Errorf("expected ServiceName 'garage', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
	if cfg.Enabled {
		t.Error("expected exporter disabled by default")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("garage")

	if cfg.ServiceName != "garage" {
		t.Errorf("expected ServiceName 'garage', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("garage", "1.2.3", "staging")
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found[AttrServiceName] != "garage" {
		t.Errorf("expected service.name=garage, got %q", found[AttrServiceName])
	}
	if found["deployment.environment"] != "staging" {
		t.Errorf("expected deployment.environment=staging, got %q", found["deployment.environment"])
	}
}

func TestLifecycleMetricsNoop(t *testing.T) {
	metrics, err := NewLifecycleMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordStart(ctx, "honda", 5*time.Millisecond)
	metrics.RecordStop(ctx, "honda")
	metrics.RecordHookFailure(ctx, "honda", "init")
}

func TestLifecycleMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewLifecycleMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordStart(ctx, "honda", time.Millisecond)
	metrics.RecordStart(ctx, "civic", time.Millisecond)
	metrics.RecordStop(ctx, "honda")
	metrics.RecordHookFailure(ctx, "civic", "destroy")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	tests := []struct {
		name string
		want int64
	}{
		{"modular.module.starts", 2},
		{"modular.module.stops", 1},
		{"modular.hook.failures", 1},
	}
	for _, tc := range tests {
		if sums[tc.name] != tc.want {
			t.Errorf("expected %s=%d, got %d", tc.name, tc.want, sums[tc.name])
		}
	}
}

func TestTracer(t *testing.T) {
	if Tracer("test-tracer") == nil {
		t.Fatal("expected non-nil tracer")
	}
}

func TestMeter(t *testing.T) {
	if Meter("test-meter") == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), SpanModuleStart)
	defer span.End()

	if span == nil {
		t.Fatal("expected non-nil span")
	}
	if SpanFromContext(ctx) == nil {
		t.Error("expected span stored in context")
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), SpanModuleStop)
	SetSpanError(span, fmt.Errorf("destroy failed"))
	SetSpanError(span, nil)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[0].Status().Code)
	}
	if ended[0].Status().Description != "destroy failed" {
		t.Errorf("expected description 'destroy failed', got %q", ended[0].Status().Description)
	}
	if len(ended[0].Events()) != 1 {
		t.Errorf("expected one recorded error event, got %d", len(ended[0].Events()))
	}
}

func TestSetSpanErrorNonRecording(t *testing.T) {
	// Global provider is a no-op until InitTracer runs; must not panic.
	_, span := StartSpan(context.Background(), "noop")
	SetSpanError(span, fmt.Errorf("ignored"))
	span.End()
}

func TestLifecycleMetricsNil(t *testing.T) {
	var metrics *LifecycleMetrics
	ctx := context.Background()
	metrics.RecordStart(ctx, "honda", time.Millisecond)
	metrics.RecordStop(ctx, "honda")
	metrics.RecordHookFailure(ctx, "honda", "init")
}
