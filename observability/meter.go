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

	"github.com/kbukum/modular/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// Enabled turns on the OTLP exporter.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (development, staging, production).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
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

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// LifecycleMetrics holds the instruments recorded by module transitions.
// A nil *LifecycleMetrics records nothing.
type LifecycleMetrics struct {
	starts        metric.Int64Counter
	stops         metric.Int64Counter
	hookFailures  metric.Int64Counter
	startDuration metric.Float64Histogram
}

// NewLifecycleMetrics creates lifecycle instruments on the given meter.
func NewLifecycleMetrics(meter metric.Meter) (*LifecycleMetrics, error) {
	starts, err := meter.Int64Counter("modular.module.starts",
		metric.WithDescription("Module transitions to started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating modular.module.starts counter: %w", err)
	}

	stops, err := meter.Int64Counter("modular.module.stops",
		metric.WithDescription("Module transitions to stopped"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating modular.module.stops counter: %w", err)
	}

	hookFailures, err := meter.Int64Counter("modular.hook.failures",
		metric.WithDescription("Init and destroy hooks that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating modular.hook.failures counter: %w", err)
	}

	startDuration, err := meter.Float64Histogram("modular.module.start.duration",
		metric.WithDescription("Time spent resolving and initializing a module"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating modular.module.start.duration histogram: %w", err)
	}

	return &LifecycleMetrics{
		starts:        starts,
		stops:         stops,
		hookFailures:  hookFailures,
		startDuration: startDuration,
	}, nil
}

// RecordStart records a module that reached the started state.
func (m *LifecycleMetrics) RecordStart(ctx context.Context, module string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrModule, module))
	m.starts.Add(ctx, 1, attrs)
	m.startDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordStop records a module that returned to the unstarted state.
func (m *LifecycleMetrics) RecordStop(ctx context.Context, module string) {
	if m == nil {
		return
	}
	m.stops.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrModule, module)))
}

// RecordHookFailure records an init or destroy hook that failed.
func (m *LifecycleMetrics) RecordHookFailure(ctx context.Context, module, hook string) {
	if m == nil {
		return
	}
	m.hookFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrModule, module),
		attribute.String(AttrHook, hook),
	))
}
