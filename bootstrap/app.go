package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/modular/logger"
	"github.com/kbukum/modular/modular"
	"github.com/kbukum/modular/observability"
)

// App runs the modules of one executable with a typed config C.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Modular *modular.Modular
	Logger  *logger.Logger

	gracefulTimeout time.Duration
	startArgs       []any

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and prepares the logger and
// the Modular.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		startArgs:       o.args,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.SetGlobalLogger(logger.New(&base.Logging, base.Name))
		logger.RegisterDefaults("config", "di", "events", "modular")
		app.Logger = logger.GetGlobalLogger()
	}

	app.Modular = o.modular
	if app.Modular == nil {
		app.Modular = modular.New(modular.WithLogger(app.Logger.WithComponent("modular")))
	}
	return app, nil
}

// Run starts telemetry and every module, blocks until a shutdown signal or
// ctx is done, then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		a.shutdownAfterFailedStartup()
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask runs task between startup and shutdown. The task context is
// canceled on SIGINT or SIGTERM. A task error takes precedence over a
// shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		a.shutdownAfterFailedStartup()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	begin := time.Now()
	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.initTelemetry(ctx); err != nil {
		return fmt.Errorf("telemetry setup failed: %w", err)
	}

	if err := a.Modular.StartAll(ctx, a.startArgs...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Logger.Info("Application started", logger.DurationFields("startup", time.Since(begin)))
	return nil
}

// initTelemetry installs the OTLP providers enabled in the config.
func (a *App[C]) initTelemetry(ctx context.Context) error {
	base := a.Cfg.GetServiceConfig()

	if base.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, base.Tracing)
		if err != nil {
			return err
		}
		a.tracerProvider = tp
		a.Logger.Info("Tracing enabled", logger.Fields("endpoint", base.Tracing.Endpoint))
	}
	if base.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, base.Metrics)
		if err != nil {
			return err
		}
		a.meterProvider = mp
		a.Logger.Info("Metrics enabled", logger.Fields("endpoint", base.Metrics.Endpoint))
	}
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the application when the caller manages its own lifecycle.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

// shutdownAfterFailedStartup stops whatever did start. Its error is only
// logged since the startup error is the one reported.
func (a *App[C]) shutdownAfterFailedStartup() {
	if err := a.stop(); err != nil {
		a.Logger.Warn("Cleanup after failed startup incomplete", logger.Fields(logger.FieldError, err.Error()))
	}
}

// stop runs the OnStop hooks, stops every module and flushes telemetry
// within the graceful timeout. The first error is returned.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields(
		"timeout", a.gracefulTimeout.String(),
	))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	record := func(msg string, err error) {
		if err == nil {
			return
		}
		a.Logger.Error(msg, logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	record("OnStop hook error", runHooks(ctx, a.onStop))
	record("Stopping modules failed", a.Modular.StopAll(ctx))

	if a.meterProvider != nil {
		record("Meter provider shutdown failed", a.meterProvider.Shutdown(ctx))
		a.meterProvider = nil
	}
	if a.tracerProvider != nil {
		record("Tracer provider shutdown failed", a.tracerProvider.Shutdown(ctx))
		a.tracerProvider = nil
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
