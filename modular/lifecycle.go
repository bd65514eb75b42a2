package modular

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/modular/logger"
	"github.com/kbukum/modular/observability"
)

// Start resolves the module's instance and calls its Init hook with args.
//
// Unknown and already started modules are ignored. The module is recorded
// as started before Init runs, so an Init error leaves it Started and a
// later Stop still reaches Destroy. Resolution and hook errors are returned
// unchanged.
func (m *Modular) Start(ctx context.Context, name string, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.start(ctx, name, args)
}

// StartAll starts every module in registration order with the same args,
// skipping started ones. The first error stops the sweep.
func (m *Modular) StartAll(ctx context.Context, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Debug("Starting all modules", logger.Fields("count", len(m.entries)))
	for _, entry := range m.entries {
		if err := m.start(ctx, entry.name, args); err != nil {
			return err
		}
	}
	return nil
}

// Stop calls the module's Destroy hook and marks it unstarted.
//
// Unknown and unstarted modules are ignored. A Destroy error is returned
// unchanged and leaves the module Started.
func (m *Modular) Stop(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stop(ctx, name)
}

// StopAll stops every started module in registration order. The first error
// stops the sweep.
func (m *Modular) StopAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Debug("Stopping all modules", logger.Fields("count", len(m.entries)))
	for _, entry := range m.entries {
		if err := m.stop(ctx, entry.name); err != nil {
			return err
		}
	}
	return nil
}

// start must be called with m.mu held.
func (m *Modular) start(ctx context.Context, name string, args []any) error {
	entry, exists := m.lookup[name]
	if !exists {
		m.log.Debug("Ignoring start of unknown module", logger.Fields(logger.FieldModule, name))
		return nil
	}
	if entry.started {
		return nil
	}

	begin := time.Now()
	ctx, span := m.tracer.Start(ctx, observability.SpanModuleStart, trace.WithAttributes(
		attribute.String(observability.AttrModule, name),
		attribute.Int(observability.AttrArgCount, len(args)),
	))
	defer span.End()

	instance, err := m.Container.Get(name)
	if err != nil {
		span.SetAttributes(attribute.String(observability.AttrOutcome, observability.OutcomeFailed))
		observability.SetSpanError(span, err)
		m.log.Error("Module resolution failed", logger.Fields(
			logger.FieldModule, name,
			logger.FieldError, err.Error(),
		))
		return err
	}

	entry.instance = instance
	entry.started = true

	if initializer, ok := instance.(Initializer); ok {
		if err := initializer.Init(ctx, args...); err != nil {
			span.SetAttributes(
				attribute.String(observability.AttrHook, hookInit),
				attribute.String(observability.AttrOutcome, observability.OutcomeFailed),
			)
			observability.SetSpanError(span, err)
			m.metrics.RecordHookFailure(ctx, name, hookInit)
			m.log.Error("Module init failed", logger.MergeWithError(
				logger.Fields(logger.FieldModule, name, logger.FieldOperation, hookInit),
				err,
			))
			return err
		}
	}

	span.SetAttributes(attribute.String(observability.AttrOutcome, observability.OutcomeStarted))
	m.metrics.RecordStart(ctx, name, time.Since(begin))
	m.log.Debug("Module started", logger.MergeWithDuration(
		logger.Fields(logger.FieldModule, name, logger.FieldState, Started.String()),
		time.Since(begin),
	))
	return nil
}

// stop must be called with m.mu held.
func (m *Modular) stop(ctx context.Context, name string) error {
	entry, exists := m.lookup[name]
	if !exists || !entry.started {
		return nil
	}

	ctx, span := m.tracer.Start(ctx, observability.SpanModuleStop, trace.WithAttributes(
		attribute.String(observability.AttrModule, name),
	))
	defer span.End()

	if destroyer, ok := entry.instance.(Destroyer); ok {
		if err := destroyer.Destroy(ctx); err != nil {
			span.SetAttributes(
				attribute.String(observability.AttrHook, hookDestroy),
				attribute.String(observability.AttrOutcome, observability.OutcomeFailed),
			)
			observability.SetSpanError(span, err)
			m.metrics.RecordHookFailure(ctx, name, hookDestroy)
			m.log.Error("Module destroy failed", logger.MergeWithError(
				logger.Fields(logger.FieldModule, name, logger.FieldOperation, hookDestroy),
				err,
			))
			return err
		}
	}

	entry.instance = nil
	entry.started = false

	span.SetAttributes(attribute.String(observability.AttrOutcome, observability.OutcomeStopped))
	m.metrics.RecordStop(ctx, name)
	m.log.Debug("Module stopped", logger.Fields(logger.FieldModule, name, logger.FieldState, Unstarted.String()))
	return nil
}
