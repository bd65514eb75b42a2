package modular

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/modular/di"
	"github.com/kbukum/modular/logger"
	"github.com/kbukum/modular/observability"
)

// moduleEntry holds a module and its started instance.
type moduleEntry struct {
	name     string
	instance any
	started  bool
}

// Modular is a dependency container whose modules follow a start/stop
// lifecycle. It embeds *di.Container, so Register, Factory and Get are
// available directly.
//
// Lifecycle operations are serialized by one mutex held across resolution
// and hooks. Init and Destroy must therefore not call Start, Stop or Module
// on the same Modular.
type Modular struct {
	*di.Container

	mu      sync.Mutex
	entries []*moduleEntry
	lookup  map[string]*moduleEntry

	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.LifecycleMetrics
}

type options struct {
	container *di.Container
	log       *logger.Logger
	tracer    trace.Tracer
	metrics   *observability.LifecycleMetrics
}

// Option configures a Modular.
type Option func(*options)

// WithContainer layers the lifecycle over an existing container instead of
// a new one.
func WithContainer(c *di.Container) Option {
	return func(o *options) { o.container = c }
}

// WithLogger sets the logger for lifecycle events. It is also handed to the
// container created by New.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracer sets the tracer used for start/stop spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithMetrics sets the lifecycle instruments.
func WithMetrics(m *observability.LifecycleMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a Modular. Without options it logs through the "modular"
// logger and reports to the global OpenTelemetry providers.
func New(opts ...Option) *Modular {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.log == nil {
		o.log = logger.Get("modular")
	}
	if o.container == nil {
		o.container = di.NewContainer(di.WithLogger(o.log))
	}
	if o.tracer == nil {
		o.tracer = observability.Tracer(observability.InstrumentationName)
	}
	if o.metrics == nil {
		metrics, err := observability.NewLifecycleMetrics(observability.Meter(observability.InstrumentationName))
		if err != nil {
			o.log.Warn("Lifecycle metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		}
		o.metrics = metrics
	}

	return &Modular{
		Container: o.container,
		lookup:    make(map[string]*moduleEntry),
		log:       o.log,
		tracer:    o.tracer,
		metrics:   o.metrics,
	}
}

// Module registers constructor under name as a factory (see
// di.Container.Factory) and tracks name as an unstarted module.
//
// Registering a name that is already a module keeps its position in the
// start order and resets it to Unstarted. If it was started, the previous
// instance is destroyed first; a Destroy error is returned after the reset
// has been applied.
func (m *Modular) Module(name string, constructor any, deps ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.Container.Factory(name, constructor, deps...); err != nil {
		return err
	}

	entry, exists := m.lookup[name]
	if !exists {
		entry = &moduleEntry{name: name}
		m.entries = append(m.entries, entry)
		m.lookup[name] = entry
		m.log.Debug("Module registered", logger.Fields(logger.FieldModule, name, "deps", deps))
		return nil
	}

	var destroyErr error
	if entry.started {
		if d, ok := entry.instance.(Destroyer); ok {
			destroyErr = d.Destroy(context.Background())
			if destroyErr != nil {
				m.metrics.RecordHookFailure(context.Background(), name, hookDestroy)
				m.log.Error("Destroy of replaced module failed", logger.Fields(
					logger.FieldModule, name,
					logger.FieldError, destroyErr.Error(),
				))
			}
		}
	}
	entry.instance = nil
	entry.started = false

	m.log.Debug("Module re-registered", logger.Fields(logger.FieldModule, name, "deps", deps))
	return destroyErr
}

// State reports the lifecycle state of name and whether it is a module.
func (m *Modular) State(name string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.lookup[name]
	if !exists {
		return Unstarted, false
	}
	if entry.started {
		return Started, true
	}
	return Unstarted, true
}
