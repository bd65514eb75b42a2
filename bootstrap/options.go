package bootstrap

import (
	"time"

	"github.com/kbukum/modular/logger"
	"github.com/kbukum/modular/modular"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	modular         *modular.Modular
	gracefulTimeout *time.Duration
	args            []any
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger. Without it the global logger is
// initialized from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration of shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithModular uses m instead of a new Modular.
func WithModular(m *modular.Modular) Option {
	return func(o *appOptions) {
		o.modular = m
	}
}

// WithStartArgs sets the arguments passed to every module's Init.
func WithStartArgs(args ...any) Option {
	return func(o *appOptions) {
		o.args = args
	}
}
