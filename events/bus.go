package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/modular/logger"
)

// Handler receives the payload of an emitted event.
type Handler func(payload ...any)

type subscription struct {
	id      string
	handler Handler
}

// Bus dispatches named events to subscribed handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	log      *logger.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger for subscription events.
func WithLogger(l *logger.Logger) Option {
	return func(b *Bus) { b.log = l }
}

// NewBus creates an event bus with no subscriptions.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[string][]subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.Get("events")
	}
	return b
}

// On subscribes handler to event and returns the subscription id.
func (b *Bus) On(event string, handler Handler) string {
	id := uuid.NewString()

	b.mu.Lock()
	b.handlers[event] = append(b.handlers[event], subscription{id: id, handler: handler})
	count := len(b.handlers[event])
	b.mu.Unlock()

	b.log.Debug("Event handler subscribed", logger.Fields(
		"event", event,
		"subscription", id,
		"total_handlers", count,
	))
	return id
}

// Off removes the subscription with the given id from event and reports
// whether it existed.
func (b *Bus) Off(event, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[event]
	for i, sub := range subs {
		if sub.id != id {
			continue
		}
		remaining := make([]subscription, 0, len(subs)-1)
		remaining = append(remaining, subs[:i]...)
		remaining = append(remaining, subs[i+1:]...)
		if len(remaining) == 0 {
			delete(b.handlers, event)
		} else {
			b.handlers[event] = remaining
		}
		b.log.Debug("Event handler unsubscribed", logger.Fields("event", event, "subscription", id))
		return true
	}
	return false
}

// Emit calls every handler subscribed to event with payload and returns how
// many were called. Handlers run after the subscription list is copied, so
// they may subscribe or unsubscribe without affecting the current dispatch.
func (b *Bus) Emit(event string, payload ...any) int {
	b.mu.RLock()
	subs := b.handlers[event]
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(payload...)
	}
	return len(subs)
}

// ListenerCount returns the number of handlers subscribed to event.
func (b *Bus) ListenerCount(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[event])
}
