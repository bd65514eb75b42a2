package events

import (
	"sync"
	"testing"

	"github.com/kbukum/modular/logger"
)

func newTestBus() *Bus {
	return NewBus(WithLogger(logger.NewNop()))
}

func TestEmitCallsHandlersInOrder(t *testing.T) {
	b := newTestBus()
	var order []string
	b.On("create", func(payload ...any) { order = append(order, "first:"+payload[0].(string)) })
	b.On("create", func(payload ...any) { order = append(order, "second:"+payload[0].(string)) })

	called := b.Emit("create", "Honda")
	if called != 2 {
		t.Errorf("expected 2 handlers called, got %d", called)
	}
	if len(order) != 2 || order[0] != "first:Honda" || order[1] != "second:Honda" {
		t.Errorf("expected subscription order, got %v", order)
	}
}

func TestEmitWithoutHandlers(t *testing.T) {
	b := newTestBus()
	if called := b.Emit("honk"); called != 0 {
		t.Errorf("expected 0 handlers called, got %d", called)
	}
}

func TestEmitForwardsPayload(t *testing.T) {
	b := newTestBus()
	var got []any
	b.On("e", func(payload ...any) { got = payload })

	b.Emit("e", 1, "two", nil)
	if len(got) != 3 || got[0] != 1 || got[1] != "two" || got[2] != nil {
		t.Errorf("expected payload [1 two <nil>], got %v", got)
	}
}

func TestOff(t *testing.T) {
	b := newTestBus()
	count := 0
	id := b.On("honk", func(...any) { count++ })
	other := b.On("honk", func(...any) {})

	if !b.Off("honk", id) {
		t.Fatal("expected Off to find the subscription")
	}
	if b.Off("honk", id) {
		t.Error("expected second Off to report false")
	}
	if b.Off("other-event", other) {
		t.Error("expected Off on another event to report false")
	}

	b.Emit("honk")
	if count != 0 {
		t.Errorf("expected removed handler not to run, got %d calls", count)
	}
	if b.ListenerCount("honk") != 1 {
		t.Errorf("expected 1 listener left, got %d", b.ListenerCount("honk"))
	}

	b.Off("honk", other)
	if b.ListenerCount("honk") != 0 {
		t.Errorf("expected no listeners, got %d", b.ListenerCount("honk"))
	}
}

func TestOnReturnsUniqueIDs(t *testing.T) {
	b := newTestBus()
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id := b.On("e", func(...any) {})
		if seen[id] {
			t.Fatalf("duplicate subscription id %s", id)
		}
		seen[id] = true
	}
}

func TestHandlerMayUnsubscribeDuringEmit(t *testing.T) {
	b := newTestBus()
	calls := 0
	var id string
	id = b.On("once", func(...any) {
		calls++
		b.Off("once", id)
	})
	b.On("once", func(...any) { calls++ })

	if n := b.Emit("once"); n != 2 {
		t.Errorf("expected both handlers in first dispatch, got %d", n)
	}
	if n := b.Emit("once"); n != 1 {
		t.Errorf("expected one handler after unsubscribe, got %d", n)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestConcurrentSubscribeAndEmit(t *testing.T) {
	b := newTestBus()
	var mu sync.Mutex
	total := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := b.On("tick", func(...any) {
				mu.Lock()
				total++
				mu.Unlock()
			})
			b.Emit("tick")
			b.Off("tick", id)
		}()
	}
	wg.Wait()

	if b.ListenerCount("tick") != 0 {
		t.Errorf("expected all handlers removed, got %d", b.ListenerCount("tick"))
	}
	if total < 8 {
		t.Errorf("expected every goroutine to reach at least its own handler, got %d", total)
	}
}
