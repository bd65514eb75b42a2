package di

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/modular/errors"
	"github.com/kbukum/modular/logger"
)

func newTestContainer() *Container {
	return NewContainer(WithLogger(logger.NewNop()))
}

func TestNewContainer(t *testing.T) {
	if NewContainer() == nil {
		t.Fatal("expected non-nil container")
	}
}

func TestRegisterAndGet(t *testing.T) {
	c := newTestContainer()
	c.Register("someDependency", "someValue")

	for i := 0; i < 2; i++ {
		val, err := c.Get("someDependency")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if val != "someValue" {
			t.Errorf("expected 'someValue', got %v", val)
		}
	}
}

func TestRegisterReturnsIdenticalPointer(t *testing.T) {
	c := newTestContainer()
	type bus struct{ n int }
	b := &bus{}
	c.Register("$event", b)

	first, _ := c.Get("$event")
	second, _ := c.Get("$event")
	if first != b || second != b {
		t.Error("expected the registered pointer back on every Get")
	}
}

func TestRegisterOverwrites(t *testing.T) {
	c := newTestContainer()
	c.Register("v", 1)
	c.Register("v", 2)

	val, err := c.Get("v")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != 2 {
		t.Errorf("expected overwritten value 2, got %v", val)
	}
}

func TestRegisterNilValue(t *testing.T) {
	c := newTestContainer()
	c.Register("nothing", nil)

	val, err := c.Get("nothing")
	if err != nil {
		t.Fatalf("expected nil value to resolve, got %v", err)
	}
	if val != nil {
		t.Errorf("expected nil, got %v", val)
	}
}

func TestGetNotRegistered(t *testing.T) {
	c := newTestContainer()
	_, err := c.Get("nonexistent")
	if err == nil {
		t.Fatal("expected error for unregistered name")
	}
	if !errors.HasCode(err, errors.ErrCodeUnknownDependency) {
		t.Errorf("expected UNKNOWN_DEPENDENCY, got %v", err)
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("expected name in error, got %q", err.Error())
	}
}

func TestFactoryLazySingleton(t *testing.T) {
	c := newTestContainer()
	callCount := 0

	err := c.Factory("someFactory", func() map[string]string {
		callCount++
		return map[string]string{"someValue": "someValue"}
	})
	if err != nil {
		t.Fatalf("Factory failed: %v", err)
	}
	if callCount != 0 {
		t.Error("expected constructor not to be called until Get")
	}

	first, err := c.Get("someFactory")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if first.(map[string]string)["someValue"] != "someValue" {
		t.Errorf("unexpected instance %v", first)
	}

	second, err := c.Get("someFactory")
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected constructor called once, got %d", callCount)
	}
	first.(map[string]string)["marker"] = "x"
	if second.(map[string]string)["marker"] != "x" {
		t.Error("expected the same cached instance")
	}
}

func TestFactoryInjectsDependenciesInOrder(t *testing.T) {
	c := newTestContainer()
	c.Register("$first", "a")
	c.Register("$second", 2)
	if err := c.Factory("$third", func() float64 { return 3.5 }); err != nil {
		t.Fatalf("Factory failed: %v", err)
	}

	var got []any
	err := c.Factory("consumer", func(third float64, first string, second int) string {
		got = []any{third, first, second}
		return fmt.Sprintf("%s-%d-%.1f", first, second, third)
	}, "$third", "$first", "$second")
	if err != nil {
		t.Fatalf("Factory failed: %v", err)
	}

	val, err := c.Get("consumer")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "a-2-3.5" {
		t.Errorf("expected 'a-2-3.5', got %v", val)
	}
	if len(got) != 3 || got[0] != 3.5 || got[1] != "a" || got[2] != 2 {
		t.Errorf("expected args in declared order, got %v", got)
	}
}

func TestFactoryInjectsNestedFactories(t *testing.T) {
	c := newTestContainer()
	calls := map[string]int{}
	c.Factory("$leaf", func() int { calls["leaf"]++; return 1 })
	c.Factory("$mid", func(leaf int) int { calls["mid"]++; return leaf + 1 }, "$leaf")
	c.Factory("top", func(mid, leaf int) int { calls["top"]++; return mid*10 + leaf }, "$mid", "$leaf")

	val, err := c.Get("top")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != 21 {
		t.Errorf("expected 21, got %v", val)
	}
	for name, n := range calls {
		if n != 1 {
			t.Errorf("expected %s constructed once, got %d", name, n)
		}
	}
}

func TestMemoizedInstanceIgnoresLaterRegistrations(t *testing.T) {
	c := newTestContainer()
	c.Register("$B", 5)
	c.Factory("A", func(b int) int { return b * 2 }, "$B")

	val, err := c.Get("A")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != 10 {
		t.Fatalf("expected 10, got %v", val)
	}

	c.Register("$B", 50)
	val, _ = c.Get("A")
	if val != 10 {
		t.Errorf("expected memoized A to stay 10, got %v", val)
	}
}

func TestFactoryReRegistrationClearsMemo(t *testing.T) {
	c := newTestContainer()
	c.Factory("svc", func() string { return "old" })
	if v, _ := c.Get("svc"); v != "old" {
		t.Fatalf("expected 'old', got %v", v)
	}

	c.Factory("svc", func() string { return "new" })
	if v, _ := c.Get("svc"); v != "new" {
		t.Errorf("expected 'new' after re-registration, got %v", v)
	}
}

func TestFactoryReplacesValue(t *testing.T) {
	c := newTestContainer()
	c.Register("x", "value")
	c.Factory("x", func() string { return "built" })
	if v, _ := c.Get("x"); v != "built" {
		t.Errorf("expected factory to replace value, got %v", v)
	}

	c.Register("x", "value-again")
	if v, _ := c.Get("x"); v != "value-again" {
		t.Errorf("expected value to replace factory, got %v", v)
	}
}

func TestFactoryUnknownDependency(t *testing.T) {
	c := newTestContainer()
	called := false
	c.Factory("$mid", func(missing string) string { return missing }, "$missing")
	c.Factory("top", func(mid string) string { called = true; return mid }, "$mid")

	_, err := c.Get("top")
	if !errors.HasCode(err, errors.ErrCodeUnknownDependency) {
		t.Fatalf("expected UNKNOWN_DEPENDENCY, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["name"] != "$missing" {
		t.Errorf("expected missing name $missing, got %v", appErr.Details["name"])
	}
	if appErr.Details["required_by"] != "$mid" {
		t.Errorf("expected required_by=$mid, got %v", appErr.Details["required_by"])
	}
	if called {
		t.Error("expected constructor not to run when a dependency is missing")
	}
}

func TestFactoryError(t *testing.T) {
	c := newTestContainer()
	attempts := 0
	c.Factory("flaky", func() (string, error) {
		attempts++
		if attempts == 1 {
			return "", fmt.Errorf("connection refused")
		}
		return "ok", nil
	})

	_, err := c.Get("flaky")
	if !errors.HasCode(err, errors.ErrCodeFactoryFailed) {
		t.Fatalf("expected FACTORY_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected cause in error, got %q", err.Error())
	}

	val, err := c.Get("flaky")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if val != "ok" || attempts != 2 {
		t.Errorf("expected 'ok' after 2 attempts, got %v after %d", val, attempts)
	}
}

func TestFactoryInvalidConstructor(t *testing.T) {
	tests := []struct {
		name        string
		constructor any
		deps        []string
	}{
		{"not a function", "value", nil},
		{"nil", nil, nil},
		{"nil func", (func() int)(nil), nil},
		{"too few deps", func(a, b int) int { return a + b }, []string{"a"}},
		{"too many deps", func() int { return 0 }, []string{"a"}},
		{"variadic", func(xs ...int) int { return len(xs) }, []string{"a"}},
		{"no results", func() {}, nil},
		{"three results", func() (int, int, error) { return 0, 0, nil }, nil},
		{"second result not error", func() (int, string) { return 0, "" }, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContainer()
			c.Register("x", 1)
			err := c.Factory("x", tc.constructor, tc.deps...)
			if !errors.HasCode(err, errors.ErrCodeInvalidFactory) {
				t.Fatalf("expected INVALID_FACTORY, got %v", err)
			}
			if v, _ := c.Get("x"); v != 1 {
				t.Errorf("expected previous binding kept, got %v", v)
			}
		})
	}
}

type greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

func TestFactoryInterfaceParameter(t *testing.T) {
	c := newTestContainer()
	c.Register("$greeter", english{})
	c.Factory("msg", func(g greeter) string { return g.Greet() }, "$greeter")

	val, err := c.Get("msg")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "hello" {
		t.Errorf("expected 'hello', got %v", val)
	}
}

func TestFactoryNilDependency(t *testing.T) {
	c := newTestContainer()
	c.Register("$opt", nil)
	c.Factory("ptr", func(p *english) bool { return p == nil }, "$opt")
	c.Factory("num", func(n int) int { return n }, "$opt")

	val, err := c.Get("ptr")
	if err != nil {
		t.Fatalf("expected nil to inject into pointer parameter, got %v", err)
	}
	if val != true {
		t.Error("expected nil pointer argument")
	}

	_, err = c.Get("num")
	if !errors.HasCode(err, errors.ErrCodeDependencyMismatch) {
		t.Errorf("expected DEPENDENCY_TYPE_MISMATCH for nil int, got %v", err)
	}
}

func TestFactoryTypeMismatch(t *testing.T) {
	c := newTestContainer()
	c.Register("$port", "8080")
	c.Factory("server", func(port int) int { return port }, "$port")

	_, err := c.Get("server")
	if !errors.HasCode(err, errors.ErrCodeDependencyMismatch) {
		t.Fatalf("expected DEPENDENCY_TYPE_MISMATCH, got %v", err)
	}
	if !strings.Contains(err.Error(), "int") || !strings.Contains(err.Error(), "string") {
		t.Errorf("expected both types in message, got %q", err.Error())
	}
}

func TestConcurrentGetConstructsOnce(t *testing.T) {
	c := newTestContainer()
	var mu sync.Mutex
	calls := 0
	c.Factory("shared", func() *english {
		mu.Lock()
		calls++
		mu.Unlock()
		return &english{}
	})

	var wg sync.WaitGroup
	results := make([]any, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Get("shared")
		}(i)
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("expected one construction, got %d", calls)
	}
	for _, r := range results {
		if r != results[0] {
			t.Fatal("expected every goroutine to see the same instance")
		}
	}
}

func TestResolveTyped(t *testing.T) {
	c := newTestContainer()
	c.Register("val", 42)

	v, err := Resolve[int](c, "val")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v != 42 {
		t.Errorf("expected 42, got %d", v)
	}

	_, err = Resolve[string](c, "val")
	if err == nil || !strings.Contains(err.Error(), "expected string") {
		t.Errorf("expected type error, got %v", err)
	}

	_, err = Resolve[int](c, "missing")
	if !errors.HasCode(err, errors.ErrCodeUnknownDependency) {
		t.Errorf("expected wrapped UNKNOWN_DEPENDENCY, got %v", err)
	}
}

func TestMustResolve(t *testing.T) {
	c := newTestContainer()
	c.Register("val", "x")
	if MustResolve[string](c, "val") != "x" {
		t.Error("expected 'x'")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unregistered name")
		}
	}()
	MustResolve[string](c, "missing")
}

func TestTryResolve(t *testing.T) {
	c := newTestContainer()
	c.Register("val", 7)

	if v, ok := TryResolve[int](c, "val"); !ok || v != 7 {
		t.Errorf("expected (7, true), got (%d, %v)", v, ok)
	}
	if _, ok := TryResolve[string](c, "val"); ok {
		t.Error("expected false for wrong type")
	}
	if _, ok := TryResolve[int](c, "missing"); ok {
		t.Error("expected false for missing name")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindValue, "value"},
		{KindFactory, "factory"},
		{Kind(9), "Kind(9)"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}
