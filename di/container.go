package di

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/kbukum/modular/errors"
	"github.com/kbukum/modular/logger"
)

// Kind tells how a binding produces its instance.
type Kind int

const (
	KindValue   Kind = iota // Supplied as-is on registration
	KindFactory             // Built by a constructor on first resolve
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindFactory:
		return "factory"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// binding is a name-keyed registry entry.
type binding struct {
	name        string
	kind        Kind
	constructor reflect.Value
	deps        []string
	instance    any
	resolved    bool
}

// Container stores named bindings and resolves them to instances.
// Factory bindings are singletons: a constructor runs at most once
// successfully and its result is memoized.
//
// All operations are serialized by a single mutex held for the whole call,
// constructors included, so a constructor must not call back into the
// container; its dependencies are injected instead.
type Container struct {
	mu       sync.Mutex
	bindings map[string]*binding
	log      *logger.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for registration and resolution events.
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) { c.log = l }
}

// NewContainer creates an empty container.
func NewContainer(opts ...Option) *Container {
	c := &Container{
		bindings: make(map[string]*binding),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("di")
	}
	return c
}

// Register binds name to a concrete value, replacing any previous binding.
func (c *Container) Register(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bindings[name] = &binding{
		name:     name,
		kind:     KindValue,
		instance: value,
	}
	c.log.Debug("Value registered", logger.Fields(logger.FieldDependency, name))
}

// Factory binds name to a constructor whose parameters are filled, in order,
// with the instances resolved for deps. Any memoized instance of a previous
// binding for name is dropped.
//
// The constructor must be a non-variadic function taking exactly len(deps)
// parameters and returning either (T) or (T, error):
//
//	c.Factory("$carFactory", garage.NewCarFactory)
//	c.Factory("honda", garage.NewHonda, "$event", "$carFactory", "$output")
func (c *Container) Factory(name string, constructor any, deps ...string) error {
	fn := reflect.ValueOf(constructor)
	if err := checkConstructor(name, fn, deps); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.bindings[name] = &binding{
		name:        name,
		kind:        KindFactory,
		constructor: fn,
		deps:        append([]string(nil), deps...),
	}
	c.log.Debug("Factory registered", logger.Fields(
		logger.FieldDependency, name,
		"deps", deps,
	))
	return nil
}

// Get resolves name to its instance, building factory bindings on first use.
func (c *Container) Get(name string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resolve(name)
}

// resolve must be called with c.mu held.
func (c *Container) resolve(name string) (any, error) {
	b, exists := c.bindings[name]
	if !exists {
		return nil, errors.UnknownDependency(name)
	}
	if b.kind == KindValue || b.resolved {
		return b.instance, nil
	}

	fnType := b.constructor.Type()
	args := make([]reflect.Value, len(b.deps))
	for i, dep := range b.deps {
		value, err := c.resolve(dep)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeUnknownDependency {
				if _, set := appErr.Details["required_by"]; !set {
					appErr.WithDetail("required_by", name)
				}
			}
			return nil, err
		}
		arg, err := injectable(name, dep, i, value, fnType.In(i))
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	instance, err := callConstructor(b.constructor, args)
	if err != nil {
		fields := logger.ErrorFields("resolve", err)
		fields[logger.FieldDependency] = name
		c.log.Debug("Factory failed", fields)
		return nil, errors.FactoryFailed(name, err)
	}

	b.instance = instance
	b.resolved = true
	c.log.Debug("Factory instantiated", logger.Fields(
		logger.FieldDependency, name,
		"type", fmt.Sprintf("%T", instance),
	))
	return instance, nil
}

// checkConstructor validates a constructor against its declared dependencies.
func checkConstructor(name string, fn reflect.Value, deps []string) error {
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return errors.InvalidFactory(name, "constructor must be a function")
	}

	fnType := fn.Type()
	if fnType.IsVariadic() {
		return errors.InvalidFactory(name, "constructor must not be variadic")
	}
	if fnType.NumIn() != len(deps) {
		return errors.InvalidFactory(name,
			fmt.Sprintf("constructor takes %d parameters but %d dependencies are declared", fnType.NumIn(), len(deps)))
	}

	switch fnType.NumOut() {
	case 1:
		return nil
	case 2:
		if fnType.Out(1) != errorType {
			return errors.InvalidFactory(name, "second return value must be an error")
		}
		return nil
	default:
		return errors.InvalidFactory(name, "constructor must return either (instance) or (instance, error)")
	}
}

// injectable converts a resolved dependency into an argument for the
// constructor parameter at position.
func injectable(name, dep string, position int, value any, paramType reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch paramType.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(paramType), nil
		}
		return reflect.Value{}, errors.DependencyMismatch(name, dep, position, paramType.String(), "nil")
	}

	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(paramType) {
		return reflect.Value{}, errors.DependencyMismatch(name, dep, position, paramType.String(), v.Type().String())
	}
	return v, nil
}

func callConstructor(fn reflect.Value, args []reflect.Value) (any, error) {
	results := fn.Call(args)
	if len(results) == 2 {
		if errValue := results[1]; !errValue.IsNil() {
			return nil, errValue.Interface().(error)
		}
	}
	return results[0].Interface(), nil
}
