package di

import "fmt"

// Resolver is implemented by anything that resolves names to instances,
// including *Container and types embedding it.
type Resolver interface {
	Get(name string) (any, error)
}

// MustResolve resolves a name with type safety, panics on error.
//
// Example:
//
//	bus := di.MustResolve[*events.Bus](c, "$event")
func MustResolve[T any](r Resolver, name string) T {
	instance, err := Resolve[T](r, name)
	if err != nil {
		panic(err.Error())
	}
	return instance
}

// Resolve resolves a name with type safety, returns error on failure.
// Resolution errors keep their AppError code when wrapped.
//
// Example:
//
//	cars, err := di.Resolve[*garage.CarFactory](c, "$carFactory")
//	if err != nil {
//	    return fmt.Errorf("failed to get car factory: %w", err)
//	}
func Resolve[T any](r Resolver, name string) (T, error) {
	var zero T
	instance, err := r.Get(name)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", name, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: %s is %T, expected %T", name, instance, zero)
	}
	return result, nil
}

// TryResolve resolves a name, returns zero value and false if it cannot be
// resolved or has a different type.
//
// Example:
//
//	if bus, ok := di.TryResolve[*events.Bus](c, "$event"); ok {
//	    bus.Emit("ready")
//	}
func TryResolve[T any](r Resolver, name string) (T, bool) {
	result, err := Resolve[T](r, name)
	if err != nil {
		return result, false
	}
	return result, true
}
