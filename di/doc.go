// Package di provides a name-keyed dependency container.
//
// A name is bound either to a value or to a factory: a constructor plus the
// ordered names of the dependencies it needs. Factories are instantiated
// lazily on first resolution and memoized, so every name resolves to a
// singleton.
//
// # Registration
//
//	c := di.NewContainer()
//	c.Register("$event", events.NewBus())
//	err := c.Factory("$carFactory", garage.NewCarFactory)
//	err = c.Factory("honda", garage.NewHonda, "$event", "$carFactory", "$output")
//
// # Resolution
//
//	honda, err := di.Resolve[*garage.Honda](c, "honda")
package di
