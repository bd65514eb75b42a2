package garage

import (
	"context"
	"fmt"
	"io"

	"github.com/kbukum/modular/errors"
	"github.com/kbukum/modular/events"
	"github.com/kbukum/modular/modular"
	"github.com/kbukum/modular/validation"
)

// Binding names used by Setup.
const (
	DepEvents     = "$event"
	DepCarFactory = "$carFactory"
	DepOutput     = "$output"
	ModuleHonda   = "honda"
)

// Event names emitted or consumed by Honda.
const (
	EventCreate  = "create"
	EventDestroy = "destroy"
	EventHonk    = "honk"
)

// Options configures a Honda when it starts.
type Options struct {
	Sound string `mapstructure:"sound" yaml:"sound" validate:"required"`
}

// Honda is a module that owns one car while started.
type Honda struct {
	bus  *events.Bus
	cars *CarFactory
	out  io.Writer

	car     *Car
	sound   string
	honkSub string
}

// NewHonda creates an unstarted Honda module.
func NewHonda(bus *events.Bus, cars *CarFactory, out io.Writer) *Honda {
	return &Honda{bus: bus, cars: cars, out: out}
}

// Init builds the car, announces it on the create event and starts
// listening for honks. It expects a single Options argument.
func (h *Honda) Init(_ context.Context, args ...any) error {
	opts, err := optionsFrom(args)
	if err != nil {
		return err
	}

	h.sound = opts.Sound
	h.car = h.cars.Create("Honda")

	h.bus.Emit(EventCreate, h.car)
	h.honkSub = h.bus.On(EventHonk, func(...any) { h.Honk() })
	return nil
}

// Destroy stops listening for honks and announces the car on the destroy
// event.
func (h *Honda) Destroy(context.Context) error {
	if h.honkSub != "" {
		h.bus.Off(EventHonk, h.honkSub)
		h.honkSub = ""
	}
	if h.car != nil {
		h.bus.Emit(EventDestroy, h.car)
	}
	return nil
}

// Honk writes the car's sound to the module output.
func (h *Honda) Honk() {
	if h.car == nil {
		return
	}
	fmt.Fprintf(h.out, "%s says: \"%s!\"\n", h.car.Model, h.sound)
}

// Car returns the car built by the last Init, or nil before the first start.
func (h *Honda) Car() *Car {
	return h.car
}

func optionsFrom(args []any) (Options, error) {
	if len(args) != 1 {
		return Options{}, errors.Validation(fmt.Sprintf("honda expects 1 init argument, got %d", len(args)))
	}
	var opts Options
	switch v := args[0].(type) {
	case Options:
		opts = v
	case *Options:
		if v == nil {
			return Options{}, errors.Validation("honda options must not be nil")
		}
		opts = *v
	default:
		return Options{}, errors.Validation(fmt.Sprintf("honda expects garage.Options, got %T", args[0]))
	}
	if err := validation.Validate(opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Setup registers the bus, a car factory, out and the honda module on m.
func Setup(m *modular.Modular, bus *events.Bus, out io.Writer) error {
	m.Register(DepEvents, bus)
	m.Register(DepOutput, out)
	if err := m.Factory(DepCarFactory, NewCarFactory); err != nil {
		return err
	}
	return m.Module(ModuleHonda, NewHonda, DepEvents, DepCarFactory, DepOutput)
}

// Announce subscribes printers for the create and destroy events to bus.
func Announce(bus *events.Bus, out io.Writer) {
	bus.On(EventCreate, func(payload ...any) {
		if car, ok := carFrom(payload); ok {
			fmt.Fprintf(out, "%s has been created\n", car.Model)
		}
	})
	bus.On(EventDestroy, func(payload ...any) {
		if car, ok := carFrom(payload); ok {
			fmt.Fprintf(out, "%s has been destroyed\n", car.Model)
		}
	})
}

func carFrom(payload []any) (*Car, bool) {
	if len(payload) == 0 {
		return nil, false
	}
	car, ok := payload[0].(*Car)
	return car, ok && car != nil
}
