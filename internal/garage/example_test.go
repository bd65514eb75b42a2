package garage_test

import (
	"context"
	"os"

	"github.com/kbukum/modular/events"
	"github.com/kbukum/modular/internal/garage"
	"github.com/kbukum/modular/logger"
	"github.com/kbukum/modular/modular"
)

func Example() {
	m := modular.New(modular.WithLogger(logger.NewNop()))
	bus := events.NewBus(events.WithLogger(logger.NewNop()))
	if err := garage.Setup(m, bus, os.Stdout); err != nil {
		panic(err)
	}
	garage.Announce(bus, os.Stdout)

	ctx := context.Background()
	if err := m.Start(ctx, garage.ModuleHonda, garage.Options{Sound: "Honk, honk"}); err != nil {
		panic(err)
	}
	bus.Emit(garage.EventHonk)
	if err := m.Stop(ctx, garage.ModuleHonda); err != nil {
		panic(err)
	}

	// Output:
	// Honda has been created
	// Honda says: "Honk, honk!"
	// Honda has been destroyed
}
