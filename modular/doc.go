// Package modular layers a module lifecycle over the di container.
//
// A module is a factory binding that is additionally tracked through
// Start and Stop. Starting a module resolves its singleton (building it and
// its dependencies on first use) and calls its Init hook; stopping calls its
// Destroy hook and makes it eligible for another Start, which reuses the
// same instance.
//
//	m := modular.New()
//	m.Register("$event", events.NewBus())
//	if err := m.Module("honda", garage.NewHonda, "$event", "$carFactory", "$output"); err != nil {
//	    return err
//	}
//	if err := m.Start(ctx, "honda", garage.Options{Sound: "Honk, honk"}); err != nil {
//	    return err
//	}
//	defer m.StopAll(ctx)
//
// Starting an unknown or already started module, and stopping an unknown or
// stopped one, are no-ops so StartAll and StopAll can sweep every module.
package modular
