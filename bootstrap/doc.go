// Package bootstrap runs an executable built around a modular container.
//
// NewApp applies defaults to and validates a typed configuration, initializes
// the global logger and prepares a Modular. The caller registers its modules,
// then either Run blocks until a shutdown signal, or RunTask executes a
// finite task. Both start every module with StartAll, optionally export
// telemetry, and stop every module with StopAll on the way out.
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithStartArgs(garage.Options{Sound: "beep"}))
//	garage.Setup(app.Modular, bus, os.Stdout)
//	err = app.RunTask(ctx, task)
package bootstrap
