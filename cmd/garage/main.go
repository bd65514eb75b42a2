// Command garage starts a honda module, honks and stops it again.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/modular/bootstrap"
	"github.com/kbukum/modular/config"
	"github.com/kbukum/modular/events"
	"github.com/kbukum/modular/internal/garage"
	"github.com/kbukum/modular/version"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "garage:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to config.yml")
	envFile := flags.String("env-file", "", "path to a .env file")
	flags.String("sound", "", "sound the honda makes")
	flags.Int("honks", 0, "number of honk events to emit")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	showVersion := flags.Bool("version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		_, err := fmt.Fprintln(stdout, serviceName, version.Get())
		return err
	}

	opts := []config.LoaderOption{
		config.WithFlag(flags, "sound", "garage.sound"),
		config.WithFlag(flags, "honks", "garage.honks"),
		config.WithFlag(flags, "log-level", "logging.level"),
	}
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	var cfg GarageConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	app, err := bootstrap.NewApp(&cfg, bootstrap.WithStartArgs(cfg.Options()))
	if err != nil {
		return err
	}

	bus := events.NewBus(events.WithLogger(app.Logger.WithComponent("events")))
	garage.Announce(bus, stdout)
	if err := garage.Setup(app.Modular, bus, stdout); err != nil {
		return err
	}

	return app.RunTask(ctx, func(context.Context) error {
		for range cfg.Garage.Honks {
			bus.Emit(garage.EventHonk)
		}
		return nil
	})
}
