package main

import (
	"github.com/kbukum/modular/config"
	"github.com/kbukum/modular/internal/garage"
	"github.com/kbukum/modular/validation"
)

const serviceName = "garage"

// GarageConfig is the configuration of the garage executable.
type GarageConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Garage               Settings `yaml:"garage" mapstructure:"garage"`
}

// Settings drives the honda scenario.
type Settings struct {
	Sound string `yaml:"sound" mapstructure:"sound" validate:"required"`
	Honks int    `yaml:"honks" mapstructure:"honks" validate:"gte=1,lte=100"`
}

// ApplyDefaults fills unset fields. Logs go to stderr so stdout only carries
// the scenario output.
func (c *GarageConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Garage.Sound == "" {
		c.Garage.Sound = "Honk, honk"
	}
	if c.Garage.Honks == 0 {
		c.Garage.Honks = 1
	}
}

// Validate checks the service and garage sections.
func (c *GarageConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.Validate(c)
}

// Options returns the honda start options.
func (c *GarageConfig) Options() garage.Options {
	return garage.Options{Sound: c.Garage.Sound}
}
