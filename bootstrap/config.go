package bootstrap

import (
	"github.com/kbukum/modular/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig satisfies it through promoted methods:
//
//	type GarageConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Garage Settings      `yaml:"garage" mapstructure:"garage"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
