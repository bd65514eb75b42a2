// Package config loads service configuration with Viper.
//
// LoadConfig merges, from lowest to highest precedence, a YAML config file,
// variables from a .env file, the process environment and explicitly set
// command-line flags, then unmarshals the result into the caller's struct.
// Environment variables map onto nested keys by splitting on underscores,
// so GARAGE_SOUND sets garage.sound.
//
// Config files are looked up in the usual places when no explicit path is
// given: ./cmd/<service>/config.yml, ./config/config.yml and ./config.yml.
//
// Service configs embed ServiceConfig and call its ApplyDefaults and
// Validate from their own:
//
//	type GarageConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Garage GarageSettings `yaml:"garage" mapstructure:"garage"`
//	}
package config
