// Package validation validates configuration structs through
// go-playground/validator struct tags and reports failures as
// INVALID_INPUT AppErrors carrying per-field details.
//
//	type TracingConfig struct {
//	    Endpoint   string  `mapstructure:"endpoint" validate:"required_if=Enabled true"`
//	    SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
//	}
//	err := validation.Validate(cfg)
package validation
