package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/crow-router/crow/internal/domain/shared"
)

// Validator checks configuration and preferences against their struct tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the crow rules on top of the stock validators:
//
//	systemname  non-blank after trimming
//	RoutingConfig  tolerance must stay well below the jump radius
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("systemname", func(fl validator.FieldLevel) bool {
		return shared.ValidateSystemName(fl.FieldName(), fl.Field().String()) == nil
	})
	v.RegisterStructValidation(validateRouting, RoutingConfig{})

	return &Validator{validate: v}
}

func validateRouting(sl validator.StructLevel) {
	r := sl.Current().Interface().(RoutingConfig)
	if r.JumpRadius > 0 && r.Tolerance >= r.JumpRadius/100 {
		sl.ReportError(r.Tolerance, "Tolerance", "Tolerance", "ltradius", "")
	}
}

// Validate validates a struct using its tags
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	lines := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Namespace(), describe(e)))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(lines, "\n  "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when " + strings.ReplaceAll(e.Param(), " ", " is ")
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", e.Param(), e.Value())
	case "systemname":
		return "must be a non-blank system name"
	case "ltradius":
		return fmt.Sprintf("%v must be below 1%% of the jump radius", e.Value())
	case "url":
		return fmt.Sprintf("%q is not a URL", e.Value())
	default:
		return fmt.Sprintf("failed %s=%s (value: %v)", e.Tag(), e.Param(), e.Value())
	}
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
