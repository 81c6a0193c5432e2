package config

import "time"

// RoutingConfig holds route search configuration
type RoutingConfig struct {
	// Maximum jump distance in light years
	JumpRadius float64 `mapstructure:"jump_radius" validate:"gt=0"`

	// Slack accepted above the jump radius for floating point noise
	Tolerance float64 `mapstructure:"tolerance" validate:"gte=0"`

	// Node expansions allowed per search; 0 means unbounded
	MaxExpansions int `mapstructure:"max_expansions" validate:"min=0"`

	// Re-optimization attempts after the first route; 0 means until no improvement
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// How often observers refresh live status
	StatusInterval time.Duration `mapstructure:"status_interval" validate:"required"`

	// Station types that qualify a refuel candidate as a target; empty accepts all
	StationTypes []string `mapstructure:"station_types" validate:"dive,required"`
}
