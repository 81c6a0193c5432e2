package config

import "time"

// DirectoryConfig holds the system directory (Ardent Insight) client configuration
type DirectoryConfig struct {
	// Base URL for system lookups, without trailing slash
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Per-request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Retry          RetryConfig          `mapstructure:"retry"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	// Maximum number of retry attempts after the first request
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// CircuitBreakerConfig controls when the client stops calling a failing directory
type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures" validate:"min=1"`
	Timeout     time.Duration `mapstructure:"timeout"`
}
