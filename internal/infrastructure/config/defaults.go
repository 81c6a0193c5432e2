package config

import "time"

// DefaultDirectoryURL is the Ardent Insight system lookup endpoint
const DefaultDirectoryURL = "https://api.ardent-insight.com/v2/system/name"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "none"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "crow.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "crow"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "crow"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Directory defaults
	if cfg.Directory.BaseURL == "" {
		cfg.Directory.BaseURL = DefaultDirectoryURL
	}
	if cfg.Directory.Timeout == 0 {
		cfg.Directory.Timeout = 30 * time.Second
	}
	if cfg.Directory.RateLimit.Requests == 0 {
		cfg.Directory.RateLimit.Requests = 5
	}
	if cfg.Directory.RateLimit.Burst == 0 {
		cfg.Directory.RateLimit.Burst = 10
	}
	if cfg.Directory.Retry.MaxAttempts == 0 {
		cfg.Directory.Retry.MaxAttempts = 3
	}
	if cfg.Directory.Retry.BackoffBase == 0 {
		cfg.Directory.Retry.BackoffBase = 500 * time.Millisecond
	}
	if cfg.Directory.CircuitBreaker.MaxFailures == 0 {
		cfg.Directory.CircuitBreaker.MaxFailures = 10
	}
	if cfg.Directory.CircuitBreaker.Timeout == 0 {
		cfg.Directory.CircuitBreaker.Timeout = 30 * time.Second
	}

	// Routing defaults
	if cfg.Routing.JumpRadius == 0 {
		cfg.Routing.JumpRadius = 15.0
	}
	if cfg.Routing.Tolerance == 0 {
		cfg.Routing.Tolerance = 1e-6
	}
	if cfg.Routing.StatusInterval == 0 {
		cfg.Routing.StatusInterval = 200 * time.Millisecond
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9464
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ShutdownTimeout == 0 {
		cfg.Metrics.ShutdownTimeout = 5 * time.Second
	}
}
