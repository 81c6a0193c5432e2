package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (crow.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("crow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".crow"))
		}
	}

	v.SetEnvPrefix("CROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// DATABASE_URL without prefix, for hosted postgres
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
		if !v.IsSet("database.type") {
			v.Set("database.type", "postgres")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys makes AutomaticEnv work for keys that never appear in a config file.
// Viper only consults the environment during Unmarshal for keys it already knows about.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"database.type", "database.url", "database.path", "database.host", "database.port",
		"database.user", "database.password", "database.name", "database.sslmode",
		"directory.base_url", "directory.timeout",
		"directory.rate_limit.requests", "directory.rate_limit.burst",
		"directory.retry.max_attempts", "directory.retry.backoff_base",
		"directory.circuit_breaker.max_failures", "directory.circuit_breaker.timeout",
		"routing.jump_radius", "routing.tolerance", "routing.max_expansions",
		"routing.max_attempts", "routing.status_interval", "routing.station_types",
		"logging.level", "logging.format", "logging.output", "logging.file_path",
		"metrics.enabled", "metrics.host", "metrics.port", "metrics.path", "metrics.shutdown_timeout",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// DefaultConfig returns a configuration with every default applied
func DefaultConfig() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}
