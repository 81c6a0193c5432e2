package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// MetricsConfig controls the Prometheus endpoint served while a search runs.
// Collection is off unless Enabled is set.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`

	// ShutdownTimeout bounds how long the endpoint drains once the search ends
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

// ListenAddress is the host:port the endpoint binds to
func (c MetricsConfig) ListenAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Endpoint is the scrape URL shown to the operator
func (c MetricsConfig) Endpoint() string {
	return fmt.Sprintf("http://%s%s", c.ListenAddress(), c.Path)
}
