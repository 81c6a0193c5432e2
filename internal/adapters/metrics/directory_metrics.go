package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DirectoryMetricsCollector handles system directory request metrics
type DirectoryMetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewDirectoryMetricsCollector creates a new directory metrics collector
func NewDirectoryMetricsCollector() *DirectoryMetricsCollector {
	return &DirectoryMetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "directory_requests_total",
				Help:      "Total number of directory requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "directory_request_duration_seconds",
				Help:      "Directory request duration distribution, retries included",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint"},
		),
	}
}

// Register registers all directory metrics with the Prometheus registry
func (c *DirectoryMetricsCollector) Register() error {
	return registerAll(c.requestsTotal, c.requestDuration)
}

// RecordDirectoryRequest records one directory call
func (c *DirectoryMetricsCollector) RecordDirectoryRequest(endpoint string, outcome string, duration float64) {
	c.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	c.requestDuration.WithLabelValues(endpoint).Observe(duration)
}
