package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "crow"
	subsystem = "router"
)

var (
	// Registry is the global Prometheus registry, nil while metrics are disabled
	Registry *prometheus.Registry

	globalSearchCollector    SearchMetricsRecorder
	globalDirectoryCollector DirectoryMetricsRecorder
)

// SearchMetricsRecorder records route search events
type SearchMetricsRecorder interface {
	RecordSearchCompletion(status string, duration float64, expanded int)
	RecordImprovement(hops int)
	RecordCacheLookup(cache string, hit bool)
}

// DirectoryMetricsRecorder records system directory requests
type DirectoryMetricsRecorder interface {
	RecordDirectoryRequest(endpoint string, outcome string, duration float64)
}

// InitRegistry initializes the Prometheus registry.
// Call once at startup when metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global registry or nil
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalSearchCollector installs the search collector used by the Record* helpers
func SetGlobalSearchCollector(collector SearchMetricsRecorder) {
	globalSearchCollector = collector
}

// SetGlobalDirectoryCollector installs the directory collector
func SetGlobalDirectoryCollector(collector DirectoryMetricsRecorder) {
	globalDirectoryCollector = collector
}

// RecordSearchCompletion records a finished search invocation
func RecordSearchCompletion(status string, duration float64, expanded int) {
	if globalSearchCollector != nil {
		globalSearchCollector.RecordSearchCompletion(status, duration, expanded)
	}
}

// RecordImprovement records a published route improvement
func RecordImprovement(hops int) {
	if globalSearchCollector != nil {
		globalSearchCollector.RecordImprovement(hops)
	}
}

// RecordCacheLookup records a coordinate or adjacency cache lookup
func RecordCacheLookup(cache string, hit bool) {
	if globalSearchCollector != nil {
		globalSearchCollector.RecordCacheLookup(cache, hit)
	}
}

// RecordDirectoryRequest records one directory call, retries included
func RecordDirectoryRequest(endpoint string, outcome string, duration float64) {
	if globalDirectoryCollector != nil {
		globalDirectoryCollector.RecordDirectoryRequest(endpoint, outcome, duration)
	}
}

// registerAll registers collectors, skipping silently when metrics are disabled
func registerAll(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil
	}
	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
