package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SearchMetricsCollector handles route search and cache metrics
type SearchMetricsCollector struct {
	searchesTotal  *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	nodesExpanded  prometheus.Histogram
	improvements   prometheus.Counter
	bestRouteHops  prometheus.Gauge
	cacheLookups   *prometheus.CounterVec
}

// NewSearchMetricsCollector creates a new search metrics collector
func NewSearchMetricsCollector() *SearchMetricsCollector {
	return &SearchMetricsCollector{
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "searches_total",
				Help:      "Total number of search invocations by terminal status",
			},
			[]string{"status"},
		),
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "search_duration_seconds",
				Help:      "Search invocation duration distribution",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
			},
			[]string{"status"},
		),
		nodesExpanded: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "nodes_expanded",
				Help:      "Systems expanded per search invocation",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		improvements: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "route_improvements_total",
				Help:      "Total number of strictly shorter routes published",
			},
		),
		bestRouteHops: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "best_route_hops",
				Help:      "Hop count of the most recently published route",
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_lookups_total",
				Help:      "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
	}
}

// Register registers all search metrics with the Prometheus registry
func (c *SearchMetricsCollector) Register() error {
	return registerAll(
		c.searchesTotal,
		c.searchDuration,
		c.nodesExpanded,
		c.improvements,
		c.bestRouteHops,
		c.cacheLookups,
	)
}

// RecordSearchCompletion records a finished search invocation
func (c *SearchMetricsCollector) RecordSearchCompletion(status string, duration float64, expanded int) {
	c.searchesTotal.WithLabelValues(status).Inc()
	c.searchDuration.WithLabelValues(status).Observe(duration)
	c.nodesExpanded.Observe(float64(expanded))
}

// RecordImprovement records a published improvement
func (c *SearchMetricsCollector) RecordImprovement(hops int) {
	c.improvements.Inc()
	c.bestRouteHops.Set(float64(hops))
}

// RecordCacheLookup records a hit or miss
func (c *SearchMetricsCollector) RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(cache, result).Inc()
}
