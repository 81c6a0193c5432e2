package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/crow-router/crow/internal/domain/shared"
)

// Request outcomes as exported in the "outcome" label
const (
	OutcomeOK        = "ok"
	OutcomeNoTargets = "no_targets"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

// RequestMetricsCollector tracks mediator requests: route searches, target
// listings, coordinate and history lookups.
type RequestMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewRequestMetricsCollector creates the request collectors
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		// Searches with re-optimization can run for minutes against the remote directory
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Mediator request duration by request type and outcome",
				Buckets:   []float64{0.01, 0.1, 0.5, 2, 10, 60, 300, 1800},
			},
			[]string{"request", "outcome"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Mediator requests handled by request type and outcome",
			},
			[]string{"request", "outcome"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_in_flight",
				Help:      "Mediator requests currently being handled",
			},
			[]string{"request"},
		),
	}
}

// Register registers the request collectors with the registry
func (c *RequestMetricsCollector) Register() error {
	return registerAll(c.duration, c.total, c.inFlight)
}

// begin marks a request as started and returns the func that completes it
func (c *RequestMetricsCollector) begin(request string) func(seconds float64, err error) {
	gauge := c.inFlight.WithLabelValues(request)
	gauge.Inc()
	return func(seconds float64, err error) {
		gauge.Dec()
		outcome := ClassifyOutcome(err)
		c.duration.WithLabelValues(request, outcome).Observe(seconds)
		c.total.WithLabelValues(request, outcome).Inc()
	}
}

// ClassifyOutcome maps a handler error onto an outcome label
func ClassifyOutcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var noTargets *shared.NoTargetsSuppliedError
	if errors.As(err, &noTargets) {
		return OutcomeNoTargets
	}
	var invalid *shared.ValidationError
	if errors.As(err, &invalid) {
		return OutcomeInvalid
	}
	return OutcomeFailed
}
