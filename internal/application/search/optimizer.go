package search

import (
	"context"
	"fmt"

	"github.com/crow-router/crow/internal/adapters/metrics"
	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
)

// Outcome is the result of a search followed by optional re-optimization
type Outcome struct {
	SearchID string

	// Status is FOUND whenever any complete route exists, otherwise the first attempt's status
	Status routing.SearchStatus

	// Route is the best complete route, or the partial prefix of a cancelled first attempt
	Route routing.Route

	// StoppedBy is the status of the last attempt that ran
	StoppedBy      routing.SearchStatus
	Attempts       int
	Improvements   int
	Expanded       int
	SkippedTargets []string
}

// RunOptions controls one optimizer run
type RunOptions struct {
	// Improve re-runs the search for strictly shorter routes after the first one
	Improve   bool
	Listeners []routing.ImprovementListener
}

// Optimizer runs the engine repeatedly, keeping the shortest route found.
// Each rerun only accepts routes with fewer hops than the current best, so every
// attempt either improves the route or exhausts.
type Optimizer struct {
	engine      *Engine
	monitor     *Monitor
	maxAttempts int
}

// NewOptimizer creates an optimizer. maxAttempts bounds total engine runs; 0 means unbounded.
func NewOptimizer(engine *Engine, monitor *Monitor, maxAttempts int) *Optimizer {
	return &Optimizer{
		engine:      engine,
		monitor:     monitor,
		maxAttempts: maxAttempts,
	}
}

// Run performs the first search and, when asked, improves on it
func (o *Optimizer) Run(ctx context.Context, req SearchRequest, token *routing.CancellationToken, opts RunOptions) (*Outcome, error) {
	req.Attempt = 1
	req.MaxHops = 0

	first, err := o.engine.Search(ctx, req, token)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		SearchID:       req.SearchID,
		Status:         first.Status,
		Route:          first.Route,
		StoppedBy:      first.Status,
		Attempts:       1,
		Expanded:       first.Expanded,
		SkippedTargets: first.SkippedTargets,
	}
	if !first.Found() {
		return outcome, nil
	}

	o.publish(req.SearchID, 1, first.Route, opts.Listeners)
	outcome.Improvements = 1

	if !opts.Improve {
		return outcome, nil
	}
	return o.improve(ctx, req, token, outcome, opts.Listeners)
}

// Improve re-runs the search from a known route until no strictly shorter route
// is found, the search is cancelled or exhausts. req.Attempt is the attempt that
// produced first. The returned route is never longer than first. first must be
// a complete route from req.Start.
func (o *Optimizer) Improve(ctx context.Context, req SearchRequest, first routing.Route, token *routing.CancellationToken, listeners ...routing.ImprovementListener) (*Outcome, error) {
	if first.IsEmpty() {
		return nil, shared.NewValidationError("route", "a route to improve is required")
	}
	if first.Start() != req.Start {
		return nil, shared.NewValidationError("route", fmt.Sprintf("starts at %s, not %s", first.Start(), req.Start))
	}
	if !req.Targets.Contains(first.End()) {
		return nil, shared.NewValidationError("route", fmt.Sprintf("ends at %s, which is not a target", first.End()))
	}
	if req.Attempt < 1 {
		req.Attempt = 1
	}
	o.monitor.publishBest(first)

	outcome := &Outcome{
		SearchID:  req.SearchID,
		Status:    routing.SearchStatusFound,
		Route:     first,
		StoppedBy: routing.SearchStatusFound,
		Attempts:  req.Attempt,
	}
	return o.improve(ctx, req, token, outcome, listeners)
}

func (o *Optimizer) improve(ctx context.Context, req SearchRequest, token *routing.CancellationToken, outcome *Outcome, listeners []routing.ImprovementListener) (*Outcome, error) {
	logger := logging.LoggerFromContext(ctx)
	best := outcome.Route

	for {
		if best.Hops() == 0 {
			break
		}
		if o.maxAttempts > 0 && outcome.Attempts >= o.maxAttempts {
			logger.Log("INFO", "re-optimization attempt limit reached", map[string]interface{}{
				"search_id":    req.SearchID,
				"max_attempts": o.maxAttempts,
			})
			break
		}
		if token.IsCancelled() || ctx.Err() != nil {
			outcome.StoppedBy = routing.SearchStatusCancelled
			break
		}

		attempt := req
		attempt.Attempt = outcome.Attempts + 1
		attempt.MaxHops = best.Hops()

		result, err := o.engine.Search(ctx, attempt, token)
		if err != nil {
			return nil, err
		}
		outcome.Attempts = attempt.Attempt
		outcome.Expanded += result.Expanded
		outcome.StoppedBy = result.Status

		if !result.Found() || !result.Route.ShorterThan(best) {
			break
		}

		best = result.Route
		outcome.Route = best
		outcome.Improvements++
		o.publish(req.SearchID, attempt.Attempt, best, listeners)
	}

	logger.Log("INFO", "re-optimization finished", map[string]interface{}{
		"search_id":    req.SearchID,
		"attempts":     outcome.Attempts,
		"improvements": outcome.Improvements,
		"hops":         best.Hops(),
		"stopped_by":   string(outcome.StoppedBy),
	})
	return outcome, nil
}

// publish hands an improvement to every listener before the next attempt starts
func (o *Optimizer) publish(searchID string, attempt int, route routing.Route, listeners []routing.ImprovementListener) {
	o.monitor.publishBest(route)
	metrics.RecordImprovement(route.Hops())

	improvement := routing.Improvement{
		SearchID: searchID,
		Attempt:  attempt,
		Route:    route.Clone(),
		Hops:     route.Hops(),
	}
	for _, l := range listeners {
		if l != nil {
			l.OnImprovement(improvement)
		}
	}
}
