package search

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/crow-router/crow/internal/adapters/metrics"
	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

const targetResolveConcurrency = 4

// SearchRequest describes one engine invocation
type SearchRequest struct {
	SearchID string
	Start    string
	Targets  routing.TargetSet
	Attempt  int

	// MaxHops, when positive, rejects routes with MaxHops or more jumps
	MaxHops int
}

// EngineConfig holds engine tuning
type EngineConfig struct {
	// MaxExpansions bounds systems expanded per invocation; 0 means unbounded
	MaxExpansions int
	Clock         shared.Clock
}

// Engine is the greedy best-first route search over the coordinate and adjacency caches.
// The frontier is ordered by squared distance to the nearest target only; path cost is ignored.
type Engine struct {
	coordinates   system.CoordinateResolver
	neighbors     system.NeighborProvider
	monitor       *Monitor
	maxExpansions int
	clock         shared.Clock
}

// NewEngine creates a search engine. monitor may be nil.
func NewEngine(coordinates system.CoordinateResolver, neighbors system.NeighborProvider, monitor *Monitor, cfg EngineConfig) *Engine {
	clock := cfg.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Engine{
		coordinates:   coordinates,
		neighbors:     neighbors,
		monitor:       monitor,
		maxExpansions: cfg.MaxExpansions,
		clock:         clock,
	}
}

type resolvedTarget struct {
	name  string
	coord shared.Coordinate
}

// searchRun is the per-invocation state
type searchRun struct {
	req      SearchRequest
	targets  []resolvedTarget
	frontier *Frontier
	// visited maps an expanded system to the hop count it was expanded at
	visited  map[string]int
	expanded int

	closest          routing.Route
	closestRemaining float64
}

// Search runs one invocation. Cancellation is checked before every expansion and
// yields the path that came closest to a target, never an error.
func (e *Engine) Search(ctx context.Context, req SearchRequest, token *routing.CancellationToken) (*routing.SearchResult, error) {
	logger := logging.LoggerFromContext(ctx)

	req.Start = shared.NormalizeSystemName(req.Start)
	if err := shared.ValidateSystemName("start", req.Start); err != nil {
		return nil, err
	}
	if req.Targets.Len() == 0 {
		return nil, shared.NewNoTargetsSuppliedError()
	}

	sm := routing.NewSearchStateMachine(e.clock)
	if err := sm.Start(); err != nil {
		return nil, err
	}

	result := &routing.SearchResult{
		SearchID: req.SearchID,
		Attempt:  req.Attempt,
	}

	targets, skipped, err := e.resolveTargets(ctx, req.Targets)
	if err != nil {
		return nil, err
	}
	result.SkippedTargets = skipped
	for _, name := range skipped {
		logger.Log("WARNING", "target skipped, coordinates unavailable", map[string]interface{}{
			"search_id": req.SearchID,
			"target":    name,
		})
	}

	run := &searchRun{
		req:              req,
		targets:          targets,
		frontier:         NewFrontier(),
		visited:          make(map[string]int),
		closestRemaining: math.Inf(1),
	}

	status, route := e.loop(ctx, run, token, logger)

	switch status {
	case routing.SearchStatusFound:
		_ = sm.Found()
	case routing.SearchStatusCancelled:
		_ = sm.Cancel()
	default:
		_ = sm.Exhaust()
	}

	result.Status = sm.Status()
	result.Route = route
	result.Expanded = run.expanded
	result.Duration = sm.RuntimeDuration()

	metrics.RecordSearchCompletion(string(result.Status), result.Duration.Seconds(), result.Expanded)
	logger.Log("INFO", "search finished", map[string]interface{}{
		"search_id": req.SearchID,
		"attempt":   req.Attempt,
		"status":    string(result.Status),
		"hops":      route.Hops(),
		"expanded":  run.expanded,
		"max_hops":  req.MaxHops,
	})

	return result, nil
}

func (e *Engine) loop(ctx context.Context, run *searchRun, token *routing.CancellationToken, logger logging.Logger) (routing.SearchStatus, routing.Route) {
	if len(run.targets) == 0 && !run.req.Targets.Contains(run.req.Start) {
		logger.Log("WARNING", "no target could be resolved", map[string]interface{}{
			"search_id": run.req.SearchID,
		})
		return routing.SearchStatusExhausted, routing.Route{}
	}

	run.frontier.Push(0, routing.NewRoute([]string{run.req.Start}))

	for run.frontier.Len() > 0 {
		if token.IsCancelled() || ctx.Err() != nil {
			return routing.SearchStatusCancelled, run.closest.Clone()
		}
		if e.maxExpansions > 0 && run.expanded >= e.maxExpansions {
			logger.Log("INFO", "exploration budget exhausted", map[string]interface{}{
				"search_id":      run.req.SearchID,
				"max_expansions": e.maxExpansions,
			})
			return routing.SearchStatusExhausted, routing.Route{}
		}

		path, _, _ := run.frontier.Pop()
		current := path.End()
		if run.seen(current, path.Hops()) {
			continue
		}
		run.visited[current] = path.Hops()
		run.expanded++

		coord, err := e.coordinates.GetCoordinate(ctx, current)
		if err != nil {
			if !shared.IsSkippable(err) {
				logger.Log("ERROR", "unexpected coordinate failure", map[string]interface{}{
					"system": current,
					"error":  err.Error(),
				})
			}
			if run.req.Targets.Contains(current) {
				return routing.SearchStatusFound, path
			}
			continue
		}

		nearest, remainingSq := run.nearestTarget(coord)
		if run.closest.IsEmpty() || remainingSq < run.closestRemaining {
			run.closest = path
			run.closestRemaining = remainingSq
		}
		e.publish(run, path, current, nearest, remainingSq)

		if run.req.Targets.Contains(current) {
			return routing.SearchStatusFound, path
		}

		if run.req.MaxHops > 0 && path.Hops()+1 >= run.req.MaxHops {
			continue
		}

		neighbors, err := e.neighbors.GetNeighbors(ctx, current)
		if err != nil {
			logger.Log("DEBUG", "skipping expansion", map[string]interface{}{
				"system": current,
				"error":  err.Error(),
			})
			continue
		}

		for _, n := range neighbors {
			if run.seen(n.Name, path.Hops()+1) {
				continue
			}
			nc, err := e.coordinates.GetCoordinate(ctx, n.Name)
			if err != nil {
				continue
			}
			_, h := run.nearestTarget(nc)
			run.frontier.Push(h, path.Extend(n.Name))
		}
	}

	return routing.SearchStatusExhausted, routing.Route{}
}

func (e *Engine) publish(run *searchRun, path routing.Route, current, nearest string, remainingSq float64) {
	if e.monitor == nil {
		return
	}
	e.monitor.publishCurrent(path)
	e.monitor.publishStatus(routing.LiveStatus{
		SearchID:      run.req.SearchID,
		Attempt:       run.req.Attempt,
		Current:       current,
		NearestTarget: nearest,
		PathLength:    path.Len(),
		Remaining:     math.Sqrt(remainingSq),
		Targets:       run.req.Targets.Names(),
		Expanded:      run.expanded,
	})
}

// seen reports whether a system reached with the given hop count can be skipped.
// Unbounded searches skip any expanded system. Hop-bounded searches re-expand a
// system only when it is reached with fewer hops than before, so a long path that
// got there first cannot hide a shorter one.
func (r *searchRun) seen(name string, hops int) bool {
	at, ok := r.visited[name]
	if !ok {
		return false
	}
	if r.req.MaxHops <= 0 {
		return true
	}
	return at <= hops
}

// nearestTarget returns the closest resolved target and its squared distance.
// With no resolved targets every system scores zero.
func (r *searchRun) nearestTarget(c shared.Coordinate) (string, float64) {
	name, best := "", math.Inf(1)
	for _, t := range r.targets {
		if d := c.DistanceSquaredTo(t.coord); d < best {
			name, best = t.name, d
		}
	}
	if name == "" {
		return "", 0
	}
	return name, best
}

// resolveTargets looks up target positions concurrently, keeping target order.
// Targets that cannot be resolved are reported as skipped.
func (e *Engine) resolveTargets(ctx context.Context, targets routing.TargetSet) ([]resolvedTarget, []string, error) {
	names := targets.Names()
	coords := make([]*shared.Coordinate, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(targetResolveConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			c, err := e.coordinates.GetCoordinate(gctx, name)
			if err != nil {
				if shared.IsSkippable(err) {
					return nil
				}
				return fmt.Errorf("failed to resolve target %s: %w", name, err)
			}
			coords[i] = &c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	resolved := make([]resolvedTarget, 0, len(names))
	var skipped []string
	for i, name := range names {
		if coords[i] == nil {
			skipped = append(skipped, name)
			continue
		}
		resolved = append(resolved, resolvedTarget{name: name, coord: *coords[i]})
	}
	return resolved, skipped, nil
}
