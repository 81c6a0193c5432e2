package search

import (
	"context"

	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
)

// HistoryRecorder writes published routes and final outcomes to the route repository
type HistoryRecorder struct {
	repo   routing.RouteRepository
	lookup routing.CoordinateLookup
	clock  shared.Clock
}

// NewHistoryRecorder creates a recorder. Returns nil when repo is nil, which records nothing.
func NewHistoryRecorder(repo routing.RouteRepository, lookup routing.CoordinateLookup, clock shared.Clock) *HistoryRecorder {
	if repo == nil {
		return nil
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &HistoryRecorder{repo: repo, lookup: lookup, clock: clock}
}

// Record stores one route. Failures are logged; history never fails a search.
func (h *HistoryRecorder) Record(ctx context.Context, searchID, start string, targets []string, route routing.Route, status routing.SearchStatus, attempt int) {
	if h == nil {
		return
	}

	record := &routing.RouteRecord{
		SearchID:  searchID,
		Start:     start,
		Targets:   targets,
		Route:     route.Clone(),
		Hops:      route.Hops(),
		Status:    status,
		Attempt:   attempt,
		CreatedAt: h.clock.Now(),
	}
	if !route.IsEmpty() && h.lookup != nil {
		if plan, err := routing.BuildRoutePlan(ctx, route, h.lookup); err == nil {
			record.TotalDistance = plan.TotalDistance
		}
	}

	if err := h.repo.Add(ctx, record); err != nil {
		logging.LoggerFromContext(ctx).Log("WARNING", "failed to record route history", map[string]interface{}{
			"search_id": searchID,
			"error":     err.Error(),
		})
	}
}

// Listener records every improvement of one search as FOUND
func (h *HistoryRecorder) Listener(ctx context.Context, start string, targets []string) routing.ImprovementListener {
	return routing.ImprovementListenerFunc(func(improvement routing.Improvement) {
		h.Record(ctx, improvement.SearchID, start, targets, improvement.Route, routing.SearchStatusFound, improvement.Attempt)
	})
}
