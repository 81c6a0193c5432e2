package queries

import (
	"context"
	"fmt"

	"github.com/crow-router/crow/internal/application/mediator"
	"github.com/crow-router/crow/internal/domain/routing"
)

const defaultHistoryLimit = 20

// RouteHistoryQuery lists stored routes, either the most recent or one search's attempts
type RouteHistoryQuery struct {
	SearchID string
	Limit    int
}

// RouteHistoryResponse holds stored route records
type RouteHistoryResponse struct {
	Records []*routing.RouteRecord
}

// RouteHistoryHandler handles the RouteHistory query
type RouteHistoryHandler struct {
	repo routing.RouteRepository
}

// NewRouteHistoryHandler creates a new RouteHistoryHandler
func NewRouteHistoryHandler(repo routing.RouteRepository) *RouteHistoryHandler {
	return &RouteHistoryHandler{repo: repo}
}

// Handle executes the RouteHistory query
func (h *RouteHistoryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*RouteHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RouteHistoryQuery")
	}
	if h.repo == nil {
		return nil, fmt.Errorf("route history requires a database; set database.type")
	}

	var (
		records []*routing.RouteRecord
		err     error
	)
	if query.SearchID != "" {
		records, err = h.repo.ListBySearch(ctx, query.SearchID)
	} else {
		limit := query.Limit
		if limit <= 0 {
			limit = defaultHistoryLimit
		}
		records, err = h.repo.ListRecent(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load route history: %w", err)
	}

	return &RouteHistoryResponse{Records: records}, nil
}
