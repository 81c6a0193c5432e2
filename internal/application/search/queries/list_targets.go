package queries

import (
	"context"
	"fmt"

	"github.com/crow-router/crow/internal/application/mediator"
	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

// ListTargetsQuery lists refuel candidates near a system
type ListTargetsQuery struct {
	Start        string
	StationTypes []string
	Limit        int
}

// ListTargetsResponse holds candidates nearest first
type ListTargetsResponse struct {
	Start      string
	Candidates []search.TargetCandidate
}

// ListTargetsHandler handles the ListTargets query
type ListTargetsHandler struct {
	discovery *search.TargetDiscovery
}

// NewListTargetsHandler creates a new ListTargetsHandler
func NewListTargetsHandler(discovery *search.TargetDiscovery) *ListTargetsHandler {
	return &ListTargetsHandler{discovery: discovery}
}

// Handle executes the ListTargets query
func (h *ListTargetsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListTargetsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListTargetsQuery")
	}

	start := shared.NormalizeSystemName(query.Start)
	if err := shared.ValidateSystemName("start", start); err != nil {
		return nil, err
	}

	candidates, err := h.discovery.Discover(ctx, start, system.StationTypeIn(query.StationTypes...))
	if err != nil {
		return nil, err
	}
	if query.Limit > 0 && len(candidates) > query.Limit {
		candidates = candidates[:query.Limit]
	}

	return &ListTargetsResponse{
		Start:      start,
		Candidates: candidates,
	}, nil
}
