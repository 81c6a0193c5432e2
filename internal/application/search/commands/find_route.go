package commands

import (
	"context"
	"fmt"

	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/application/mediator"
	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
	"github.com/crow-router/crow/pkg/utils"
)

// FindRouteCommand finds a route from Start to the nearest of the targets
type FindRouteCommand struct {
	// SearchID is generated from Start when empty
	SearchID string
	Start    string

	// Targets are explicit target systems
	Targets []string

	// RefuelTargets adds refuel candidates near Start as targets
	RefuelTargets bool
	StationTypes  []string

	// Improve re-runs the search for strictly shorter routes
	Improve   bool
	Token     *routing.CancellationToken
	Listeners []routing.ImprovementListener
}

// FindRouteResponse is the final outcome with its distance breakdown
type FindRouteResponse struct {
	Outcome *search.Outcome

	// Targets are the refuel candidates that were added, nearest first
	Targets []search.TargetCandidate

	// Plan is nil when the route is empty
	Plan *routing.RoutePlan
}

// FindRouteHandler handles the FindRoute command
type FindRouteHandler struct {
	optimizer *search.Optimizer
	discovery *search.TargetDiscovery
	history   *search.HistoryRecorder
	lookup    routing.CoordinateLookup
}

// NewFindRouteHandler creates a new FindRouteHandler. history may be nil.
func NewFindRouteHandler(
	optimizer *search.Optimizer,
	discovery *search.TargetDiscovery,
	history *search.HistoryRecorder,
	lookup routing.CoordinateLookup,
) *FindRouteHandler {
	return &FindRouteHandler{
		optimizer: optimizer,
		discovery: discovery,
		history:   history,
		lookup:    lookup,
	}
}

// Handle executes the FindRoute command
func (h *FindRouteHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*FindRouteCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *FindRouteCommand")
	}

	start := shared.NormalizeSystemName(cmd.Start)
	if err := shared.ValidateSystemName("start", start); err != nil {
		return nil, err
	}
	if len(cmd.Targets) == 0 && !cmd.RefuelTargets {
		return nil, shared.NewNoTargetsSuppliedError()
	}

	searchID := cmd.SearchID
	if searchID == "" {
		searchID = utils.GenerateSearchID(start)
	}
	logger := logging.LoggerFromContext(ctx)

	var discovered []search.TargetCandidate
	names := make([]string, 0, len(cmd.Targets))
	if cmd.RefuelTargets {
		var err error
		discovered, err = h.discovery.Discover(ctx, start, system.StationTypeIn(cmd.StationTypes...))
		if err != nil {
			return nil, fmt.Errorf("failed to discover refuel targets: %w", err)
		}
		logger.Log("INFO", "refuel targets discovered", map[string]interface{}{
			"search_id": searchID,
			"start":     start,
			"count":     len(discovered),
		})
		names = append(names, search.Names(discovered)...)
	}
	names = append(names, cmd.Targets...)

	targets, err := routing.NewTargetSet(names)
	if err != nil {
		return nil, err
	}

	listeners := cmd.Listeners
	if h.history != nil {
		listeners = append([]routing.ImprovementListener{h.history.Listener(ctx, start, targets.Names())}, listeners...)
	}

	token := cmd.Token
	if token == nil {
		token = routing.NewCancellationToken()
	}

	outcome, err := h.optimizer.Run(ctx, search.SearchRequest{
		SearchID: searchID,
		Start:    start,
		Targets:  targets,
	}, token, search.RunOptions{
		Improve:   cmd.Improve,
		Listeners: listeners,
	})
	if err != nil {
		return nil, err
	}

	if outcome.Status != routing.SearchStatusFound {
		h.history.Record(ctx, searchID, start, targets.Names(), outcome.Route, outcome.Status, outcome.Attempts)
	}

	response := &FindRouteResponse{
		Outcome: outcome,
		Targets: discovered,
	}
	if !outcome.Route.IsEmpty() {
		plan, err := routing.BuildRoutePlan(ctx, outcome.Route, h.lookup)
		if err != nil {
			logger.Log("WARNING", "failed to build route plan", map[string]interface{}{
				"search_id": searchID,
				"error":     err.Error(),
			})
		} else {
			response.Plan = plan
		}
	}

	return response, nil
}
