package search_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/test/helpers"
)

func TestEngine_StartIsTarget(t *testing.T) {
	engine, _ := newCacheEngine(chainDirectory(), nil, search.EngineConfig{})

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "Sol",
		Targets: targets(t, "Sol"),
	}, routing.NewCancellationToken())

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusFound, result.Status)
	assert.Equal(t, []string{"Sol"}, result.Route.Path)
	assert.Equal(t, 0, result.Route.Hops())
	assert.Equal(t, 1, result.Expanded)
}

func TestEngine_FollowsChainToTarget(t *testing.T) {
	// Arrange
	directory := chainDirectory()
	engine, caches := newCacheEngine(directory, nil, search.EngineConfig{})

	// Act
	result, err := engine.Search(context.Background(), search.SearchRequest{
		SearchID: "chain",
		Start:    "Sol",
		Targets:  targets(t, "C"),
		Attempt:  1,
	}, routing.NewCancellationToken())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusFound, result.Status)
	assert.Equal(t, []string{"Sol", "A", "B", "C"}, result.Route.Path)
	assert.Equal(t, 4, result.Expanded)
	assert.Equal(t, "chain", result.SearchID)
	assert.Equal(t, 1, result.Attempt)
	assert.Equal(t, 3, caches.Stats().ExpandedSystems)
}

func TestEngine_JumpRadiusBoundaryIsInclusive(t *testing.T) {
	directory := helpers.NewMockDirectoryClient().
		AddSystem("Sol", 0, 0, 0).
		AddSystem("Edge", 15, 0, 0)
	directory.SetNearbySlack(1)
	engine, _ := newCacheEngine(directory, nil, search.EngineConfig{})

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "Sol",
		Targets: targets(t, "Edge"),
	}, routing.NewCancellationToken())

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusFound, result.Status)
	assert.Equal(t, []string{"Sol", "Edge"}, result.Route.Path)
}

func TestEngine_JustBeyondRadiusIsUnreachable(t *testing.T) {
	directory := helpers.NewMockDirectoryClient().
		AddSystem("Sol", 0, 0, 0).
		AddSystem("Beyond", 15.0001, 0, 0)
	directory.SetNearbySlack(1)
	engine, _ := newCacheEngine(directory, nil, search.EngineConfig{})

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "Sol",
		Targets: targets(t, "Beyond"),
	}, routing.NewCancellationToken())

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusExhausted, result.Status)
	assert.True(t, result.Route.IsEmpty())
}

func TestEngine_ExpansionBudgetExhausts(t *testing.T) {
	engine, _ := newCacheEngine(chainDirectory(), nil, search.EngineConfig{MaxExpansions: 2})

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "Sol",
		Targets: targets(t, "C"),
	}, routing.NewCancellationToken())

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusExhausted, result.Status)
	assert.Equal(t, 2, result.Expanded)
	assert.True(t, result.Route.IsEmpty())
}

func TestEngine_CancelledBeforeFirstExpansion(t *testing.T) {
	directory := chainDirectory()
	engine, _ := newCacheEngine(directory, nil, search.EngineConfig{})
	token := routing.NewCancellationToken()
	token.Cancel()

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "Sol",
		Targets: targets(t, "C"),
	}, token)

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusCancelled, result.Status)
	assert.True(t, result.Route.IsEmpty())
	assert.Zero(t, result.Expanded)
	assert.Zero(t, directory.NearbyCalls("Sol"))
}

func TestEngine_CancelMidSearchReturnsClosestPrefix(t *testing.T) {
	// Arrange
	directory := chainDirectory()
	token := routing.NewCancellationToken()
	directory.SetNearbyHook(func(name string) {
		if name == "A" {
			token.Cancel()
		}
	})
	engine, _ := newCacheEngine(directory, nil, search.EngineConfig{})

	// Act
	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "Sol",
		Targets: targets(t, "C"),
	}, token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusCancelled, result.Status)
	assert.Equal(t, []string{"Sol", "A"}, result.Route.Path)
	assert.LessOrEqual(t, result.Route.Len(), result.Expanded)
	assert.Zero(t, directory.NearbyCalls("B"))
}

func TestEngine_ContextCancellationActsLikeToken(t *testing.T) {
	engine, _ := newCacheEngine(chainDirectory(), nil, search.EngineConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Search(ctx, search.SearchRequest{
		Start:   "Sol",
		Targets: targets(t, "C"),
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusCancelled, result.Status)
}

func TestEngine_UnresolvableTargetsAreSkipped(t *testing.T) {
	engine, _ := newCacheEngine(chainDirectory(), nil, search.EngineConfig{})

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "Sol",
		Targets: targets(t, "Nowhere", "B"),
	}, routing.NewCancellationToken())

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusFound, result.Status)
	assert.Equal(t, []string{"Sol", "A", "B"}, result.Route.Path)
	assert.Equal(t, []string{"Nowhere"}, result.SkippedTargets)
}

func TestEngine_NoResolvableTargetExhaustsImmediately(t *testing.T) {
	directory := chainDirectory()
	engine, _ := newCacheEngine(directory, nil, search.EngineConfig{})

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "Sol",
		Targets: targets(t, "Nowhere"),
	}, routing.NewCancellationToken())

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusExhausted, result.Status)
	assert.Zero(t, result.Expanded)
	assert.Zero(t, directory.NearbyCalls("Sol"))
}

func TestEngine_RejectsMissingInput(t *testing.T) {
	engine, _ := newCacheEngine(chainDirectory(), nil, search.EngineConfig{})

	_, err := engine.Search(context.Background(), search.SearchRequest{Start: "Sol"}, nil)
	var noTargets *shared.NoTargetsSuppliedError
	assert.True(t, errors.As(err, &noTargets))

	_, err = engine.Search(context.Background(), search.SearchRequest{Start: " ", Targets: targets(t, "C")}, nil)
	var validation *shared.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestEngine_GreedyOrderIgnoresPathCost(t *testing.T) {
	g := detourGraph()
	engine := search.NewEngine(g, g, nil, search.EngineConfig{})

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "S",
		Targets: targets(t, "T"),
	}, routing.NewCancellationToken())

	require.NoError(t, err)
	assert.Equal(t, []string{"S", "C1", "C2", "B", "T"}, result.Route.Path)
	assert.Equal(t, 5, result.Expanded)
}

func TestEngine_HopBoundFindsShorterRoute(t *testing.T) {
	g := detourGraph()
	engine := search.NewEngine(g, g, nil, search.EngineConfig{})

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "S",
		Targets: targets(t, "T"),
		MaxHops: 4,
	}, routing.NewCancellationToken())

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusFound, result.Status)
	assert.Equal(t, []string{"S", "A", "B", "T"}, result.Route.Path)
}

func TestEngine_HopBoundExhaustsWhenNothingShorter(t *testing.T) {
	g := detourGraph()
	engine := search.NewEngine(g, g, nil, search.EngineConfig{})

	result, err := engine.Search(context.Background(), search.SearchRequest{
		Start:   "S",
		Targets: targets(t, "T"),
		MaxHops: 3,
	}, routing.NewCancellationToken())

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusExhausted, result.Status)
}

func TestEngine_PublishesLiveStatus(t *testing.T) {
	monitor := search.NewMonitor()
	engine, _ := newCacheEngine(chainDirectory(), monitor, search.EngineConfig{})

	_, hasStatus := monitor.Status()
	assert.False(t, hasStatus)

	result, err := engine.Search(context.Background(), search.SearchRequest{
		SearchID: "live",
		Start:    "Sol",
		Targets:  targets(t, "C"),
		Attempt:  1,
	}, routing.NewCancellationToken())
	require.NoError(t, err)

	status, ok := monitor.Status()
	require.True(t, ok)
	assert.Equal(t, "live", status.SearchID)
	assert.Equal(t, "C", status.Current)
	assert.Equal(t, "C", status.NearestTarget)
	assert.Zero(t, status.Remaining)
	assert.Equal(t, 4, status.PathLength)
	assert.Equal(t, 4, status.Expanded)
	assert.Equal(t, []string{"C"}, status.Targets)
	assert.Equal(t, result.Route.Path, monitor.CurrentPath().Path)
}

func TestFrontier_OrdersByPriorityThenInsertion(t *testing.T) {
	f := search.NewFrontier()
	f.Push(4, routing.NewRoute([]string{"late"}))
	f.Push(1, routing.NewRoute([]string{"first"}))
	f.Push(1, routing.NewRoute([]string{"second"}))

	var order []string
	for f.Len() > 0 {
		path, _, ok := f.Pop()
		require.True(t, ok)
		order = append(order, path.End())
	}

	assert.Equal(t, []string{"first", "second", "late"}, order)
	_, _, ok := f.Pop()
	assert.False(t, ok)
}
