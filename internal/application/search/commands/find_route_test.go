package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/adapters/persistence"
	"github.com/crow-router/crow/internal/application/mediator"
	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/application/search/commands"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
	"github.com/crow-router/crow/test/helpers"
)

type fixture struct {
	directory *helpers.MockDirectoryClient
	repo      *persistence.GormRouteRepository
	mediator  mediator.Mediator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	directory := helpers.NewMockDirectoryClient().
		AddSystem("Sol", 0, 0, 0).
		AddSystem("A", 10, 0, 0).
		AddSystem("B", 20, 0, 0).
		AddSystem("C", 30, 0, 0).
		AddSystem("Island", 100, 0, 0)
	directory.SetCandidates("Sol", []system.CandidateRecord{
		{SystemName: "B", StationName: "Hub", StationType: "Coriolis"},
		{SystemName: "Island", StationName: "Rock", StationType: "Outpost"},
	})

	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	monitor := search.NewMonitor()
	engine := search.NewEngine(caches.Coordinates, caches.Adjacency, monitor, search.EngineConfig{})
	repo := persistence.NewGormRouteRepository(helpers.NewTestDB(t))

	handler := commands.NewFindRouteHandler(
		search.NewOptimizer(engine, monitor, 0),
		search.NewTargetDiscovery(directory, caches.Coordinates),
		search.NewHistoryRecorder(repo, caches.Coordinates, nil),
		caches.Coordinates,
	)

	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*commands.FindRouteCommand](m, handler))

	return &fixture{directory: directory, repo: repo, mediator: m}
}

func (f *fixture) send(t *testing.T, cmd *commands.FindRouteCommand) (*commands.FindRouteResponse, error) {
	t.Helper()
	resp, err := f.mediator.Send(context.Background(), cmd)
	if err != nil {
		return nil, err
	}
	out, ok := resp.(*commands.FindRouteResponse)
	require.True(t, ok)
	return out, nil
}

func TestFindRoute_NoTargetsFailsBeforeAnyLookup(t *testing.T) {
	f := newFixture(t)

	_, err := f.send(t, &commands.FindRouteCommand{Start: "Sol"})

	var noTargets *shared.NoTargetsSuppliedError
	assert.True(t, errors.As(err, &noTargets))
	assert.Zero(t, f.directory.TotalCalls())
}

func TestFindRoute_ExplicitTargetBuildsPlan(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	resp, err := f.send(t, &commands.FindRouteCommand{
		Start:   "Sol",
		Targets: []string{"C"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusFound, resp.Outcome.Status)
	assert.Equal(t, []string{"Sol", "A", "B", "C"}, resp.Outcome.Route.Path)
	assert.True(t, strings.HasPrefix(resp.Outcome.SearchID, "sol-"))
	require.NotNil(t, resp.Plan)
	assert.Equal(t, 30.0, resp.Plan.TotalDistance)
	assert.Len(t, resp.Plan.Legs, 4)
	assert.Empty(t, resp.Targets)

	records, err := f.repo.ListBySearch(context.Background(), resp.Outcome.SearchID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, routing.SearchStatusFound, records[0].Status)
}

func TestFindRoute_RefuelTargetsAreAddedFirst(t *testing.T) {
	f := newFixture(t)

	resp, err := f.send(t, &commands.FindRouteCommand{
		SearchID:      "refuel",
		Start:         "Sol",
		Targets:       []string{"C"},
		RefuelTargets: true,
		StationTypes:  []string{"Coriolis"},
	})

	require.NoError(t, err)
	require.Len(t, resp.Targets, 1)
	assert.Equal(t, "B", resp.Targets[0].Name)
	assert.Equal(t, []string{"Sol", "A", "B"}, resp.Outcome.Route.Path)
	assert.Equal(t, "refuel", resp.Outcome.SearchID)
}

func TestFindRoute_UnreachableTargetRecordsExhausted(t *testing.T) {
	f := newFixture(t)

	resp, err := f.send(t, &commands.FindRouteCommand{
		SearchID: "lost",
		Start:    "Sol",
		Targets:  []string{"Island"},
		Improve:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, routing.SearchStatusExhausted, resp.Outcome.Status)
	assert.Nil(t, resp.Plan)

	records, err := f.repo.ListBySearch(context.Background(), "lost")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, routing.SearchStatusExhausted, records[0].Status)
	assert.Empty(t, records[0].Route.Path)
}

func TestFindRoute_ListenersSeeEveryImprovement(t *testing.T) {
	f := newFixture(t)
	var published []int

	_, err := f.send(t, &commands.FindRouteCommand{
		Start:   "Sol",
		Targets: []string{"C"},
		Improve: true,
		Listeners: []routing.ImprovementListener{
			routing.ImprovementListenerFunc(func(i routing.Improvement) {
				published = append(published, i.Hops)
			}),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []int{3}, published)
}
