package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
	"github.com/crow-router/crow/test/helpers"
)

// stubGraph serves a fixed adjacency list, independent of geometry
type stubGraph struct {
	coords map[string]shared.Coordinate
	edges  map[string][]string
}

func (g *stubGraph) GetCoordinate(_ context.Context, name string) (shared.Coordinate, error) {
	c, ok := g.coords[name]
	if !ok {
		return shared.Coordinate{}, shared.NewUnresolvableSystemError(name, "not in fixture")
	}
	return c, nil
}

func (g *stubGraph) GetNeighbors(_ context.Context, name string) ([]system.Neighbor, error) {
	origin := g.coords[name]
	out := make([]system.Neighbor, 0, len(g.edges[name]))
	for _, n := range g.edges[name] {
		out = append(out, system.Neighbor{Name: n, Distance: origin.DistanceTo(g.coords[n])})
	}
	return out, nil
}

// detourGraph is laid out so greedy ordering reaches T in four hops via C1 and C2,
// while S-A-B-T is three hops.
func detourGraph() *stubGraph {
	return &stubGraph{
		coords: map[string]shared.Coordinate{
			"S":  shared.NewCoordinate(0, 0, 0),
			"A":  shared.NewCoordinate(10, 20, 0),
			"C1": shared.NewCoordinate(30, 0, 0),
			"C2": shared.NewCoordinate(50, 0, 0),
			"B":  shared.NewCoordinate(60, 0, 0),
			"T":  shared.NewCoordinate(100, 0, 0),
		},
		edges: map[string][]string{
			"S":  {"A", "C1"},
			"A":  {"S", "B"},
			"C1": {"S", "C2"},
			"C2": {"C1", "B"},
			"B":  {"A", "C2", "T"},
			"T":  {"B"},
		},
	}
}

// chainDirectory is a straight line of systems 10 ly apart
func chainDirectory() *helpers.MockDirectoryClient {
	return helpers.NewMockDirectoryClient().
		AddSystem("Sol", 0, 0, 0).
		AddSystem("A", 10, 0, 0).
		AddSystem("B", 20, 0, 0).
		AddSystem("C", 30, 0, 0)
}

func newCacheEngine(directory system.DirectoryClient, monitor *search.Monitor, cfg search.EngineConfig) (*search.Engine, *graph.CacheContext) {
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	return search.NewEngine(caches.Coordinates, caches.Adjacency, monitor, cfg), caches
}

func targets(t *testing.T, names ...string) routing.TargetSet {
	t.Helper()
	set, err := routing.NewTargetSet(names)
	require.NoError(t, err)
	return set
}
