package graph_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/adapters/persistence"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
	"github.com/crow-router/crow/test/helpers"
)

func newLocalMap() *helpers.MockDirectoryClient {
	return helpers.NewMockDirectoryClient().
		AddSystem("Sol", 0, 0, 0).
		AddSystem("Alpha Centauri", 3, 0, 4).
		AddSystem("Edge", 15, 0, 0).
		AddSystem("Beyond", 15.0001, 0, 0.0).
		AddSystem("Far", 40, 0, 0)
}

func TestCoordinateCache_SecondLookupIsLocal(t *testing.T) {
	// Arrange
	directory := newLocalMap()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	ctx := context.Background()

	// Act
	first, err1 := caches.Coordinates.GetCoordinate(ctx, "Alpha Centauri")
	second, err2 := caches.Coordinates.GetCoordinate(ctx, "Alpha Centauri")

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, directory.CoordinateCalls("Alpha Centauri"))
}

func TestCoordinateCache_UnresolvableIsNotCached(t *testing.T) {
	directory := newLocalMap()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})

	_, err := caches.Coordinates.GetCoordinate(context.Background(), "Nowhere")
	assert.True(t, shared.IsUnresolvable(err))

	_, err = caches.Coordinates.GetCoordinate(context.Background(), "Nowhere")
	assert.True(t, shared.IsUnresolvable(err))
	assert.Equal(t, 2, directory.CoordinateCalls("Nowhere"))
	assert.Zero(t, caches.Stats().KnownSystems)
}

func TestCoordinateCache_ConcurrentMissesConverge(t *testing.T) {
	directory := newLocalMap()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})

	var wg sync.WaitGroup
	results := make([]shared.Coordinate, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := caches.Coordinates.GetCoordinate(context.Background(), "Sol")
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range results {
		assert.Equal(t, shared.NewCoordinate(0, 0, 0), c)
	}
	assert.Equal(t, 1, directory.CoordinateCalls("Sol"))
	assert.Equal(t, 1, caches.Stats().KnownSystems)
}

func TestAdjacencyCache_VerifiesRadiusAndSeedsCoordinates(t *testing.T) {
	// Arrange
	directory := newLocalMap()
	directory.SetNearbySlack(1.0)
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	ctx := context.Background()

	// Act
	neighbors, err := caches.Adjacency.GetNeighbors(ctx, "Sol")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []system.Neighbor{
		{Name: "Alpha Centauri", Distance: 5},
		{Name: "Edge", Distance: 15},
	}, neighbors)

	// neighbor positions were learned without a coordinate lookup
	coord, err := caches.Coordinates.GetCoordinate(ctx, "Edge")
	require.NoError(t, err)
	assert.Equal(t, shared.NewCoordinate(15, 0, 0), coord)
	assert.Zero(t, directory.CoordinateCalls("Edge"))

	_, known := caches.Coordinates.Peek("Beyond")
	assert.False(t, known, "rejected candidates are not seeded")
}

func TestAdjacencyCache_AcceptedDistanceMatchesCoordinates(t *testing.T) {
	directory := newLocalMap()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	ctx := context.Background()

	neighbors, err := caches.Adjacency.GetNeighbors(ctx, "Sol")
	require.NoError(t, err)

	origin, _ := caches.Coordinates.GetCoordinate(ctx, "Sol")
	for _, n := range neighbors {
		c, err := caches.Coordinates.GetCoordinate(ctx, n.Name)
		require.NoError(t, err)
		assert.Equal(t, origin.DistanceTo(c), n.Distance)
		assert.LessOrEqual(t, n.Distance, system.DefaultJumpRadius+system.DefaultTolerance)
	}
}

func TestAdjacencyCache_SecondLookupIsLocal(t *testing.T) {
	directory := newLocalMap()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	ctx := context.Background()

	first, err := caches.Adjacency.GetNeighbors(ctx, "Sol")
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := caches.Adjacency.GetNeighbors(ctx, "Sol")
	require.NoError(t, err)

	assert.Equal(t, "Alpha Centauri", second[0].Name)
	assert.Equal(t, 1, directory.NearbyCalls("Sol"))
	assert.Equal(t, 1, caches.Stats().ExpandedSystems)
}

func TestAdjacencyCache_UnresolvableOriginCachesEmpty(t *testing.T) {
	directory := newLocalMap()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	ctx := context.Background()

	neighbors, err := caches.Adjacency.GetNeighbors(ctx, "Nowhere")
	require.NoError(t, err)
	assert.Empty(t, neighbors)

	_, err = caches.Adjacency.GetNeighbors(ctx, "Nowhere")
	require.NoError(t, err)
	assert.Equal(t, 1, directory.CoordinateCalls("Nowhere"))
	assert.Zero(t, directory.NearbyCalls("Nowhere"))
}

func TestAdjacencyCache_TransientFailureIsNotCached(t *testing.T) {
	// Arrange
	directory := newLocalMap()
	directory.SetNearbyError("Sol", shared.NewTransientFetchError("Sol", errors.New("503")))
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	ctx := context.Background()

	// Act
	_, err := caches.Adjacency.GetNeighbors(ctx, "Sol")
	directory.ClearErrors()
	neighbors, retryErr := caches.Adjacency.GetNeighbors(ctx, "Sol")

	// Assert
	assert.True(t, shared.IsTransient(err))
	require.NoError(t, retryErr)
	assert.Len(t, neighbors, 2)
	assert.Equal(t, 2, directory.NearbyCalls("Sol"))
}

func TestAdjacencyCache_SkipsRecordsWithoutCoordinates(t *testing.T) {
	directory := newLocalMap()
	directory.AddIncompleteSystem("Ghost", 1, 1, 1)
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})

	neighbors, err := caches.Adjacency.GetNeighbors(context.Background(), "Sol")

	require.NoError(t, err)
	for _, n := range neighbors {
		assert.NotEqual(t, "Ghost", n.Name)
	}
}

func TestCacheContext_FreshContextsAreIndependent(t *testing.T) {
	directory := newLocalMap()
	a := graph.NewCacheContext(directory, graph.CacheOptions{})
	b := graph.NewCacheContext(directory, graph.CacheOptions{})

	_, err := a.Adjacency.GetNeighbors(context.Background(), "Sol")
	require.NoError(t, err)

	assert.Equal(t, 3, a.Stats().KnownSystems)
	assert.Zero(t, b.Stats().KnownSystems)
}

func TestCacheContext_SnapshotContainsDiscoveredGraph(t *testing.T) {
	directory := newLocalMap()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	_, err := caches.Adjacency.GetNeighbors(context.Background(), "Sol")
	require.NoError(t, err)

	snapshot := caches.Snapshot()

	assert.Equal(t, []string{"Alpha Centauri", "Edge", "Sol"}, snapshot.SystemNames())
	assert.Equal(t, 2, snapshot.EdgeCount())
}

func TestCacheContext_PersistentTierWarmsNewProcess(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	opts := graph.CacheOptions{
		CoordinateRepo: persistence.NewGormCoordinateRepository(db),
		AdjacencyRepo:  persistence.NewGormAdjacencyRepository(db),
	}
	ctx := context.Background()

	warm := newLocalMap()
	_, err := graph.NewCacheContext(warm, opts).Adjacency.GetNeighbors(ctx, "Sol")
	require.NoError(t, err)

	// Act
	cold := newLocalMap()
	restarted := graph.NewCacheContext(cold, opts)
	neighbors, err := restarted.Adjacency.GetNeighbors(ctx, "Sol")
	require.NoError(t, err)
	coord, err := restarted.Coordinates.GetCoordinate(ctx, "Alpha Centauri")
	require.NoError(t, err)

	// Assert
	assert.Len(t, neighbors, 2)
	assert.Equal(t, shared.NewCoordinate(3, 0, 4), coord)
	assert.Zero(t, cold.TotalCalls())
}

func TestAdjacencyCache_CachedPositionWinsOverNearbyRecord(t *testing.T) {
	// Arrange
	directory := helpers.NewMockDirectoryClient().
		AddSystem("Sol", 0, 0, 0).
		AddSystem("Barnard", 10, 0, 0).
		AddSystem("Wolf", 0, 10, 0)
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	ctx := context.Background()
	caches.Coordinates.Seed(ctx, map[string]shared.Coordinate{
		"Barnard": shared.NewCoordinate(40, 0, 0),
		"Wolf":    shared.NewCoordinate(0, 12, 0),
	})

	// Act
	neighbors, err := caches.Adjacency.GetNeighbors(ctx, "Sol")

	// Assert
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "Wolf", neighbors[0].Name)
	assert.Equal(t, 12.0, neighbors[0].Distance)

	origin, _ := caches.Coordinates.Peek("Sol")
	for _, n := range neighbors {
		cached, ok := caches.Coordinates.Peek(n.Name)
		require.True(t, ok)
		assert.Equal(t, origin.DistanceTo(cached), n.Distance)
	}
	barnard, _ := caches.Coordinates.Peek("Barnard")
	assert.Equal(t, shared.NewCoordinate(40, 0, 0), barnard)
}
