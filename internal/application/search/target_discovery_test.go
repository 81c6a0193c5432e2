package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/domain/system"
	"github.com/crow-router/crow/test/helpers"
)

func refuelDirectory() *helpers.MockDirectoryClient {
	directory := helpers.NewMockDirectoryClient().
		AddSystem("Sol", 0, 0, 0).
		AddSystem("Wolf 359", 8, 0, 0).
		AddSystem("Near", 3, 0, 0).
		AddSystem("Far", 20, 0, 0)
	directory.SetCandidates("Sol", []system.CandidateRecord{
		{SystemName: "Wolf 359", StationName: "Sanger Hub", StationType: "Coriolis"},
		{SystemName: "Near", StationName: "Dock", StationType: "Outpost"},
		{SystemName: "Wolf 359", StationName: "Second", StationType: "Outpost"},
		{SystemName: "Ghost", StationName: "Nowhere", StationType: "Coriolis"},
		{SystemName: "Far", StationName: "Carrier", StationType: "FleetCarrier"},
	})
	return directory
}

func TestTargetDiscovery_FiltersSortsAndDropsUnresolvable(t *testing.T) {
	// Arrange
	directory := refuelDirectory()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	discovery := search.NewTargetDiscovery(directory, caches.Coordinates)

	// Act
	candidates, err := discovery.Discover(context.Background(), "Sol", system.StationTypeIn("Coriolis", "Outpost"))

	// Assert
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Near", candidates[0].Name)
	assert.Equal(t, 3.0, candidates[0].Distance)
	assert.Equal(t, "Wolf 359", candidates[1].Name)
	assert.Equal(t, "Sanger Hub", candidates[1].StationName)
	assert.Equal(t, "Coriolis", candidates[1].StationType)
	assert.Equal(t, []string{"Near", "Wolf 359"}, search.Names(candidates))
}

func TestTargetDiscovery_MemoizesPerStart(t *testing.T) {
	directory := refuelDirectory()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	discovery := search.NewTargetDiscovery(directory, caches.Coordinates)
	ctx := context.Background()

	all, err := discovery.Discover(ctx, "Sol", nil)
	require.NoError(t, err)
	carriers, err := discovery.Discover(ctx, "Sol", system.StationTypeIn("FleetCarrier"))
	require.NoError(t, err)

	assert.Len(t, all, 3)
	require.Len(t, carriers, 1)
	assert.Equal(t, "Far", carriers[0].Name)
	assert.Equal(t, 1, directory.RefuelCalls("Sol"))
}

func TestTargetDiscovery_UnknownStartFails(t *testing.T) {
	directory := refuelDirectory()
	caches := graph.NewCacheContext(directory, graph.CacheOptions{})
	discovery := search.NewTargetDiscovery(directory, caches.Coordinates)

	_, err := discovery.Discover(context.Background(), "Atlantis", nil)

	assert.Error(t, err)
	assert.Zero(t, directory.RefuelCalls("Atlantis"))
}
