package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/adapters/persistence"
	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/test/helpers"
)

func TestHistoryRecorder_ListenerStoresImprovements(t *testing.T) {
	// Arrange
	repo := persistence.NewGormRouteRepository(helpers.NewTestDB(t))
	caches := graph.NewCacheContext(chainDirectory(), graph.CacheOptions{})
	clock := shared.NewMockClock(time.Date(3310, 5, 1, 12, 0, 0, 0, time.UTC))
	recorder := search.NewHistoryRecorder(repo, caches.Coordinates, clock)
	ctx := context.Background()

	// Act
	listener := recorder.Listener(ctx, "Sol", []string{"C"})
	listener.OnImprovement(routing.Improvement{
		SearchID: "sol-00000001",
		Attempt:  1,
		Route:    routing.NewRoute([]string{"Sol", "A", "B", "C"}),
		Hops:     3,
	})

	// Assert
	records, err := repo.ListBySearch(ctx, "sol-00000001")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, routing.SearchStatusFound, records[0].Status)
	assert.Equal(t, 3, records[0].Hops)
	assert.Equal(t, 30.0, records[0].TotalDistance)
	assert.Equal(t, []string{"C"}, records[0].Targets)
}

func TestHistoryRecorder_NilRepositoryRecordsNothing(t *testing.T) {
	recorder := search.NewHistoryRecorder(nil, nil, nil)

	assert.Nil(t, recorder)
	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), "id", "Sol", nil, routing.Route{}, routing.SearchStatusExhausted, 1)
	})
}
