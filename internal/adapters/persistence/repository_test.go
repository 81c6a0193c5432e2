package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crow-router/crow/internal/adapters/persistence"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
	"github.com/crow-router/crow/test/helpers"
)

func TestCoordinateRepository_SaveBatchAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormCoordinateRepository(db)
	ctx := context.Background()

	// Act
	err := repo.SaveBatch(ctx, map[string]shared.Coordinate{
		"Sol":            shared.NewCoordinate(0, 0, 0),
		"Alpha Centauri": shared.NewCoordinate(3.03125, -0.09375, 3.15625),
	})

	// Assert
	require.NoError(t, err)

	found, err := repo.FindByName(ctx, "Alpha Centauri")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, shared.NewCoordinate(3.03125, -0.09375, 3.15625), *found)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCoordinateRepository_MissReturnsNil(t *testing.T) {
	repo := persistence.NewGormCoordinateRepository(helpers.NewTestDB(t))

	found, err := repo.FindByName(context.Background(), "Nowhere")

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCoordinateRepository_FirstValueWins(t *testing.T) {
	repo := persistence.NewGormCoordinateRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "Sol", shared.NewCoordinate(0, 0, 0)))
	require.NoError(t, repo.Save(ctx, "Sol", shared.NewCoordinate(9, 9, 9)))

	found, err := repo.FindByName(ctx, "Sol")
	require.NoError(t, err)
	assert.Equal(t, shared.NewCoordinate(0, 0, 0), *found)
}

func TestAdjacencyRepository_DistinguishesMissFromEmpty(t *testing.T) {
	// Arrange
	repo := persistence.NewGormAdjacencyRepository(helpers.NewTestDB(t))
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Save(ctx, "Isolated", []system.Neighbor{}))
	require.NoError(t, repo.Save(ctx, "Sol", []system.Neighbor{
		{Name: "Alpha Centauri", Distance: 4.38},
		{Name: "Barnard's Star", Distance: 5.95},
	}))

	// Assert
	miss, err := repo.FindByName(ctx, "Unknown")
	require.NoError(t, err)
	assert.Nil(t, miss)

	empty, err := repo.FindByName(ctx, "Isolated")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	sol, err := repo.FindByName(ctx, "Sol")
	require.NoError(t, err)
	assert.Equal(t, []system.Neighbor{
		{Name: "Alpha Centauri", Distance: 4.38},
		{Name: "Barnard's Star", Distance: 5.95},
	}, sol)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAdjacencyRepository_FirstListWins(t *testing.T) {
	// Arrange
	repo := persistence.NewGormAdjacencyRepository(helpers.NewTestDB(t))
	ctx := context.Background()
	first := []system.Neighbor{{Name: "Alpha Centauri", Distance: 4.38}}

	// Act
	require.NoError(t, repo.Save(ctx, "Sol", first))
	require.NoError(t, repo.Save(ctx, "Sol", []system.Neighbor{{Name: "Sirius", Distance: 8.6}}))

	// Assert
	stored, err := repo.FindByName(ctx, "Sol")
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestRouteRepository_AddAndList(t *testing.T) {
	// Arrange
	repo := persistence.NewGormRouteRepository(helpers.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(3310, 3, 1, 12, 0, 0, 0, time.UTC)

	first := &routing.RouteRecord{
		SearchID:  "search-1",
		Start:     "Sol",
		Targets:   []string{"Wolf 359", "Sirius"},
		Route:     routing.NewRoute([]string{"Sol", "A", "B", "Wolf 359"}),
		Hops:      3,
		Status:    routing.SearchStatusFound,
		Attempt:   1,
		CreatedAt: base,
	}
	second := &routing.RouteRecord{
		SearchID:      "search-1",
		Start:         "Sol",
		Targets:       []string{"Wolf 359", "Sirius"},
		Route:         routing.NewRoute([]string{"Sol", "A", "Wolf 359"}),
		Hops:          2,
		TotalDistance: 7.8,
		Status:        routing.SearchStatusFound,
		Attempt:       2,
		CreatedAt:     base.Add(time.Second),
	}
	other := &routing.RouteRecord{
		SearchID:  "search-2",
		Start:     "Sol",
		Route:     routing.NewRoute([]string{"Sol"}),
		Status:    routing.SearchStatusFound,
		Attempt:   1,
		CreatedAt: base.Add(2 * time.Second),
	}

	// Act
	for _, r := range []*routing.RouteRecord{first, second, other} {
		require.NoError(t, repo.Add(ctx, r))
	}

	// Assert
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	bySearch, err := repo.ListBySearch(ctx, "search-1")
	require.NoError(t, err)
	require.Len(t, bySearch, 2)
	assert.Equal(t, 1, bySearch[0].Attempt)
	assert.Equal(t, []string{"Sol", "A", "Wolf 359"}, bySearch[1].Route.Path)
	assert.Equal(t, []string{"Wolf 359", "Sirius"}, bySearch[1].Targets)
	assert.Equal(t, 7.8, bySearch[1].TotalDistance)
	assert.Equal(t, routing.SearchStatusFound, bySearch[1].Status)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "search-2", recent[0].SearchID)
	assert.Equal(t, 2, recent[1].Attempt)
}
