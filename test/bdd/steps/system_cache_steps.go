package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

type systemCacheContext struct {
	caches     *graph.CacheContext
	coordinate shared.Coordinate
	neighbors  []system.Neighbor
	err        error
}

func (sc *systemCacheContext) reset() {
	sc.caches = nil
	sc.coordinate = shared.Coordinate{}
	sc.neighbors = nil
	sc.err = nil
}

func (sc *systemCacheContext) cacheContext() *graph.CacheContext {
	if sc.caches == nil {
		sc.caches = graph.NewCacheContext(world.directory, graph.CacheOptions{})
	}
	return sc.caches
}

// When steps

func (sc *systemCacheContext) iLookUpTheCoordinatesOfTimes(name string, times int) error {
	for i := 0; i < times; i++ {
		sc.coordinate, sc.err = sc.cacheContext().Coordinates.GetCoordinate(context.Background(), name)
	}
	return nil
}

func (sc *systemCacheContext) iLookUpTheCoordinatesOf(name string) error {
	return sc.iLookUpTheCoordinatesOfTimes(name, 1)
}

func (sc *systemCacheContext) iAskForTheNeighborsOfTimes(name string, times int) error {
	for i := 0; i < times; i++ {
		sc.neighbors, sc.err = sc.cacheContext().Adjacency.GetNeighbors(context.Background(), name)
	}
	return nil
}

func (sc *systemCacheContext) iAskForTheNeighborsOf(name string) error {
	return sc.iAskForTheNeighborsOfTimes(name, 1)
}

// Then steps

func (sc *systemCacheContext) theDirectoryShouldHaveBeenAskedForTheCoordinatesOfTimes(name string, times int) error {
	if got := world.directory.CoordinateCalls(name); got != times {
		return fmt.Errorf("expected %d coordinate requests for %s, got %d", times, name, got)
	}
	return nil
}

func (sc *systemCacheContext) theDirectoryShouldHaveBeenAskedForTheNeighborsOfTimes(name string, times int) error {
	if got := world.directory.NearbyCalls(name); got != times {
		return fmt.Errorf("expected %d nearby requests for %s, got %d", times, name, got)
	}
	return nil
}

func (sc *systemCacheContext) theCoordinatesShouldBe(x, y, z float64) error {
	if sc.err != nil {
		return fmt.Errorf("lookup failed: %w", sc.err)
	}
	want := shared.NewCoordinate(x, y, z)
	if sc.coordinate != want {
		return fmt.Errorf("expected %+v, got %+v", want, sc.coordinate)
	}
	return nil
}

func (sc *systemCacheContext) theLookupShouldFailAsUnresolvable() error {
	if !shared.IsUnresolvable(sc.err) {
		return fmt.Errorf("expected an unresolvable system error, got %v", sc.err)
	}
	return nil
}

func (sc *systemCacheContext) theNeighborsShouldBe(list string) error {
	if sc.err != nil {
		return fmt.Errorf("neighbor lookup failed: %w", sc.err)
	}
	want := splitNames(list)
	got := make([]string, 0, len(sc.neighbors))
	for _, n := range sc.neighbors {
		got = append(got, n.Name)
	}
	if !equalNames(want, got) {
		return fmt.Errorf("expected neighbors %v, got %v", want, got)
	}
	return nil
}

func (sc *systemCacheContext) thereShouldBeNoNeighbors() error {
	if sc.err != nil {
		return fmt.Errorf("neighbor lookup failed: %w", sc.err)
	}
	if len(sc.neighbors) != 0 {
		return fmt.Errorf("expected no neighbors, got %d", len(sc.neighbors))
	}
	return nil
}

func (sc *systemCacheContext) everyNeighborDistanceShouldMatchItsCoordinates(origin string) error {
	from, ok := sc.cacheContext().Coordinates.Peek(origin)
	if !ok {
		return fmt.Errorf("%s is not cached", origin)
	}
	for _, n := range sc.neighbors {
		to, ok := sc.caches.Coordinates.Peek(n.Name)
		if !ok {
			return fmt.Errorf("neighbor %s is not cached", n.Name)
		}
		if math.Abs(from.DistanceTo(to)-n.Distance) > 1e-9 {
			return fmt.Errorf("neighbor %s has distance %.6f, coordinates give %.6f", n.Name, n.Distance, from.DistanceTo(to))
		}
	}
	return nil
}

func (sc *systemCacheContext) systemsShouldBeKnown(n int) error {
	if got := sc.cacheContext().Stats().KnownSystems; got != n {
		return fmt.Errorf("expected %d known systems, got %d", n, got)
	}
	return nil
}

func InitializeSystemCacheScenario(ctx *godog.ScenarioContext) {
	sc := &systemCacheContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	// When steps
	ctx.Step(`^I look up the coordinates of "([^"]*)" (\d+) times$`, sc.iLookUpTheCoordinatesOfTimes)
	ctx.Step(`^I look up the coordinates of "([^"]*)"$`, sc.iLookUpTheCoordinatesOf)
	ctx.Step(`^I ask for the neighbors of "([^"]*)" (\d+) times$`, sc.iAskForTheNeighborsOfTimes)
	ctx.Step(`^I ask for the neighbors of "([^"]*)"$`, sc.iAskForTheNeighborsOf)

	// Then steps
	ctx.Step(`^the directory should have been asked for the coordinates of "([^"]*)" (\d+) times?$`, sc.theDirectoryShouldHaveBeenAskedForTheCoordinatesOfTimes)
	ctx.Step(`^the directory should have been asked for the neighbors of "([^"]*)" (\d+) times?$`, sc.theDirectoryShouldHaveBeenAskedForTheNeighborsOfTimes)
	ctx.Step(`^the coordinates should be (-?[0-9.]+), (-?[0-9.]+), (-?[0-9.]+)$`, sc.theCoordinatesShouldBe)
	ctx.Step(`^the lookup should fail as unresolvable$`, sc.theLookupShouldFailAsUnresolvable)
	ctx.Step(`^the neighbors should be "([^"]*)"$`, sc.theNeighborsShouldBe)
	ctx.Step(`^there should be no neighbors$`, sc.thereShouldBeNoNeighbors)
	ctx.Step(`^every neighbor distance should match the coordinates of "([^"]*)"$`, sc.everyNeighborDistanceShouldMatchItsCoordinates)
	ctx.Step(`^(\d+) systems? should be known$`, sc.systemsShouldBeKnown)
}
