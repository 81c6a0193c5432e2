package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/application/mediator"
	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/application/search/commands"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
)

type routeSearchContext struct {
	caches        *graph.CacheContext
	maxExpansions int
	token         *routing.CancellationToken
	response      *commands.FindRouteResponse
	improvements  []int
	err           error
}

func (rc *routeSearchContext) reset() {
	rc.caches = nil
	rc.maxExpansions = 0
	rc.token = routing.NewCancellationToken()
	rc.response = nil
	rc.improvements = nil
	rc.err = nil
}

// Given steps

func (rc *routeSearchContext) anExplorationBudgetOfExpansions(n int) error {
	rc.maxExpansions = n
	return nil
}

func (rc *routeSearchContext) theOperatorCancelsWhenIsExpanded(name string) error {
	token := rc.token
	world.directory.SetNearbyHook(func(expanded string) {
		if expanded == name {
			token.Cancel()
		}
	})
	return nil
}

// When steps

func (rc *routeSearchContext) search(start string, targets []string, improve bool) error {
	rc.caches = graph.NewCacheContext(world.directory, graph.CacheOptions{})
	monitor := search.NewMonitor()
	engine := search.NewEngine(rc.caches.Coordinates, rc.caches.Adjacency, monitor, search.EngineConfig{
		MaxExpansions: rc.maxExpansions,
	})
	handler := commands.NewFindRouteHandler(
		search.NewOptimizer(engine, monitor, 0),
		search.NewTargetDiscovery(world.directory, rc.caches.Coordinates),
		nil,
		rc.caches.Coordinates,
	)

	m := mediator.NewMediator()
	if err := mediator.RegisterHandler[*commands.FindRouteCommand](m, handler); err != nil {
		return err
	}

	resp, err := m.Send(context.Background(), &commands.FindRouteCommand{
		SearchID: "bdd",
		Start:    start,
		Targets:  targets,
		Improve:  improve,
		Token:    rc.token,
		Listeners: []routing.ImprovementListener{
			routing.ImprovementListenerFunc(func(i routing.Improvement) {
				rc.improvements = append(rc.improvements, i.Hops)
			}),
		},
	})
	rc.err = err
	if err == nil {
		rc.response = resp.(*commands.FindRouteResponse)
	}
	return nil
}

func (rc *routeSearchContext) iSearchForARouteFromTo(start, targets string) error {
	return rc.search(start, splitNames(targets), false)
}

func (rc *routeSearchContext) iSearchForARouteFromToNoTargets(start string) error {
	return rc.search(start, nil, false)
}

func (rc *routeSearchContext) iSearchWithReoptimizationFromTo(start, targets string) error {
	return rc.search(start, splitNames(targets), true)
}

// Then steps

func (rc *routeSearchContext) outcome() (*search.Outcome, error) {
	if rc.err != nil {
		return nil, fmt.Errorf("search failed: %w", rc.err)
	}
	if rc.response == nil {
		return nil, fmt.Errorf("no search was run")
	}
	return rc.response.Outcome, nil
}

func (rc *routeSearchContext) theSearchStatusShouldBe(expected string) error {
	o, err := rc.outcome()
	if err != nil {
		return err
	}
	if string(o.Status) != expected {
		return fmt.Errorf("expected status %s, got %s", expected, o.Status)
	}
	return nil
}

func (rc *routeSearchContext) theRouteShouldBe(expected string) error {
	o, err := rc.outcome()
	if err != nil {
		return err
	}
	if want := splitRoute(expected); !equalNames(want, o.Route.Path) {
		return fmt.Errorf("expected route %v, got %v", want, o.Route.Path)
	}
	return nil
}

func (rc *routeSearchContext) theRouteShouldHaveJumps(hops int) error {
	o, err := rc.outcome()
	if err != nil {
		return err
	}
	if o.Route.Hops() != hops {
		return fmt.Errorf("expected %d jumps, got %d (%v)", hops, o.Route.Hops(), o.Route.Path)
	}
	return nil
}

func (rc *routeSearchContext) theSearchShouldBeRejectedBecauseNoTargetsWereSupplied() error {
	var noTargets *shared.NoTargetsSuppliedError
	if !errors.As(rc.err, &noTargets) {
		return fmt.Errorf("expected NoTargetsSupplied, got %v", rc.err)
	}
	return nil
}

func (rc *routeSearchContext) noDirectoryRequestShouldHaveBeenMade() error {
	if n := world.directory.TotalCalls(); n != 0 {
		return fmt.Errorf("expected no directory requests, got %d", n)
	}
	return nil
}

func (rc *routeSearchContext) everyJumpOfTheRouteShouldBeWithin(limit float64) error {
	o, err := rc.outcome()
	if err != nil {
		return err
	}
	path := o.Route.Path
	for i := 1; i < len(path); i++ {
		from, ok := rc.caches.Coordinates.Peek(path[i-1])
		if !ok {
			return fmt.Errorf("%s is not cached", path[i-1])
		}
		to, ok := rc.caches.Coordinates.Peek(path[i])
		if !ok {
			return fmt.Errorf("%s is not cached", path[i])
		}
		if d := from.DistanceTo(to); d > limit {
			return fmt.Errorf("jump %s -> %s is %.4f ly", path[i-1], path[i], d)
		}
	}
	return nil
}

func (rc *routeSearchContext) improvementsShouldHaveBeenPublishedWithJumps(list string) error {
	var want []int
	for _, s := range splitNames(list) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		want = append(want, n)
	}
	if len(want) != len(rc.improvements) {
		return fmt.Errorf("expected improvements %v, got %v", want, rc.improvements)
	}
	for i := range want {
		if want[i] != rc.improvements[i] {
			return fmt.Errorf("expected improvements %v, got %v", want, rc.improvements)
		}
	}
	return nil
}

func (rc *routeSearchContext) theSearchShouldHaveMadeAttempts(n int) error {
	o, err := rc.outcome()
	if err != nil {
		return err
	}
	if o.Attempts != n {
		return fmt.Errorf("expected %d attempts, got %d", n, o.Attempts)
	}
	return nil
}

func InitializeRouteSearchScenario(ctx *godog.ScenarioContext) {
	rc := &routeSearchContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		world.reset()
		rc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a star map with systems:$`, world.aStarMapWithSystems)
	ctx.Step(`^the directory answers nearby queries with ([0-9.]+) ly of slack$`, world.theDirectoryAnswersNearbyQueriesWithSlack)
	ctx.Step(`^"([^"]*)" is listed without coordinates$`, world.systemIsListedWithoutCoordinates)
	ctx.Step(`^an exploration budget of (\d+) expansions?$`, rc.anExplorationBudgetOfExpansions)
	ctx.Step(`^the operator cancels when "([^"]*)" is expanded$`, rc.theOperatorCancelsWhenIsExpanded)

	// When steps
	ctx.Step(`^I search for a route from "([^"]*)" to "([^"]*)"$`, rc.iSearchForARouteFromTo)
	ctx.Step(`^I search for a route from "([^"]*)" without targets$`, rc.iSearchForARouteFromToNoTargets)
	ctx.Step(`^I search with re-optimization from "([^"]*)" to "([^"]*)"$`, rc.iSearchWithReoptimizationFromTo)

	// Then steps
	ctx.Step(`^the search status should be "([^"]*)"$`, rc.theSearchStatusShouldBe)
	ctx.Step(`^the route should be "([^"]*)"$`, rc.theRouteShouldBe)
	ctx.Step(`^the route should have (\d+) jumps?$`, rc.theRouteShouldHaveJumps)
	ctx.Step(`^the search should be rejected because no targets were supplied$`, rc.theSearchShouldBeRejectedBecauseNoTargetsWereSupplied)
	ctx.Step(`^no directory request should have been made$`, rc.noDirectoryRequestShouldHaveBeenMade)
	ctx.Step(`^every jump of the route should be within ([0-9.]+) ly$`, rc.everyJumpOfTheRouteShouldBeWithin)
	ctx.Step(`^improvements should have been published with jumps "([^"]*)"$`, rc.improvementsShouldHaveBeenPublishedWithJumps)
	ctx.Step(`^the search should have made (\d+) attempts?$`, rc.theSearchShouldHaveMadeAttempts)
}
