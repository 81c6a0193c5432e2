package routing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
)

func TestRoute_HopsAndComparison(t *testing.T) {
	single := routing.NewRoute([]string{"Sol"})
	three := routing.NewRoute([]string{"Sol", "A", "B"})
	empty := routing.Route{}

	assert.Equal(t, 0, single.Hops())
	assert.Equal(t, 2, three.Hops())
	assert.Equal(t, 0, empty.Hops())
	assert.True(t, single.ShorterThan(three))
	assert.False(t, three.ShorterThan(three))
	assert.False(t, empty.ShorterThan(three))
	assert.True(t, three.ShorterThan(empty))
	assert.Equal(t, "Sol", three.Start())
	assert.Equal(t, "B", three.End())
}

func TestRoute_ExtendDoesNotAlias(t *testing.T) {
	base := routing.NewRoute([]string{"Sol", "A"})

	left := base.Extend("B")
	right := base.Extend("C")

	assert.Equal(t, []string{"Sol", "A", "B"}, left.Path)
	assert.Equal(t, []string{"Sol", "A", "C"}, right.Path)
	assert.Equal(t, []string{"Sol", "A"}, base.Path)
}

type mapLookup map[string]shared.Coordinate

func (m mapLookup) GetCoordinate(_ context.Context, name string) (shared.Coordinate, error) {
	c, ok := m[name]
	if !ok {
		return shared.Coordinate{}, shared.NewUnresolvableSystemError(name, "unknown")
	}
	return c, nil
}

func TestBuildRoutePlan_ComputesLegDistances(t *testing.T) {
	lookup := mapLookup{
		"Sol": shared.NewCoordinate(0, 0, 0),
		"A":   shared.NewCoordinate(3, 4, 0),
		"B":   shared.NewCoordinate(3, 4, 10),
	}

	plan, err := routing.BuildRoutePlan(context.Background(), routing.NewRoute([]string{"Sol", "A", "B"}), lookup)

	require.NoError(t, err)
	require.Len(t, plan.Legs, 3)
	assert.Zero(t, plan.Legs[0].DistanceFromPrev)
	assert.Equal(t, 5.0, plan.Legs[1].DistanceFromPrev)
	assert.Equal(t, 10.0, plan.Legs[2].DistanceFromPrev)
	assert.Equal(t, 15.0, plan.TotalDistance)
	assert.Len(t, plan.Segments(), 2)
}

func TestBuildRoutePlan_FailsOnUnknownSystem(t *testing.T) {
	_, err := routing.BuildRoutePlan(context.Background(), routing.NewRoute([]string{"Sol", "X"}), mapLookup{"Sol": {}})

	assert.True(t, shared.IsUnresolvable(err))
}

func TestNewTargetSet(t *testing.T) {
	set, err := routing.NewTargetSet([]string{" Sol ", "Wolf 359", "Sol"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Sol", "Wolf 359"}, set.Names())
	assert.True(t, set.Contains("Sol"))
	assert.False(t, set.Contains("sol"))
	assert.Equal(t, 2, set.Len())
}

func TestNewTargetSet_EmptyIsNoTargetsSupplied(t *testing.T) {
	_, err := routing.NewTargetSet(nil)

	var noTargets *shared.NoTargetsSuppliedError
	assert.True(t, errors.As(err, &noTargets))
}

func TestNewTargetSet_BlankNameIsValidationError(t *testing.T) {
	_, err := routing.NewTargetSet([]string{"Sol", "  "})

	var validation *shared.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestSearchStateMachine_Transitions(t *testing.T) {
	clock := shared.NewMockClock(time.Date(3310, 1, 1, 0, 0, 0, 0, time.UTC))
	sm := routing.NewSearchStateMachine(clock)

	assert.Equal(t, routing.SearchStatusReady, sm.Status())
	assert.Error(t, sm.Found())

	require.NoError(t, sm.Start())
	clock.Advance(3 * time.Second)
	require.NoError(t, sm.Cancel())

	assert.Equal(t, routing.SearchStatusCancelled, sm.Status())
	assert.True(t, sm.Status().IsTerminal())
	assert.Equal(t, 3*time.Second, sm.RuntimeDuration())
	assert.Error(t, sm.Exhaust())
	assert.Error(t, sm.Start())
}

func TestCancellationToken_IdempotentCancel(t *testing.T) {
	token := routing.NewCancellationToken()
	assert.False(t, token.IsCancelled())

	token.Cancel()
	token.Cancel()

	assert.True(t, token.IsCancelled())
	select {
	case <-token.Done():
	default:
		t.Fatal("done channel should be closed after cancel")
	}

	var nilToken *routing.CancellationToken
	assert.False(t, nilToken.IsCancelled())
}

func TestCancellationToken_ZeroValueIsUsable(t *testing.T) {
	var token routing.CancellationToken
	done := token.Done()

	assert.NotPanics(t, token.Cancel)

	assert.True(t, token.IsCancelled())
	select {
	case <-done:
	default:
		t.Fatal("done channel obtained before cancel should be closed")
	}
}
