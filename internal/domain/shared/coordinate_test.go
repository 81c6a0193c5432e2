package shared_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crow-router/crow/internal/domain/shared"
)

func TestCoordinate_DistanceSquaredAndDistance(t *testing.T) {
	a := shared.NewCoordinate(0, 0, 0)
	b := shared.NewCoordinate(3, 4, 12)

	assert.Equal(t, 169.0, a.DistanceSquaredTo(b))
	assert.Equal(t, 13.0, a.DistanceTo(b))
	assert.Equal(t, 13.0, shared.Distance(b, a))
	assert.Equal(t, 169.0, shared.DistanceSquared(b, a))
}

func TestCoordinate_DistanceToSelfIsZero(t *testing.T) {
	c := shared.NewCoordinate(-33.65625, 1.28125, -2.40625)

	assert.Zero(t, c.DistanceTo(c))
}

func TestErrors_SkippableKinds(t *testing.T) {
	unresolvable := shared.NewUnresolvableSystemError("Sol", "missing systemZ")
	transient := shared.NewTransientFetchError("Sol", errors.New("connection reset"))
	wrapped := fmt.Errorf("expanding node: %w", transient)

	assert.True(t, shared.IsUnresolvable(unresolvable))
	assert.False(t, shared.IsTransient(unresolvable))
	assert.True(t, shared.IsTransient(wrapped))
	assert.True(t, shared.IsSkippable(wrapped))
	assert.False(t, shared.IsSkippable(shared.NewNoTargetsSuppliedError()))
	assert.Contains(t, unresolvable.Error(), "Sol")
}

func TestValidateSystemName(t *testing.T) {
	assert.NoError(t, shared.ValidateSystemName("start", "Sol"))
	assert.Error(t, shared.ValidateSystemName("start", "   "))
	assert.Equal(t, "Alpha Centauri", shared.NormalizeSystemName("  Alpha Centauri "))
}
