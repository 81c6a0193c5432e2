package system

import "github.com/crow-router/crow/internal/domain/shared"

const (
	// DefaultJumpRadius is the maximum edge length between two systems, in light years
	DefaultJumpRadius = 15.0

	// DefaultTolerance absorbs floating point noise at the jump radius boundary
	DefaultTolerance = 1e-6
)

// Neighbor is a verified edge from an origin system to a system within jump range
type Neighbor struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// JumpRange decides which candidate edges are accepted
type JumpRange struct {
	Radius    float64
	Tolerance float64
}

// DefaultJumpRange returns the 15 ly range with the standard tolerance
func DefaultJumpRange() JumpRange {
	return JumpRange{Radius: DefaultJumpRadius, Tolerance: DefaultTolerance}
}

// Accepts reports whether an exact distance is within range
func (r JumpRange) Accepts(distance float64) bool {
	return distance <= r.Radius+r.Tolerance
}

// Verify computes the exact distance between origin and candidate and checks it against the range
func (r JumpRange) Verify(origin, candidate shared.Coordinate) (float64, bool) {
	d := origin.DistanceTo(candidate)
	return d, r.Accepts(d)
}
