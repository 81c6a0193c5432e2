package shared

import (
	"fmt"
	"math"
)

// Coordinate is an immutable position in galactic space, in light years
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewCoordinate creates a coordinate from its three components
func NewCoordinate(x, y, z float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: z}
}

// DistanceSquaredTo returns the squared Euclidean distance to another coordinate.
// The search heuristic works on squared distances to avoid a square root per comparison.
func (c Coordinate) DistanceSquaredTo(other Coordinate) float64 {
	dx := other.X - c.X
	dy := other.Y - c.Y
	dz := other.Z - c.Z
	return dx*dx + dy*dy + dz*dz
}

// DistanceTo returns the Euclidean distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return math.Sqrt(c.DistanceSquaredTo(other))
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.5f, %.5f, %.5f)", c.X, c.Y, c.Z)
}

// DistanceSquared is the free-function form of Coordinate.DistanceSquaredTo
func DistanceSquared(a, b Coordinate) float64 {
	return a.DistanceSquaredTo(b)
}

// Distance is the free-function form of Coordinate.DistanceTo
func Distance(a, b Coordinate) float64 {
	return a.DistanceTo(b)
}
