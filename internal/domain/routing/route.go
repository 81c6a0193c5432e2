package routing

import (
	"context"
	"fmt"
	"strings"

	"github.com/crow-router/crow/internal/domain/shared"
)

// Route is an ordered sequence of system names beginning at the start system.
//
// Invariants:
// - Path[0] is the start system
// - Each consecutive pair is a verified neighbor edge (for a partial route, only the explored prefix exists)
type Route struct {
	Path []string `json:"path"`
}

// NewRoute copies the given path into a new route
func NewRoute(path []string) Route {
	out := make([]string, len(path))
	copy(out, path)
	return Route{Path: out}
}

// IsEmpty reports whether the route has no systems at all
func (r Route) IsEmpty() bool {
	return len(r.Path) == 0
}

// Len returns the number of systems on the route
func (r Route) Len() int {
	return len(r.Path)
}

// Hops returns the number of jumps (systems minus one)
func (r Route) Hops() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// Start returns the first system, or "" for an empty route
func (r Route) Start() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[0]
}

// End returns the last system, or "" for an empty route
func (r Route) End() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[len(r.Path)-1]
}

// Contains reports whether a system is on the route
func (r Route) Contains(name string) bool {
	for _, p := range r.Path {
		if p == name {
			return true
		}
	}
	return false
}

// ShorterThan reports whether r has strictly fewer hops than other.
// An empty route is never shorter than anything.
func (r Route) ShorterThan(other Route) bool {
	if r.IsEmpty() {
		return false
	}
	if other.IsEmpty() {
		return true
	}
	return r.Hops() < other.Hops()
}

// Extend returns a new route with name appended; r is left untouched
func (r Route) Extend(name string) Route {
	out := make([]string, len(r.Path), len(r.Path)+1)
	copy(out, r.Path)
	return Route{Path: append(out, name)}
}

// Clone returns a deep copy
func (r Route) Clone() Route {
	return NewRoute(r.Path)
}

func (r Route) String() string {
	return strings.Join(r.Path, " → ")
}

// RouteSegment is one jump of a route with its exact length
type RouteSegment struct {
	From     string
	To       string
	FromPos  shared.Coordinate
	ToPos    shared.Coordinate
	Distance float64
}

func (s RouteSegment) String() string {
	return fmt.Sprintf("%s → %s (%.4f ly)", s.From, s.To, s.Distance)
}

// RouteLeg describes one system on a route for summaries and exports
type RouteLeg struct {
	Step             int
	System           string
	Position         shared.Coordinate
	DistanceFromPrev float64
}

// RoutePlan is a route with every system position resolved
type RoutePlan struct {
	Route         Route
	Legs          []RouteLeg
	TotalDistance float64
}

// Segments returns the plan's jumps
func (p *RoutePlan) Segments() []RouteSegment {
	if len(p.Legs) < 2 {
		return nil
	}
	segments := make([]RouteSegment, 0, len(p.Legs)-1)
	for i := 1; i < len(p.Legs); i++ {
		segments = append(segments, RouteSegment{
			From:     p.Legs[i-1].System,
			To:       p.Legs[i].System,
			FromPos:  p.Legs[i-1].Position,
			ToPos:    p.Legs[i].Position,
			Distance: p.Legs[i].DistanceFromPrev,
		})
	}
	return segments
}

// CoordinateLookup resolves a system position; the coordinate cache satisfies it
type CoordinateLookup interface {
	GetCoordinate(ctx context.Context, name string) (shared.Coordinate, error)
}

// BuildRoutePlan resolves every system of a route and computes per-jump distances
func BuildRoutePlan(ctx context.Context, route Route, lookup CoordinateLookup) (*RoutePlan, error) {
	plan := &RoutePlan{Route: route.Clone(), Legs: make([]RouteLeg, 0, route.Len())}

	var prev shared.Coordinate
	for i, name := range route.Path {
		pos, err := lookup.GetCoordinate(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s for route plan: %w", name, err)
		}

		leg := RouteLeg{Step: i + 1, System: name, Position: pos}
		if i > 0 {
			leg.DistanceFromPrev = prev.DistanceTo(pos)
			plan.TotalDistance += leg.DistanceFromPrev
		}
		plan.Legs = append(plan.Legs, leg)
		prev = pos
	}

	return plan, nil
}
