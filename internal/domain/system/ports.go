package system

import (
	"context"

	"github.com/crow-router/crow/internal/domain/shared"
)

// DirectoryClient is the remote system directory.
// Implementations do no caching; every call is a round trip.
type DirectoryClient interface {
	// GetCoordinate resolves the position of a named system.
	// Returns *shared.UnresolvableSystemError when any coordinate field is missing.
	GetCoordinate(ctx context.Context, name string) (shared.Coordinate, error)

	// ListNearby returns candidate systems within maxDistance of the named system.
	// The service filter is approximate; callers re-verify distances.
	ListNearby(ctx context.Context, name string, maxDistance float64) ([]SystemRecord, error)

	// ListRefuelCandidates returns populated/refuelable candidates ranked by the service
	ListRefuelCandidates(ctx context.Context, name string) ([]CandidateRecord, error)
}

// CoordinateRepository is the optional persistent tier behind the coordinate cache
type CoordinateRepository interface {
	FindByName(ctx context.Context, name string) (*shared.Coordinate, error)
	Save(ctx context.Context, name string, coordinate shared.Coordinate) error
	SaveBatch(ctx context.Context, coordinates map[string]shared.Coordinate) error
	Count(ctx context.Context) (int64, error)
}

// AdjacencyRepository is the optional persistent tier behind the adjacency cache
type AdjacencyRepository interface {
	// FindByName returns nil, nil on a miss. An empty non-nil slice is a cached empty result.
	FindByName(ctx context.Context, name string) ([]Neighbor, error)
	Save(ctx context.Context, name string, neighbors []Neighbor) error
	Count(ctx context.Context) (int64, error)
}

// CoordinateResolver is what the search engine needs from the coordinate cache
type CoordinateResolver interface {
	GetCoordinate(ctx context.Context, name string) (shared.Coordinate, error)
}

// NeighborProvider is what the search engine needs from the adjacency cache
type NeighborProvider interface {
	GetNeighbors(ctx context.Context, name string) ([]Neighbor, error)
}

// DTOs for directory operations

// SystemRecord is one entry from a nearby-systems response.
// Coordinate fields are pointers because the service may omit them.
type SystemRecord struct {
	Name     string
	X        *float64
	Y        *float64
	Z        *float64
	Distance *float64
}

// Coordinate returns the record's position, or false when any component is missing
func (r SystemRecord) Coordinate() (shared.Coordinate, bool) {
	if r.X == nil || r.Y == nil || r.Z == nil {
		return shared.Coordinate{}, false
	}
	return shared.NewCoordinate(*r.X, *r.Y, *r.Z), true
}

// CandidateRecord is one entry from a nearest-refuel response
type CandidateRecord struct {
	SystemName  string
	StationName string
	StationType string
	Distance    float64
}
