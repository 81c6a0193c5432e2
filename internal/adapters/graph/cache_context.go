package graph

import (
	"context"

	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

// CacheOptions configures a CacheContext. Zero values mean no persistence,
// the default jump range and a silent logger.
type CacheOptions struct {
	CoordinateRepo system.CoordinateRepository
	AdjacencyRepo  system.AdjacencyRepository
	JumpRange      system.JumpRange
	Logger         logging.Logger
}

// CacheContext owns the coordinate and adjacency caches of one process.
// It is created empty, grows monotonically and is shared by every search.
type CacheContext struct {
	Coordinates *CoordinateCache
	Adjacency   *AdjacencyCache
}

// NewCacheContext creates empty caches over the given directory
func NewCacheContext(directory system.DirectoryClient, opts CacheOptions) *CacheContext {
	if opts.JumpRange.Radius == 0 {
		opts.JumpRange = system.DefaultJumpRange()
	}
	if opts.Logger == nil {
		opts.Logger = logging.LoggerFromContext(context.Background())
	}

	coordinates := NewCoordinateCache(directory, opts.CoordinateRepo, opts.Logger)
	return &CacheContext{
		Coordinates: coordinates,
		Adjacency:   NewAdjacencyCache(directory, coordinates, opts.AdjacencyRepo, opts.JumpRange, opts.Logger),
	}
}

// CacheStats summarizes cache contents
type CacheStats struct {
	KnownSystems    int
	ExpandedSystems int
}

// Stats returns current in-memory cache sizes
func (c *CacheContext) Stats() CacheStats {
	return CacheStats{
		KnownSystems:    c.Coordinates.Len(),
		ExpandedSystems: c.Adjacency.Len(),
	}
}

// Snapshot copies everything discovered so far into an ExploredGraph
func (c *CacheContext) Snapshot() *system.ExploredGraph {
	g := system.NewExploredGraph()
	c.Coordinates.Range(func(name string, coordinate shared.Coordinate) bool {
		g.AddSystem(name, coordinate)
		return true
	})
	c.Adjacency.Range(func(name string, neighbors []system.Neighbor) bool {
		g.AddNeighbors(name, neighbors)
		return true
	})
	return g
}
