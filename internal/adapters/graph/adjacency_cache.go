package graph

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/crow-router/crow/internal/adapters/metrics"
	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

// AdjacencyCache memoizes verified neighbor lists within the jump range.
// Every accepted neighbor's position is seeded into the coordinate cache.
type AdjacencyCache struct {
	directory   system.DirectoryClient
	coordinates *CoordinateCache
	repo        system.AdjacencyRepository
	jumpRange   system.JumpRange
	logger      logging.Logger

	entries sync.Map // name -> []system.Neighbor
	size    atomic.Int64
	group   singleflight.Group
}

// NewAdjacencyCache creates an empty adjacency cache. repo may be nil.
func NewAdjacencyCache(
	directory system.DirectoryClient,
	coordinates *CoordinateCache,
	repo system.AdjacencyRepository,
	jumpRange system.JumpRange,
	logger logging.Logger,
) *AdjacencyCache {
	return &AdjacencyCache{
		directory:   directory,
		coordinates: coordinates,
		repo:        repo,
		jumpRange:   jumpRange,
		logger:      logger,
	}
}

// GetNeighbors returns the verified neighbors of name.
//
// An origin whose position cannot be resolved yields an empty list, and that
// empty list is cached. Transient directory failures are returned and not
// cached so a later search may retry.
func (a *AdjacencyCache) GetNeighbors(ctx context.Context, name string) ([]system.Neighbor, error) {
	if neighbors, ok := a.lookup(name); ok {
		metrics.RecordCacheLookup("adjacency", true)
		return cloneNeighbors(neighbors), nil
	}
	metrics.RecordCacheLookup("adjacency", false)

	v, err, _ := a.group.Do(name, func() (interface{}, error) {
		if neighbors, ok := a.lookup(name); ok {
			return neighbors, nil
		}

		if a.repo != nil {
			stored, err := a.repo.FindByName(ctx, name)
			if err != nil {
				a.logger.Log("WARNING", "adjacency repository lookup failed", map[string]interface{}{
					"system": name,
					"error":  err.Error(),
				})
			} else if stored != nil {
				return a.store(name, stored), nil
			}
		}

		neighbors, err := a.fetch(ctx, name)
		if err != nil {
			return nil, err
		}

		neighbors = a.store(name, neighbors)
		if a.repo != nil {
			if err := a.repo.Save(ctx, name, neighbors); err != nil {
				a.logger.Log("WARNING", "failed to persist neighbors", map[string]interface{}{
					"system": name,
					"error":  err.Error(),
				})
			}
		}
		return neighbors, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list neighbors of %s: %w", name, err)
	}

	return cloneNeighbors(v.([]system.Neighbor)), nil
}

func (a *AdjacencyCache) fetch(ctx context.Context, name string) ([]system.Neighbor, error) {
	origin, err := a.coordinates.GetCoordinate(ctx, name)
	if err != nil {
		if shared.IsUnresolvable(err) {
			a.logger.Log("DEBUG", "origin unresolvable, caching empty neighbor list", map[string]interface{}{
				"system": name,
			})
			return []system.Neighbor{}, nil
		}
		return nil, err
	}

	records, err := a.directory.ListNearby(ctx, name, a.jumpRange.Radius)
	if err != nil {
		if shared.IsUnresolvable(err) {
			return []system.Neighbor{}, nil
		}
		return nil, err
	}

	neighbors := make([]system.Neighbor, 0, len(records))
	seeds := make(map[string]shared.Coordinate, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, record := range records {
		if record.Name == name {
			continue
		}
		if _, dup := seen[record.Name]; dup {
			continue
		}
		// A position already cached wins over the one in the nearby record
		coord, cached := a.coordinates.Peek(record.Name)
		if !cached {
			var ok bool
			if coord, ok = record.Coordinate(); !ok {
				continue
			}
		}
		distance, ok := a.jumpRange.Verify(origin, coord)
		if !ok {
			continue
		}
		seen[record.Name] = struct{}{}
		neighbors = append(neighbors, system.Neighbor{Name: record.Name, Distance: distance})
		if !cached {
			seeds[record.Name] = coord
		}
	}

	a.coordinates.Seed(ctx, seeds)
	return neighbors, nil
}

// Peek returns a cached neighbor list without touching the directory
func (a *AdjacencyCache) Peek(name string) ([]system.Neighbor, bool) {
	neighbors, ok := a.lookup(name)
	if !ok {
		return nil, false
	}
	return cloneNeighbors(neighbors), true
}

// Len returns the number of systems whose neighbors are known
func (a *AdjacencyCache) Len() int {
	return int(a.size.Load())
}

// Range calls fn for every cached neighbor list until fn returns false
func (a *AdjacencyCache) Range(fn func(name string, neighbors []system.Neighbor) bool) {
	a.entries.Range(func(key, value interface{}) bool {
		return fn(key.(string), cloneNeighbors(value.([]system.Neighbor)))
	})
}

func (a *AdjacencyCache) lookup(name string) ([]system.Neighbor, bool) {
	v, ok := a.entries.Load(name)
	if !ok {
		return nil, false
	}
	return v.([]system.Neighbor), true
}

// store keeps the first list cached for name and returns whichever is cached
func (a *AdjacencyCache) store(name string, neighbors []system.Neighbor) []system.Neighbor {
	actual, loaded := a.entries.LoadOrStore(name, neighbors)
	if !loaded {
		a.size.Add(1)
	}
	return actual.([]system.Neighbor)
}

func cloneNeighbors(neighbors []system.Neighbor) []system.Neighbor {
	out := make([]system.Neighbor, len(neighbors))
	copy(out, neighbors)
	return out
}
