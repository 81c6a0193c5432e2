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

// CoordinateCache memoizes system positions for the life of its CacheContext.
//
// Caching strategy (two-tier):
//   - Tier 1: in-memory map, never evicted
//   - Tier 2: optional repository, written through so later processes start warm
//
// Concurrent misses for the same name collapse into one directory lookup.
type CoordinateCache struct {
	directory system.DirectoryClient
	repo      system.CoordinateRepository
	logger    logging.Logger

	entries sync.Map // name -> shared.Coordinate
	size    atomic.Int64
	group   singleflight.Group
}

// NewCoordinateCache creates an empty coordinate cache. repo may be nil.
func NewCoordinateCache(directory system.DirectoryClient, repo system.CoordinateRepository, logger logging.Logger) *CoordinateCache {
	return &CoordinateCache{
		directory: directory,
		repo:      repo,
		logger:    logger,
	}
}

// GetCoordinate returns the cached position or resolves it through the directory.
// Failures are not cached.
func (c *CoordinateCache) GetCoordinate(ctx context.Context, name string) (shared.Coordinate, error) {
	if coord, ok := c.lookup(name); ok {
		metrics.RecordCacheLookup("coordinate", true)
		return coord, nil
	}
	metrics.RecordCacheLookup("coordinate", false)

	v, err, _ := c.group.Do(name, func() (interface{}, error) {
		if coord, ok := c.lookup(name); ok {
			return coord, nil
		}

		if c.repo != nil {
			stored, err := c.repo.FindByName(ctx, name)
			if err != nil {
				c.logger.Log("WARNING", "coordinate repository lookup failed", map[string]interface{}{
					"system": name,
					"error":  err.Error(),
				})
			} else if stored != nil {
				c.store(name, *stored)
				return *stored, nil
			}
		}

		coord, err := c.directory.GetCoordinate(ctx, name)
		if err != nil {
			return nil, err
		}

		c.store(name, coord)
		c.persist(ctx, map[string]shared.Coordinate{name: coord})
		return coord, nil
	})
	if err != nil {
		return shared.Coordinate{}, fmt.Errorf("failed to resolve coordinate of %s: %w", name, err)
	}

	return v.(shared.Coordinate), nil
}

// Seed records positions learned as a side effect of other queries.
// Names already cached keep their first value.
func (c *CoordinateCache) Seed(ctx context.Context, coordinates map[string]shared.Coordinate) {
	fresh := make(map[string]shared.Coordinate, len(coordinates))
	for name, coord := range coordinates {
		if c.store(name, coord) {
			fresh[name] = coord
		}
	}
	c.persist(ctx, fresh)
}

// Peek returns a cached position without touching the directory
func (c *CoordinateCache) Peek(name string) (shared.Coordinate, bool) {
	return c.lookup(name)
}

// Len returns the number of known systems
func (c *CoordinateCache) Len() int {
	return int(c.size.Load())
}

// Range calls fn for every cached position until fn returns false
func (c *CoordinateCache) Range(fn func(name string, coordinate shared.Coordinate) bool) {
	c.entries.Range(func(key, value interface{}) bool {
		return fn(key.(string), value.(shared.Coordinate))
	})
}

func (c *CoordinateCache) lookup(name string) (shared.Coordinate, bool) {
	v, ok := c.entries.Load(name)
	if !ok {
		return shared.Coordinate{}, false
	}
	return v.(shared.Coordinate), true
}

// store adds a first value for name and reports whether it was new
func (c *CoordinateCache) store(name string, coord shared.Coordinate) bool {
	if _, loaded := c.entries.LoadOrStore(name, coord); loaded {
		return false
	}
	c.size.Add(1)
	return true
}

func (c *CoordinateCache) persist(ctx context.Context, coordinates map[string]shared.Coordinate) {
	if c.repo == nil || len(coordinates) == 0 {
		return
	}
	if err := c.repo.SaveBatch(ctx, coordinates); err != nil {
		c.logger.Log("WARNING", "failed to persist coordinates", map[string]interface{}{
			"count": len(coordinates),
			"error": err.Error(),
		})
	}
}
