package search

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

// TargetCandidate is a discovered refuel target with its distance from the start
type TargetCandidate struct {
	Name        string
	StationName string
	StationType string
	Distance    float64
}

// TargetDiscovery finds refuel/populated systems near a start system.
// Raw candidate lists are memoized per start for the life of the process.
type TargetDiscovery struct {
	directory   system.DirectoryClient
	coordinates system.CoordinateResolver

	mu    sync.RWMutex
	memo  map[string][]system.CandidateRecord
	group singleflight.Group
}

// NewTargetDiscovery creates a discovery service
func NewTargetDiscovery(directory system.DirectoryClient, coordinates system.CoordinateResolver) *TargetDiscovery {
	return &TargetDiscovery{
		directory:   directory,
		coordinates: coordinates,
		memo:        make(map[string][]system.CandidateRecord),
	}
}

// Discover returns candidates accepted by predicate, de-duplicated by system and
// sorted by distance from start. Candidates whose position cannot be resolved are dropped.
func (d *TargetDiscovery) Discover(ctx context.Context, start string, predicate system.CandidatePredicate) ([]TargetCandidate, error) {
	logger := logging.LoggerFromContext(ctx)

	origin, err := d.coordinates.GetCoordinate(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve start system: %w", err)
	}

	records, err := d.candidates(ctx, start)
	if err != nil {
		return nil, err
	}

	if predicate == nil {
		predicate = system.AcceptAll
	}
	firstStation := make(map[string]system.CandidateRecord)
	for _, r := range records {
		if _, ok := firstStation[r.SystemName]; !ok && predicate(r) {
			firstStation[r.SystemName] = r
		}
	}

	names := system.SelectTargetNames(records, predicate)
	out := make([]TargetCandidate, 0, len(names))
	for _, name := range names {
		coord, err := d.coordinates.GetCoordinate(ctx, name)
		if err != nil {
			logger.Log("DEBUG", "dropping candidate without coordinates", map[string]interface{}{
				"system": name,
				"error":  err.Error(),
			})
			continue
		}
		station := firstStation[name]
		out = append(out, TargetCandidate{
			Name:        name,
			StationName: station.StationName,
			StationType: station.StationType,
			Distance:    origin.DistanceTo(coord),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out, nil
}

// Names returns just the system names of the discovered candidates
func Names(candidates []TargetCandidate) []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	return names
}

func (d *TargetDiscovery) candidates(ctx context.Context, start string) ([]system.CandidateRecord, error) {
	d.mu.RLock()
	cached, ok := d.memo[start]
	d.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := d.group.Do(start, func() (interface{}, error) {
		records, err := d.directory.ListRefuelCandidates(ctx, start)
		if err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.memo[start] = records
		d.mu.Unlock()
		return records, nil
	})
	if err != nil {
		if shared.IsSkippable(err) {
			return nil, fmt.Errorf("failed to list refuel candidates near %s: %w", start, err)
		}
		return nil, err
	}
	return v.([]system.CandidateRecord), nil
}
