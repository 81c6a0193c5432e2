package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

// MockDirectoryClient is an in-memory star map implementing system.DirectoryClient
type MockDirectoryClient struct {
	mu sync.Mutex

	systems    map[string]shared.Coordinate
	incomplete map[string]bool // listed by nearby queries without coordinates
	candidates map[string][]system.CandidateRecord

	// Error injection
	coordinateErrors map[string]error
	nearbyErrors     map[string]error

	// nearbySlack widens the nearby filter to mimic the service's approximate radius
	nearbySlack float64
	nearbyHook  func(name string)

	// Call tracking
	coordinateCalls map[string]int
	nearbyCalls     map[string]int
	refuelCalls     map[string]int
}

// NewMockDirectoryClient creates an empty star map
func NewMockDirectoryClient() *MockDirectoryClient {
	return &MockDirectoryClient{
		systems:          make(map[string]shared.Coordinate),
		incomplete:       make(map[string]bool),
		candidates:       make(map[string][]system.CandidateRecord),
		coordinateErrors: make(map[string]error),
		nearbyErrors:     make(map[string]error),
		coordinateCalls:  make(map[string]int),
		nearbyCalls:      make(map[string]int),
		refuelCalls:      make(map[string]int),
	}
}

// AddSystem places a system on the map
func (m *MockDirectoryClient) AddSystem(name string, x, y, z float64) *MockDirectoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems[name] = shared.NewCoordinate(x, y, z)
	return m
}

// AddIncompleteSystem places a system whose records never carry coordinates
func (m *MockDirectoryClient) AddIncompleteSystem(name string, x, y, z float64) *MockDirectoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems[name] = shared.NewCoordinate(x, y, z)
	m.incomplete[name] = true
	return m
}

// SetCandidates sets the refuel candidates returned for name
func (m *MockDirectoryClient) SetCandidates(name string, candidates []system.CandidateRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates[name] = candidates
}

// SetCoordinateError makes GetCoordinate(name) fail with err
func (m *MockDirectoryClient) SetCoordinateError(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coordinateErrors[name] = err
}

// SetNearbyError makes ListNearby(name) fail with err
func (m *MockDirectoryClient) SetNearbyError(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nearbyErrors[name] = err
}

// ClearErrors removes every injected error
func (m *MockDirectoryClient) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coordinateErrors = make(map[string]error)
	m.nearbyErrors = make(map[string]error)
}

// SetNearbySlack widens nearby results beyond the requested radius
func (m *MockDirectoryClient) SetNearbySlack(slack float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nearbySlack = slack
}

// SetNearbyHook registers fn to run (without the lock) on every nearby query
func (m *MockDirectoryClient) SetNearbyHook(fn func(name string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nearbyHook = fn
}

// GetCoordinate implements system.DirectoryClient
func (m *MockDirectoryClient) GetCoordinate(_ context.Context, name string) (shared.Coordinate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.coordinateCalls[name]++
	if err, ok := m.coordinateErrors[name]; ok {
		return shared.Coordinate{}, err
	}
	coord, ok := m.systems[name]
	if !ok || m.incomplete[name] {
		return shared.Coordinate{}, shared.NewUnresolvableSystemError(name, "system not found in directory")
	}
	return coord, nil
}

// ListNearby implements system.DirectoryClient. Results include the origin itself
// and are ordered by name.
func (m *MockDirectoryClient) ListNearby(_ context.Context, name string, maxDistance float64) ([]system.SystemRecord, error) {
	m.mu.Lock()
	m.nearbyCalls[name]++
	hook := m.nearbyHook
	m.mu.Unlock()

	if hook != nil {
		hook(name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.nearbyErrors[name]; ok {
		return nil, err
	}
	origin, ok := m.systems[name]
	if !ok {
		return nil, shared.NewUnresolvableSystemError(name, "system not found in directory")
	}

	names := make([]string, 0, len(m.systems))
	for n := range m.systems {
		names = append(names, n)
	}
	sort.Strings(names)

	var records []system.SystemRecord
	for _, n := range names {
		coord := m.systems[n]
		d := origin.DistanceTo(coord)
		if d > maxDistance+m.nearbySlack {
			continue
		}
		record := system.SystemRecord{Name: n, Distance: floatPtr(d)}
		if !m.incomplete[n] {
			record.X = floatPtr(coord.X)
			record.Y = floatPtr(coord.Y)
			record.Z = floatPtr(coord.Z)
		}
		records = append(records, record)
	}
	return records, nil
}

// ListRefuelCandidates implements system.DirectoryClient
func (m *MockDirectoryClient) ListRefuelCandidates(_ context.Context, name string) ([]system.CandidateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refuelCalls[name]++
	out := make([]system.CandidateRecord, len(m.candidates[name]))
	copy(out, m.candidates[name])
	return out, nil
}

// CoordinateCalls returns how often GetCoordinate(name) was called
func (m *MockDirectoryClient) CoordinateCalls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coordinateCalls[name]
}

// NearbyCalls returns how often ListNearby(name) was called
func (m *MockDirectoryClient) NearbyCalls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nearbyCalls[name]
}

// RefuelCalls returns how often ListRefuelCandidates(name) was called
func (m *MockDirectoryClient) RefuelCalls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refuelCalls[name]
}

// TotalCalls returns the number of directory round trips of every kind
func (m *MockDirectoryClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, calls := range []map[string]int{m.coordinateCalls, m.nearbyCalls, m.refuelCalls} {
		for _, n := range calls {
			total += n
		}
	}
	return total
}

func floatPtr(v float64) *float64 {
	return &v
}
