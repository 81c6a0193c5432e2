package routing

import "time"

// LiveStatus is the progress snapshot published on every expansion.
// It is replaced wholesale, never mutated in place, so readers may hold on to it.
type LiveStatus struct {
	SearchID      string
	Attempt       int
	Current       string
	NearestTarget string
	PathLength    int
	Remaining     float64
	Targets       []string
	Expanded      int
	BestHops      int
	HasBest       bool
}

// SearchResult is the outcome of one engine invocation.
//
// Status FOUND carries the complete route, CANCELLED carries the best-known partial
// prefix, EXHAUSTED carries an empty route.
type SearchResult struct {
	SearchID string
	Attempt  int
	Status   SearchStatus
	Route    Route
	Expanded int
	Duration time.Duration
	// SkippedTargets lists targets whose coordinates could not be resolved
	SkippedTargets []string
}

// Found reports whether the result reached a target
func (r *SearchResult) Found() bool {
	return r != nil && r.Status == SearchStatusFound
}

// Improvement is one strictly shorter route published by the re-optimization loop
type Improvement struct {
	SearchID string
	Attempt  int
	Route    Route
	Hops     int
}

// ImprovementListener receives every improvement before the next attempt starts
type ImprovementListener interface {
	OnImprovement(improvement Improvement)
}

// ImprovementListenerFunc adapts a function to ImprovementListener
type ImprovementListenerFunc func(improvement Improvement)

func (f ImprovementListenerFunc) OnImprovement(improvement Improvement) {
	f(improvement)
}
