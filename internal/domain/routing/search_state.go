package routing

import (
	"fmt"
	"sync"
	"time"

	"github.com/crow-router/crow/internal/domain/shared"
)

// SearchStatus is the state of a single search invocation
type SearchStatus string

const (
	// SearchStatusReady indicates the search was created but not started
	SearchStatusReady SearchStatus = "READY"

	// SearchStatusRunning indicates the search is expanding nodes
	SearchStatusRunning SearchStatus = "RUNNING"

	// SearchStatusFound indicates a target was reached
	SearchStatusFound SearchStatus = "FOUND"

	// SearchStatusExhausted indicates the frontier emptied (or the budget ran out) without reaching a target
	SearchStatusExhausted SearchStatus = "EXHAUSTED"

	// SearchStatusCancelled indicates the operator stopped the search; a partial route may exist
	SearchStatusCancelled SearchStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible
func (s SearchStatus) IsTerminal() bool {
	return s == SearchStatusFound || s == SearchStatusExhausted || s == SearchStatusCancelled
}

// SearchStateMachine manages READY → RUNNING → {FOUND, EXHAUSTED, CANCELLED}.
//
// Invariants:
// - Terminal states are final
// - Timestamps come from the injected clock
type SearchStateMachine struct {
	mu         sync.RWMutex
	status     SearchStatus
	createdAt  time.Time
	startedAt  *time.Time
	finishedAt *time.Time
	clock      shared.Clock
}

// NewSearchStateMachine creates a state machine in READY state
func NewSearchStateMachine(clock shared.Clock) *SearchStateMachine {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SearchStateMachine{
		status:    SearchStatusReady,
		createdAt: clock.Now(),
		clock:     clock,
	}
}

// Status returns the current status
func (sm *SearchStateMachine) Status() SearchStatus {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.status
}

// Start transitions from READY to RUNNING
func (sm *SearchStateMachine) Start() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.status != SearchStatusReady {
		return fmt.Errorf("cannot start search from %s state", sm.status)
	}
	now := sm.clock.Now()
	sm.status = SearchStatusRunning
	sm.startedAt = &now
	return nil
}

// Found transitions from RUNNING to FOUND
func (sm *SearchStateMachine) Found() error {
	return sm.finish(SearchStatusFound)
}

// Exhaust transitions from RUNNING to EXHAUSTED
func (sm *SearchStateMachine) Exhaust() error {
	return sm.finish(SearchStatusExhausted)
}

// Cancel transitions from RUNNING to CANCELLED
func (sm *SearchStateMachine) Cancel() error {
	return sm.finish(SearchStatusCancelled)
}

func (sm *SearchStateMachine) finish(to SearchStatus) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.status != SearchStatusRunning {
		return fmt.Errorf("cannot move search to %s from %s state", to, sm.status)
	}
	now := sm.clock.Now()
	sm.status = to
	sm.finishedAt = &now
	return nil
}

// RuntimeDuration returns how long the search has been/was running.
// Returns 0 if not started yet.
func (sm *SearchStateMachine) RuntimeDuration() time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.startedAt == nil {
		return 0
	}
	end := sm.clock.Now()
	if sm.finishedAt != nil {
		end = *sm.finishedAt
	}
	return end.Sub(*sm.startedAt)
}
