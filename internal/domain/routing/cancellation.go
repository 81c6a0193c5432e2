package routing

import (
	"sync"
	"sync/atomic"
)

// CancellationToken is a cooperative, set-once stop signal shared between the
// operator and the search worker. The worker polls IsCancelled once per expansion;
// in-flight directory calls are never interrupted by it. The zero value is an
// unset token.
type CancellationToken struct {
	cancelled atomic.Bool
	mu        sync.Mutex
	done      chan struct{}
}

// NewCancellationToken creates an unset token
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{done: make(chan struct{})}
}

// Cancel sets the signal. Calling it again has no effect.
func (t *CancellationToken) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled.Load() {
		return
	}
	if t.done == nil {
		t.done = make(chan struct{})
	}
	t.cancelled.Store(true)
	close(t.done)
}

// IsCancelled reports whether Cancel has been called. A nil token is never cancelled.
func (t *CancellationToken) IsCancelled() bool {
	if t == nil {
		return false
	}
	return t.cancelled.Load()
}

// Done returns a channel closed on cancellation, for observers that prefer select
func (t *CancellationToken) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		t.done = make(chan struct{})
	}
	return t.done
}
