package search

import (
	"sync/atomic"

	"github.com/crow-router/crow/internal/domain/routing"
)

// Monitor shares search progress with observers through atomically swapped snapshots.
// A nil *Monitor discards everything.
type Monitor struct {
	status  atomic.Pointer[routing.LiveStatus]
	current atomic.Pointer[routing.Route]
	best    atomic.Pointer[routing.Route]
}

// NewMonitor creates an empty monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Status returns the latest live status
func (m *Monitor) Status() (routing.LiveStatus, bool) {
	if m == nil {
		return routing.LiveStatus{}, false
	}
	s := m.status.Load()
	if s == nil {
		return routing.LiveStatus{}, false
	}
	return *s, true
}

// CurrentPath returns the path of the system most recently expanded
func (m *Monitor) CurrentPath() routing.Route {
	if m == nil {
		return routing.Route{}
	}
	if r := m.current.Load(); r != nil {
		return *r
	}
	return routing.Route{}
}

// BestRoute returns the shortest complete route published so far
func (m *Monitor) BestRoute() (routing.Route, bool) {
	if m == nil {
		return routing.Route{}, false
	}
	r := m.best.Load()
	if r == nil {
		return routing.Route{}, false
	}
	return *r, true
}

func (m *Monitor) publishStatus(status routing.LiveStatus) {
	if m == nil {
		return
	}
	if best, ok := m.BestRoute(); ok {
		status.BestHops = best.Hops()
		status.HasBest = true
	}
	m.status.Store(&status)
}

func (m *Monitor) publishCurrent(path routing.Route) {
	if m == nil {
		return
	}
	p := path.Clone()
	m.current.Store(&p)
}

func (m *Monitor) publishBest(route routing.Route) {
	if m == nil {
		return
	}
	r := route.Clone()
	m.best.Store(&r)
}
