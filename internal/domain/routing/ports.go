package routing

import (
	"context"
	"time"
)

// RouteRecord is a stored route: every improvement and every final result
type RouteRecord struct {
	ID            string
	SearchID      string
	Start         string
	Targets       []string
	Route         Route
	Hops          int
	TotalDistance float64
	Status        SearchStatus
	Attempt       int
	CreatedAt     time.Time
}

// RouteRepository persists route history
type RouteRepository interface {
	Add(ctx context.Context, record *RouteRecord) error
	ListRecent(ctx context.Context, limit int) ([]*RouteRecord, error)
	ListBySearch(ctx context.Context, searchID string) ([]*RouteRecord, error)
}
