package persistence

import (
	"time"
)

// SystemCoordinateModel represents the system_coordinates table
type SystemCoordinateModel struct {
	Name      string    `gorm:"column:name;primaryKey"`
	X         float64   `gorm:"column:x;not null"`
	Y         float64   `gorm:"column:y;not null"`
	Z         float64   `gorm:"column:z;not null"`
	FetchedAt time.Time `gorm:"column:fetched_at;not null"`
}

func (SystemCoordinateModel) TableName() string {
	return "system_coordinates"
}

// SystemNeighborsModel represents the system_neighbors table.
// One row per origin; the verified list is stored as a JSON array.
type SystemNeighborsModel struct {
	Name          string    `gorm:"column:name;primaryKey"`
	Neighbors     string    `gorm:"column:neighbors;type:text;not null"` // JSON array as text
	NeighborCount int       `gorm:"column:neighbor_count;not null;default:0"`
	FetchedAt     time.Time `gorm:"column:fetched_at;not null"`
}

func (SystemNeighborsModel) TableName() string {
	return "system_neighbors"
}

// RouteRecordModel represents the route_history table
type RouteRecordModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	SearchID      string    `gorm:"column:search_id;index;not null"`
	StartSystem   string    `gorm:"column:start_system;not null"`
	Targets       string    `gorm:"column:targets;type:text"` // JSON array as text
	Path          string    `gorm:"column:path;type:text"`    // JSON array as text
	Hops          int       `gorm:"column:hops;not null"`
	TotalDistance float64   `gorm:"column:total_distance"`
	Status        string    `gorm:"column:status;not null"`
	Attempt       int       `gorm:"column:attempt;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;index;not null"`
}

func (RouteRecordModel) TableName() string {
	return "route_history"
}
