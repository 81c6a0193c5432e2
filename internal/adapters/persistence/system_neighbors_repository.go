package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crow-router/crow/internal/domain/system"
)

// GormAdjacencyRepository implements system.AdjacencyRepository using GORM
type GormAdjacencyRepository struct {
	db *gorm.DB
}

// NewGormAdjacencyRepository creates a new GORM-based adjacency repository
func NewGormAdjacencyRepository(db *gorm.DB) *GormAdjacencyRepository {
	return &GormAdjacencyRepository{db: db}
}

var _ system.AdjacencyRepository = (*GormAdjacencyRepository)(nil)

// FindByName returns nil, nil on a miss and an empty non-nil slice for a stored empty list
func (r *GormAdjacencyRepository) FindByName(ctx context.Context, name string) ([]system.Neighbor, error) {
	var model SystemNeighborsModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find neighbors: %w", err)
	}

	neighbors := []system.Neighbor{}
	if err := json.Unmarshal([]byte(model.Neighbors), &neighbors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal neighbors of %s: %w", name, err)
	}
	if neighbors == nil {
		neighbors = []system.Neighbor{}
	}
	return neighbors, nil
}

// Save stores the neighbor list of one origin. An existing list is kept.
func (r *GormAdjacencyRepository) Save(ctx context.Context, name string, neighbors []system.Neighbor) error {
	if neighbors == nil {
		neighbors = []system.Neighbor{}
	}
	data, err := json.Marshal(neighbors)
	if err != nil {
		return fmt.Errorf("failed to marshal neighbors: %w", err)
	}

	model := SystemNeighborsModel{
		Name:          name,
		Neighbors:     string(data),
		NeighborCount: len(neighbors),
		FetchedAt:     time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to save neighbors: %w", err)
	}
	return nil
}

// Count returns the number of origins with stored neighbor lists
func (r *GormAdjacencyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&SystemNeighborsModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count neighbor lists: %w", err)
	}
	return count, nil
}
