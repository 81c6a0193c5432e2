package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

const coordinateBatchSize = 200

// GormCoordinateRepository implements system.CoordinateRepository using GORM
type GormCoordinateRepository struct {
	db *gorm.DB
}

// NewGormCoordinateRepository creates a new GORM-based coordinate repository
func NewGormCoordinateRepository(db *gorm.DB) *GormCoordinateRepository {
	return &GormCoordinateRepository{db: db}
}

var _ system.CoordinateRepository = (*GormCoordinateRepository)(nil)

// FindByName returns nil, nil on a miss
func (r *GormCoordinateRepository) FindByName(ctx context.Context, name string) (*shared.Coordinate, error) {
	var model SystemCoordinateModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find coordinate: %w", err)
	}

	coord := shared.NewCoordinate(model.X, model.Y, model.Z)
	return &coord, nil
}

// Save stores one coordinate. Existing rows are left untouched.
func (r *GormCoordinateRepository) Save(ctx context.Context, name string, coordinate shared.Coordinate) error {
	return r.SaveBatch(ctx, map[string]shared.Coordinate{name: coordinate})
}

// SaveBatch stores many coordinates in one statement per batch
func (r *GormCoordinateRepository) SaveBatch(ctx context.Context, coordinates map[string]shared.Coordinate) error {
	if len(coordinates) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]SystemCoordinateModel, 0, len(coordinates))
	for name, c := range coordinates {
		models = append(models, SystemCoordinateModel{
			Name:      name,
			X:         c.X,
			Y:         c.Y,
			Z:         c.Z,
			FetchedAt: now,
		})
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&models, coordinateBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to save coordinates: %w", err)
	}
	return nil
}

// Count returns the number of stored coordinates
func (r *GormCoordinateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&SystemCoordinateModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count coordinates: %w", err)
	}
	return count, nil
}
