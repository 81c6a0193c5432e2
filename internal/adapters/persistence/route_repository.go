package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crow-router/crow/internal/domain/routing"
)

// GormRouteRepository implements routing.RouteRepository using GORM
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GORM-based route history repository
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

var _ routing.RouteRepository = (*GormRouteRepository)(nil)

// Add stores a route record, assigning an ID when empty
func (r *GormRouteRepository) Add(ctx context.Context, record *routing.RouteRecord) error {
	model, err := r.toModel(record)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add route record: %w", err)
	}

	record.ID = model.ID
	return nil
}

// ListRecent returns the newest records first
func (r *GormRouteRepository) ListRecent(ctx context.Context, limit int) ([]*routing.RouteRecord, error) {
	var models []RouteRecordModel
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("attempt DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list route records: %w", err)
	}
	return r.toDomainList(models)
}

// ListBySearch returns every record of one search in attempt order
func (r *GormRouteRepository) ListBySearch(ctx context.Context, searchID string) ([]*routing.RouteRecord, error) {
	var models []RouteRecordModel
	err := r.db.WithContext(ctx).
		Where("search_id = ?", searchID).
		Order("attempt ASC").
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list route records for search %s: %w", searchID, err)
	}
	return r.toDomainList(models)
}

func (r *GormRouteRepository) toModel(record *routing.RouteRecord) (*RouteRecordModel, error) {
	targets, err := json.Marshal(record.Targets)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal targets: %w", err)
	}
	path, err := json.Marshal(record.Route.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal path: %w", err)
	}

	id := record.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &RouteRecordModel{
		ID:            id,
		SearchID:      record.SearchID,
		StartSystem:   record.Start,
		Targets:       string(targets),
		Path:          string(path),
		Hops:          record.Hops,
		TotalDistance: record.TotalDistance,
		Status:        string(record.Status),
		Attempt:       record.Attempt,
		CreatedAt:     record.CreatedAt,
	}, nil
}

func (r *GormRouteRepository) toDomainList(models []RouteRecordModel) ([]*routing.RouteRecord, error) {
	records := make([]*routing.RouteRecord, 0, len(models))
	for i := range models {
		record, err := r.toDomain(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *GormRouteRepository) toDomain(model *RouteRecordModel) (*routing.RouteRecord, error) {
	var targets []string
	if model.Targets != "" {
		if err := json.Unmarshal([]byte(model.Targets), &targets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal targets: %w", err)
		}
	}
	var path []string
	if model.Path != "" {
		if err := json.Unmarshal([]byte(model.Path), &path); err != nil {
			return nil, fmt.Errorf("failed to unmarshal path: %w", err)
		}
	}

	return &routing.RouteRecord{
		ID:            model.ID,
		SearchID:      model.SearchID,
		Start:         model.StartSystem,
		Targets:       targets,
		Route:         routing.NewRoute(path),
		Hops:          model.Hops,
		TotalDistance: model.TotalDistance,
		Status:        routing.SearchStatus(model.Status),
		Attempt:       model.Attempt,
		CreatedAt:     model.CreatedAt,
	}, nil
}
