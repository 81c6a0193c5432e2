package queries

import (
	"context"
	"fmt"

	"github.com/crow-router/crow/internal/application/mediator"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

// GetCoordinateQuery resolves one system's position through the cache
type GetCoordinateQuery struct {
	Name string
}

// GetCoordinateResponse is a resolved position
type GetCoordinateResponse struct {
	Name       string
	Coordinate shared.Coordinate
}

// GetCoordinateHandler handles the GetCoordinate query
type GetCoordinateHandler struct {
	coordinates system.CoordinateResolver
}

// NewGetCoordinateHandler creates a new GetCoordinateHandler
func NewGetCoordinateHandler(coordinates system.CoordinateResolver) *GetCoordinateHandler {
	return &GetCoordinateHandler{coordinates: coordinates}
}

// Handle executes the GetCoordinate query
func (h *GetCoordinateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetCoordinateQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetCoordinateQuery")
	}

	name := shared.NormalizeSystemName(query.Name)
	if err := shared.ValidateSystemName("name", name); err != nil {
		return nil, err
	}

	c, err := h.coordinates.GetCoordinate(ctx, name)
	if err != nil {
		return nil, err
	}
	return &GetCoordinateResponse{Name: name, Coordinate: c}, nil
}
