package ports

import (
	"context"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

// CreatePlantInput carries the fields accepted by POST /plants.
type CreatePlantInput struct {
	Name      string
	Type      string
	CareLevel string // optional, defaults to domain.CareLevelDefault
}

// PlantService defines use-case operations for plants.
type PlantService interface {
	CreatePlant(ctx context.Context, input CreatePlantInput) (*domain.Plant, error)
	GetPlant(ctx context.Context, id string) (*domain.Plant, error)
	ListPlants(ctx context.Context, filter domain.PlantFilter) ([]*domain.Plant, error)
	UpdatePlant(ctx context.Context, id string, patch domain.PlantPatch) (*domain.Plant, error)
	DeletePlant(ctx context.Context, id string) error
}
