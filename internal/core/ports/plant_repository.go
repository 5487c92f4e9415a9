package ports

import (
	"context"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

// PlantRepository defines persistence operations for plants.
//
// Ids that are not valid for the store yield domain.ErrInvalidPlantID and
// unknown ids yield domain.ErrPlantNotFound.
type PlantRepository interface {
	Create(ctx context.Context, p *domain.Plant) (*domain.Plant, error)
	FindByID(ctx context.Context, id string) (*domain.Plant, error)
	List(ctx context.Context, filter domain.PlantFilter) ([]*domain.Plant, error)
	// Update applies patch and returns the document as it is after the update.
	Update(ctx context.Context, id string, patch domain.PlantPatch) (*domain.Plant, error)
	Delete(ctx context.Context, id string) error
}
