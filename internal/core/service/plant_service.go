package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenhouse/plants-api/internal/core/domain"
	"github.com/greenhouse/plants-api/internal/core/ports"
	"github.com/greenhouse/plants-api/pkg/metrics"
)

// PlantCache abstracts the read-through cache for single plants (Redis).
// Get reports a miss with a nil plant and nil error.
type PlantCache interface {
	Get(ctx context.Context, id string) (*domain.Plant, error)
	Set(ctx context.Context, p *domain.Plant) error
	Invalidate(ctx context.Context, id string) error
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*domain.Plant, error) { return nil, nil }
func (noopCache) Set(context.Context, *domain.Plant) error            { return nil }
func (noopCache) Invalidate(context.Context, string) error            { return nil }

type PlantService struct {
	repo  ports.PlantRepository
	cache PlantCache
	log   zerolog.Logger
}

// NewPlantService returns a PlantService. A nil cache disables caching.
func NewPlantService(repo ports.PlantRepository, cache PlantCache, log zerolog.Logger) *PlantService {
	if cache == nil {
		cache = noopCache{}
	}
	return &PlantService{repo: repo, cache: cache, log: log}
}

func (s *PlantService) CreatePlant(ctx context.Context, input ports.CreatePlantInput) (*domain.Plant, error) {
	name := strings.TrimSpace(input.Name)
	typ := strings.TrimSpace(input.Type)
	if name == "" || typ == "" {
		return nil, domain.ErrInvalidPlant
	}

	careLevel := strings.TrimSpace(input.CareLevel)
	if careLevel == "" {
		careLevel = domain.CareLevelDefault
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Plant{
		Name:      name,
		Type:      typ,
		CareLevel: careLevel,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create plant")
		return nil, fmt.Errorf("create plant: %w", err)
	}

	metrics.PlantsWrittenTotal.WithLabelValues("create").Inc()
	s.log.Info().Str("plant_id", created.ID).Str("name", created.Name).Msg("plant created")
	return created, nil
}

// GetPlant reads through the cache. Cache failures are logged and the
// repository is used instead.
func (s *PlantService) GetPlant(ctx context.Context, id string) (*domain.Plant, error) {
	cached, err := s.cache.Get(ctx, id)
	switch {
	case err != nil:
		metrics.PlantCacheTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("plant_id", id).Msg("plant cache read failed")
	case cached != nil:
		metrics.PlantCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.PlantCacheTotal.WithLabelValues("miss").Inc()
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, p); err != nil {
		s.log.Warn().Err(err).Str("plant_id", id).Msg("plant cache write failed")
	}
	return p, nil
}

func (s *PlantService) ListPlants(ctx context.Context, filter domain.PlantFilter) ([]*domain.Plant, error) {
	plants, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	return plants, nil
}

func (s *PlantService) UpdatePlant(ctx context.Context, id string, patch domain.PlantPatch) (*domain.Plant, error) {
	if patch.Empty() {
		return nil, domain.ErrEmptyUpdate
	}
	if blank(patch.Name) || blank(patch.Type) || blank(patch.CareLevel) {
		return nil, domain.ErrInvalidPlant
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	metrics.PlantsWrittenTotal.WithLabelValues("update").Inc()
	s.log.Info().Str("plant_id", id).Msg("plant updated")
	return updated, nil
}

func (s *PlantService) DeletePlant(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	metrics.PlantsWrittenTotal.WithLabelValues("delete").Inc()
	s.log.Info().Str("plant_id", id).Msg("plant deleted")
	return nil
}

func (s *PlantService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("plant_id", id).Msg("plant cache invalidation failed")
	}
}

func blank(v *string) bool {
	return v != nil && strings.TrimSpace(*v) == ""
}
