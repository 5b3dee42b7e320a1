package usagetypes

import (
	"context"
	"sync"

	"github.com/angelmondragon/carbon-api/pkg/db"
	"github.com/angelmondragon/carbon-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/carbon-api/pkg/errors"
	"github.com/angelmondragon/carbon-api/pkg/pagination"
)

// Store is the persistence surface the service depends on.
type Store interface {
	FindByID(ctx context.Context, id int) (*models.UsageType, error)
	List(ctx context.Context, params pagination.Params) ([]models.UsageType, error)
	Upsert(ctx context.Context, types []models.UsageType) error
}

// Service resolves usage type codes against the reference set.
type Service interface {
	Resolve(ctx context.Context, id int) (*models.UsageType, error)
	List(ctx context.Context, params pagination.Params) ([]models.UsageType, error)
	Seed(ctx context.Context, types []models.UsageType) error
}

type service struct {
	repo Store

	mu    sync.RWMutex
	cache map[int]models.UsageType
}

// NewService builds a usage type service. Resolved types are cached for the life of the
// process; the reference set only changes through Seed.
func NewService(repo Store) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage type repo is required")
	}
	return &service{
		repo:  repo,
		cache: make(map[int]models.UsageType),
	}, nil
}

// Resolve returns CodeNotFound for unknown codes and CodeDependency for storage faults.
func (s *service) Resolve(ctx context.Context, id int) (*models.UsageType, error) {
	if cached, ok := s.cached(id); ok {
		return &cached, nil
	}

	usageType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "usage type not found").
				WithDetails(map[string]any{"usage_type_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load usage type")
	}

	s.mu.Lock()
	s.cache[id] = *usageType
	s.mu.Unlock()

	return usageType, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.UsageType, error) {
	types, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list usage types")
	}
	if types == nil {
		types = []models.UsageType{}
	}
	return types, nil
}

// Seed upserts the given reference types and drops the cache.
func (s *service) Seed(ctx context.Context, types []models.UsageType) error {
	if err := s.repo.Upsert(ctx, types); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed usage types")
	}
	s.mu.Lock()
	s.cache = make(map[int]models.UsageType)
	s.mu.Unlock()
	return nil
}

func (s *service) cached(id int) (models.UsageType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	usageType, ok := s.cache[id]
	return usageType, ok
}
