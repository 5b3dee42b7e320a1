package usages

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/angelmondragon/carbon-api/pkg/db"
	"github.com/angelmondragon/carbon-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/carbon-api/pkg/errors"
	"github.com/angelmondragon/carbon-api/pkg/pagination"
	"github.com/google/uuid"
)

// Store is the persistence surface of the usage service.
type Store interface {
	Create(ctx context.Context, record *models.UsageRecord) (*models.UsageRecord, error)
	Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.UsageRecord, error)
	List(ctx context.Context, ownerID string, params pagination.Params) ([]models.UsageRecord, error)
	Update(ctx context.Context, id uuid.UUID, ownerID string, fields UpdateFields) (*models.UsageRecord, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) (int64, error)
}

// TypeResolver maps a usage type code onto its reference descriptor.
type TypeResolver interface {
	Resolve(ctx context.Context, id int) (*models.UsageType, error)
}

// ServiceParams groups dependencies for the usage service.
type ServiceParams struct {
	Repo  Store
	Types TypeResolver
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service exposes owner-scoped usage record operations.
type Service interface {
	Record(ctx context.Context, ownerID string, input CreateInput) (UsageRecordDTO, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (UsageRecordDTO, error)
	List(ctx context.Context, ownerID string, params pagination.Params) ([]UsageRecordDTO, error)
	Update(ctx context.Context, ownerID string, id uuid.UUID, input UpdateInput) (UsageRecordDTO, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) (DeleteResultDTO, error)
}

type service struct {
	repo  Store
	types TypeResolver
	now   func() time.Time
}

// NewService builds a usage service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage repo is required")
	}
	if params.Types == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage type resolver is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:  params.Repo,
		types: params.Types,
		now:   now,
	}, nil
}

// Record resolves the usage type before writing anything.
func (s *service) Record(ctx context.Context, ownerID string, input CreateInput) (UsageRecordDTO, error) {
	if err := requireOwner(ownerID); err != nil {
		return UsageRecordDTO{}, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return UsageRecordDTO{}, err
	}

	usageType, err := s.types.Resolve(ctx, input.UsageTypeID)
	if err != nil {
		return UsageRecordDTO{}, err
	}

	record := &models.UsageRecord{
		OwnerID:    ownerID,
		Amount:     input.Amount,
		UsageType:  models.SnapshotOf(*usageType),
		RecordedAt: s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return UsageRecordDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "usage record already exists")
		}
		return UsageRecordDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create usage record")
	}
	return ToDTO(*created), nil
}

func (s *service) Get(ctx context.Context, ownerID string, id uuid.UUID) (UsageRecordDTO, error) {
	if err := requireOwner(ownerID); err != nil {
		return UsageRecordDTO{}, err
	}
	record, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return UsageRecordDTO{}, mapRepoError(err, "load usage record")
	}
	return ToDTO(*record), nil
}

func (s *service) List(ctx context.Context, ownerID string, params pagination.Params) ([]UsageRecordDTO, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx, ownerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list usage records")
	}
	return ToDTOs(records), nil
}

// Update resolves a new usage type code, if any, before touching the record.
func (s *service) Update(ctx context.Context, ownerID string, id uuid.UUID, input UpdateInput) (UsageRecordDTO, error) {
	if err := requireOwner(ownerID); err != nil {
		return UsageRecordDTO{}, err
	}

	var fields UpdateFields
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return UsageRecordDTO{}, err
		}
		amount := *input.Amount
		fields.Amount = &amount
	}
	if input.UsageTypeID != nil {
		usageType, err := s.types.Resolve(ctx, *input.UsageTypeID)
		if err != nil {
			return UsageRecordDTO{}, err
		}
		snapshot := models.SnapshotOf(*usageType)
		fields.UsageType = &snapshot
	}

	record, err := s.repo.Update(ctx, id, ownerID, fields)
	if err != nil {
		return UsageRecordDTO{}, mapRepoError(err, "update usage record")
	}
	return ToDTO(*record), nil
}

func (s *service) Delete(ctx context.Context, ownerID string, id uuid.UUID) (DeleteResultDTO, error) {
	if err := requireOwner(ownerID); err != nil {
		return DeleteResultDTO{}, err
	}
	count, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return DeleteResultDTO{}, mapRepoError(err, "delete usage record")
	}
	return NewDeleteResult(count), nil
}

func requireOwner(ownerID string) error {
	if ownerID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "owner is required")
	}
	return nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be a finite number").
			WithDetails(map[string]any{"field": "amount"})
	}
	return nil
}

func mapRepoError(err error, action string) error {
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "usage record not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
