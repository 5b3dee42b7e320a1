package usages

import (
	"context"
	"errors"

	"github.com/angelmondragon/carbon-api/internal/repo"
	"github.com/angelmondragon/carbon-api/pkg/db/models"
	"github.com/angelmondragon/carbon-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no record matches both the id and the owner.
var ErrNotFound = errors.New("usage record not found")

// UpdateFields lists the columns a partial update may replace. Nil fields are left as stored.
type UpdateFields struct {
	Amount    *float64
	UsageType *models.UsageTypeSnapshot
}

// Empty reports whether the update carries no field at all.
func (f UpdateFields) Empty() bool {
	return f.Amount == nil && f.UsageType == nil
}

func (f UpdateFields) columns() map[string]any {
	values := map[string]any{}
	if f.Amount != nil {
		values["amount"] = *f.Amount
	}
	if f.UsageType != nil {
		values["usage_type_id"] = f.UsageType.TypeID
		values["usage_type_name"] = f.UsageType.Name
		values["usage_type_unit"] = f.UsageType.Unit
		values["usage_type_factor"] = f.UsageType.Factor
	}
	return values
}

// Repository persists usage records. Every read and write is filtered by owner.
type Repository struct {
	repo.Base
}

// NewRepository constructs a usage repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts the record, assigning an id when the caller left it empty.
func (r *Repository) Create(ctx context.Context, record *models.UsageRecord) (*models.UsageRecord, error) {
	if record == nil {
		return nil, gorm.ErrInvalidValue
	}
	if err := r.DB(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.UsageRecord, error) {
	var record models.UsageRecord
	err := r.DB(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// List returns the owner's records oldest first, ties broken by id.
func (r *Repository) List(ctx context.Context, ownerID string, params pagination.Params) ([]models.UsageRecord, error) {
	var records []models.UsageRecord
	err := r.DB(ctx).
		Scopes(repo.OwnedBy(ownerID), repo.Page(params)).
		Order("recorded_at ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Update writes the non-nil fields and returns the stored record.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, ownerID string, fields UpdateFields) (*models.UsageRecord, error) {
	if fields.Empty() {
		return r.Get(ctx, id, ownerID)
	}

	res := r.DB(ctx).
		Model(&models.UsageRecord{}).
		Scopes(repo.OwnedBy(ownerID)).
		Where("id = ?", id).
		Updates(fields.columns())
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id, ownerID)
}

// Delete hard-deletes the record and returns how many rows were removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID, ownerID string) (int64, error) {
	res := r.DB(ctx).
		Scopes(repo.OwnedBy(ownerID)).
		Where("id = ?", id).
		Delete(&models.UsageRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return res.RowsAffected, nil
}
