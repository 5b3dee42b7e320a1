package usagetypes

import (
	"context"

	"github.com/angelmondragon/carbon-api/internal/repo"
	"github.com/angelmondragon/carbon-api/pkg/db/models"
	"github.com/angelmondragon/carbon-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads the usage type reference table.
type Repository struct {
	repo.Base
}

// NewRepository constructs a usage type repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID returns gorm.ErrRecordNotFound when the code is unknown.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.UsageType, error) {
	var usageType models.UsageType
	if err := r.DB(ctx).Where("id = ?", id).First(&usageType).Error; err != nil {
		return nil, err
	}
	return &usageType, nil
}

// List returns one page of the reference set ordered by id.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.UsageType, error) {
	var types []models.UsageType
	err := r.DB(ctx).
		Scopes(repo.Page(params)).
		Order("id ASC").
		Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

// Upsert writes the supplied types, replacing name, unit and factor of existing codes.
func (r *Repository) Upsert(ctx context.Context, types []models.UsageType) error {
	if len(types) == 0 {
		return nil
	}
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "unit", "factor"}),
		}).
		Create(&types).Error
}
