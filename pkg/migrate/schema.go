package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/carbon-api/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AutoMigrate creates the schema from the gorm models and seeds the usage type
// reference set. It backs the sqlite driver and repository tests, where the postgres
// SQL migrations do not apply.
func AutoMigrate(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	tx := conn.WithContext(ctx)
	if err := tx.AutoMigrate(&models.UsageType{}, &models.UsageRecord{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return SeedUsageTypes(ctx, conn)
}

// SeedUsageTypes inserts the reference usage types, leaving existing rows untouched.
func SeedUsageTypes(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	seed := models.DefaultUsageTypes()
	err := conn.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&seed).Error
	if err != nil {
		return fmt.Errorf("seed usage types: %w", err)
	}
	return nil
}
