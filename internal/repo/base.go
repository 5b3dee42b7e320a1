package repo

import (
	"context"

	"github.com/angelmondragon/carbon-api/pkg/pagination"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// OwnedBy restricts a query to rows belonging to ownerID.
func OwnedBy(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("owner_id = ?", ownerID)
	}
}

// Page applies a normalized limit/offset window.
func Page(params pagination.Params) func(*gorm.DB) *gorm.DB {
	params = params.Normalize()
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(params.Limit).Offset(params.Offset)
	}
}
