package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageTypeSnapshot is the copy of a UsageType taken when a record is written.
// It is not a foreign key; later edits to the reference set do not alter it.
type UsageTypeSnapshot struct {
	TypeID int     `gorm:"column:id;not null" json:"id"`
	Name   string  `gorm:"column:name;type:text;not null" json:"name"`
	Unit   string  `gorm:"column:unit;type:text;not null" json:"unit"`
	Factor float64 `gorm:"column:factor;not null" json:"factor"`
}

// SnapshotOf copies the reference type into an embeddable snapshot.
func SnapshotOf(t UsageType) UsageTypeSnapshot {
	return UsageTypeSnapshot{TypeID: t.ID, Name: t.Name, Unit: t.Unit, Factor: t.Factor}
}

// UsageRecord is one owner-scoped consumption measurement.
type UsageRecord struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OwnerID    string            `gorm:"type:text;not null;index"`
	Amount     float64           `gorm:"not null"`
	UsageType  UsageTypeSnapshot `gorm:"embedded;embeddedPrefix:usage_type_"`
	RecordedAt time.Time         `gorm:"not null"`
}

func (UsageRecord) TableName() string {
	return "usage_records"
}

// BeforeCreate assigns the identifier when the caller did not.
func (u *UsageRecord) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
