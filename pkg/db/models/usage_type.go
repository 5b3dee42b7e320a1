package models

// UsageType is the static reference descriptor a usage code resolves to.
type UsageType struct {
	ID     int     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name   string  `gorm:"type:text;not null" json:"name"`
	Unit   string  `gorm:"type:text;not null" json:"unit"`
	Factor float64 `gorm:"not null" json:"factor"`
}

func (UsageType) TableName() string {
	return "usage_types"
}

// DefaultUsageTypes returns the reference set every environment is seeded with.
func DefaultUsageTypes() []UsageType {
	return []UsageType{
		{ID: 100, Name: "electricity", Unit: "kwh", Factor: 1.5},
		{ID: 101, Name: "water", Unit: "kg", Factor: 26.93},
		{ID: 102, Name: "heating", Unit: "kwh", Factor: 3.892},
		{ID: 103, Name: "heating", Unit: "l", Factor: 8.57},
		{ID: 104, Name: "heating", Unit: "m3", Factor: 19.456},
	}
}
