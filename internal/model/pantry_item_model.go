package model

import (
	"time"

	"github.com/google/uuid"
)

type PantryItem struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HouseholdId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pantry_household_name"`
	Name           string    `gorm:"type:varchar(255);not null"`
	NormalizedName string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_pantry_household_name"`
	Qty            float64   `gorm:"not null;default:0"`
	Unit           string    `gorm:"type:varchar(32)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (PantryItem) TableName() string {
	return "pantry_items"
}
