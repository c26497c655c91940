package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Recipe is owned by the recipe CRUD subsystem; the engine only reads it.
type Recipe struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HouseholdId uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Servings    float64   `gorm:"not null;default:1"`

	Steps       datatypes.JSON `gorm:"type:jsonb"`
	Ingredients datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Recipe) TableName() string {
	return "recipes"
}
