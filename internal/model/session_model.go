package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CookSession struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipeId    uuid.UUID `gorm:"type:uuid;not null;index"`
	HouseholdId uuid.UUID `gorm:"type:uuid;not null;index:idx_sessions_household_recipe"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`

	Status           string `gorm:"type:varchar(16);not null;default:'active'"`
	CurrentStepIndex int    `gorm:"not null;default:0"`

	ServingsBase   float64 `gorm:"not null;default:1"`
	ServingsTarget float64 `gorm:"not null;default:1"`

	// Owned value maps live as JSONB inside the aggregate row; every mutation
	// rewrites them whole so readers never see a half-updated map.
	StepChecks    datatypes.JSON `gorm:"type:jsonb"`
	Timers        datatypes.JSON `gorm:"type:jsonb"`
	StepsOverride datatypes.JSON `gorm:"type:jsonb"`

	AutoStepEnabled        bool   `gorm:"not null;default:true"`
	AutoStepMode           string `gorm:"type:varchar(16);not null;default:'suggest'"`
	AutoStepSuggestedIndex *int
	AutoStepConfidence     float64
	AutoStepReason         string `gorm:"type:text"`

	ManualOverrideUntil      *time.Time
	LastInteractionAt        *time.Time
	LastInteractionStepIndex *int

	ServingsMade     *float64
	LeftoverServings *float64
	FinalNotes       string `gorm:"type:text"`

	CompletedAt *time.Time
	AbandonedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (CookSession) TableName() string {
	return "cook_sessions"
}
