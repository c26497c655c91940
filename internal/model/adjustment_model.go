package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CookAdjustment struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	StepIndex int       `gorm:"not null"`
	Kind      string    `gorm:"type:varchar(32);not null"`

	Title      string         `gorm:"type:varchar(255)"`
	Bullets    datatypes.JSON `gorm:"type:jsonb"`
	Warnings   datatypes.JSON `gorm:"type:jsonb"`
	Confidence float64
	Source     string `gorm:"type:varchar(16);not null"`

	BeforeStep datatypes.JSON `gorm:"type:jsonb"`
	AfterStep  datatypes.JSON `gorm:"type:jsonb"`

	AppliedAt time.Time `gorm:"not null"`
	UndoneAt  *time.Time
}

func (CookAdjustment) TableName() string {
	return "cook_adjustments"
}
