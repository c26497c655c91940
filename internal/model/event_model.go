package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CookEvent rows are append-only; there is no update or delete path.
type CookEvent struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   uuid.UUID  `gorm:"type:uuid;not null;index:idx_events_session_created"`
	Type        string     `gorm:"type:varchar(32);not null"`
	StepIndex   *int       `gorm:""`
	BulletIndex *int       `gorm:""`
	TimerId     *uuid.UUID `gorm:"type:uuid"`

	Meta datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_events_session_created"`
}

func (CookEvent) TableName() string {
	return "cook_events"
}
