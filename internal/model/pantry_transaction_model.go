package model

import (
	"time"

	"github.com/google/uuid"
)

// PantryTransaction is the append-only inventory ledger. Session-caused rows
// carry the session id so a session's consumption can be reversed later.
type PantryTransaction struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HouseholdId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	PantryItemId uuid.UUID  `gorm:"type:uuid;not null;index"`
	SessionId    *uuid.UUID `gorm:"type:uuid;index"`
	Delta        float64    `gorm:"not null"`
	Reason       string     `gorm:"type:varchar(64)"`
	UndoneAt     *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (PantryTransaction) TableName() string {
	return "pantry_transactions"
}
