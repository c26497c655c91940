package entity

import (
	"time"

	"github.com/google/uuid"
)

// PantryItem is one inventory row, shared across sessions and manual edits.
type PantryItem struct {
	Id             uuid.UUID
	HouseholdId    uuid.UUID
	Name           string
	NormalizedName string
	Qty            float64
	Unit           string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// PantryTransaction is one signed inventory delta in the append-only ledger.
// SessionId tags session-caused decrements so they can be found and reversed.
type PantryTransaction struct {
	Id           uuid.UUID
	HouseholdId  uuid.UUID
	PantryItemId uuid.UUID
	SessionId    *uuid.UUID
	Delta        float64
	Reason       string
	UndoneAt     *time.Time
	CreatedAt    time.Time
}

func (t *PantryTransaction) IsUndone() bool {
	return t.UndoneAt != nil
}
