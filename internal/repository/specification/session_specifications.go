package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BySessionID filters child rows (events, adjustments, pantry transactions).
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByHouseholdID struct {
	HouseholdID uuid.UUID
}

func (s ByHouseholdID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("household_id = ?", s.HouseholdID)
}

type ByRecipeID struct {
	RecipeID uuid.UUID
}

func (s ByRecipeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("recipe_id = ?", s.RecipeID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// NotUndone filters ledger/log rows that are still reversible.
type NotUndone struct{}

func (s NotUndone) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("undone_at IS NULL")
}

// CreatedAfter bounds the event window read by inference.
type CreatedAfter struct {
	After time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.After)
}

// ByNormalizedName matches a pantry row by its canonical name.
type ByNormalizedName struct {
	Name string
}

func (s ByNormalizedName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("normalized_name = ?", s.Name)
}

// ForUpdate takes a row lock so pantry decrements follow the same
// single-row-update discipline as manual pantry edits.
type ForUpdate struct{}

func (s ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
