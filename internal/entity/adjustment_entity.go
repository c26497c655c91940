package entity

import (
	"time"

	"github.com/google/uuid"
)

type AdjustmentKind string

const (
	AdjustTooSalty          AdjustmentKind = "too_salty"
	AdjustTooBland          AdjustmentKind = "too_bland"
	AdjustTooThick          AdjustmentKind = "too_thick"
	AdjustTooThin           AdjustmentKind = "too_thin"
	AdjustBurning           AdjustmentKind = "burning"
	AdjustUndercooked       AdjustmentKind = "undercooked"
	AdjustMissingIngredient AdjustmentKind = "missing_ingredient"
	AdjustSubstitute        AdjustmentKind = "substitute"
)

type AdjustmentSource string

const (
	AdjustSourceRule      AdjustmentSource = "rule"
	AdjustSourceGenerated AdjustmentSource = "generated"
	AdjustSourceGeneric   AdjustmentSource = "generic"
)

// Adjustment is one applied step rewrite. Entries are append-only: undo marks
// UndoneAt instead of deleting. BeforeStep is the snapshot taken at apply time
// and is required for an exact revert; when it is missing (legacy data) undo
// marks the entry undone without restoring content.
type Adjustment struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	StepIndex int
	Kind      AdjustmentKind

	Title      string
	Bullets    []string
	Warnings   []string
	Confidence float64
	Source     AdjustmentSource

	BeforeStep *RecipeStep
	AfterStep  RecipeStep

	AppliedAt time.Time
	UndoneAt  *time.Time
}

func (a *Adjustment) IsUndone() bool {
	return a.UndoneAt != nil
}
