package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

type AutoStepMode string

const (
	AutoStepModeSuggest  AutoStepMode = "suggest"
	AutoStepModeAutoJump AutoStepMode = "auto_jump"
)

// RecipeStep is one ordered instruction block of a recipe.
type RecipeStep struct {
	Title      string   `json:"title"`
	Bullets    []string `json:"bullets"`
	MinutesEst *int     `json:"minutes_est,omitempty"`
}

// StepChecks maps step index -> bullet index -> checked. Keys are sparse.
type StepChecks map[int]map[int]bool

func (sc StepChecks) Set(stepIndex, bulletIndex int, checked bool) {
	if sc[stepIndex] == nil {
		sc[stepIndex] = make(map[int]bool)
	}
	sc[stepIndex][bulletIndex] = checked
}

func (sc StepChecks) IsChecked(stepIndex, bulletIndex int) bool {
	return sc[stepIndex][bulletIndex]
}

// AllChecked reports whether every bullet of the step is checked.
// A step with no bullets counts as fully checked.
func (sc StepChecks) AllChecked(stepIndex, bulletCount int) bool {
	for i := 0; i < bulletCount; i++ {
		if !sc[stepIndex][i] {
			return false
		}
	}
	return true
}

// CompletionRate is the fraction of all bullets across steps that are checked.
func (sc StepChecks) CompletionRate(steps []RecipeStep) float64 {
	total := 0
	checked := 0
	for i, step := range steps {
		for j := range step.Bullets {
			total++
			if sc[i][j] {
				checked++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(checked) / float64(total)
}

// Session is one cooking attempt against one recipe. It exclusively owns its
// timers, events and adjustments; the recipe is referenced by id only.
type Session struct {
	Id          uuid.UUID
	RecipeId    uuid.UUID
	HouseholdId uuid.UUID
	UserId      uuid.UUID

	Status           SessionStatus
	CurrentStepIndex int

	ServingsBase   float64
	ServingsTarget float64

	StepChecks StepChecks
	Timers     map[string]*Timer

	// StepsOverride, when non-nil, fully replaces the recipe's step list.
	// It is set by the first applied adjustment and rewritten by later ones.
	StepsOverride []RecipeStep

	AutoStepEnabled        bool
	AutoStepMode           AutoStepMode
	AutoStepSuggestedIndex *int
	AutoStepConfidence     float64
	AutoStepReason         string

	// ManualOverrideUntil suppresses auto-jump while in the future.
	ManualOverrideUntil      *time.Time
	LastInteractionAt        *time.Time
	LastInteractionStepIndex *int

	ServingsMade     *float64
	LeftoverServings *float64
	FinalNotes       string

	CompletedAt *time.Time
	AbandonedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (s *Session) IsTerminal() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusAbandoned
}

// ServingRatio is the scaling factor applied to ingredient quantities.
func (s *Session) ServingRatio() float64 {
	if s.ServingsBase <= 0 {
		return 1
	}
	return s.ServingsTarget / s.ServingsBase
}

// EffectiveSteps returns the override if present, else the recipe's steps.
func (s *Session) EffectiveSteps(recipeSteps []RecipeStep) []RecipeStep {
	if s.StepsOverride != nil {
		return s.StepsOverride
	}
	return recipeSteps
}

// ManualOverrideActive reports whether a manual navigation window is open at now.
func (s *Session) ManualOverrideActive(now time.Time) bool {
	return s.ManualOverrideUntil != nil && now.Before(*s.ManualOverrideUntil)
}

func (s *Session) Touch(now time.Time, stepIndex int) {
	s.LastInteractionAt = &now
	s.LastInteractionStepIndex = &stepIndex
}
