package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	RecipeId uuid.UUID `json:"recipe_id" validate:"required"`
}

type RecipeStepDTO struct {
	Title      string   `json:"title"`
	Bullets    []string `json:"bullets"`
	MinutesEst *int     `json:"minutes_est,omitempty"`
}

type TimerResponse struct {
	Id           uuid.UUID  `json:"id"`
	ClientId     string     `json:"client_id,omitempty"`
	Label        string     `json:"label"`
	StepIndex    int        `json:"step_index"`
	State        string     `json:"state"`
	DurationSec  int        `json:"duration_sec"`
	RemainingSec int        `json:"remaining_sec"`
	DueAt        *time.Time `json:"due_at,omitempty"`
}

type SessionResponse struct {
	Id               uuid.UUID `json:"id"`
	RecipeId         uuid.UUID `json:"recipe_id"`
	Status           string    `json:"status"`
	CurrentStepIndex int       `json:"current_step_index"`

	ServingsBase   float64 `json:"servings_base"`
	ServingsTarget float64 `json:"servings_target"`

	Steps      []RecipeStepDTO      `json:"steps"`
	StepChecks map[int]map[int]bool `json:"step_checks"`
	Timers     []TimerResponse      `json:"timers"`

	AutoStepEnabled        bool    `json:"auto_step_enabled"`
	AutoStepMode           string  `json:"auto_step_mode"`
	AutoStepSuggestedIndex *int    `json:"auto_step_suggested_index,omitempty"`
	AutoStepConfidence     float64 `json:"auto_step_confidence"`
	AutoStepReason         string  `json:"auto_step_reason,omitempty"`

	NextAction *NextActionDTO `json:"next_action,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type NextActionDTO struct {
	Action      string `json:"action"`
	StepIndex   int    `json:"step_index"`
	DurationSec int    `json:"duration_sec,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type StepCheckPatch struct {
	StepIndex   int  `json:"step_index" validate:"min=0"`
	BulletIndex int  `json:"bullet_index" validate:"min=0"`
	Checked     bool `json:"checked"`
}

type MarkStepCompletePatch struct {
	StepIndex int `json:"step_index" validate:"min=0"`
}

type TimerCreatePatch struct {
	ClientId    string `json:"client_id"`
	Label       string `json:"label"`
	StepIndex   int    `json:"step_index" validate:"min=0"`
	DurationSec int    `json:"duration_sec" validate:"required,min=1"`
}

type TimerActionPatch struct {
	TimerId uuid.UUID `json:"timer_id" validate:"required"`
	Action  string    `json:"action" validate:"required,oneof=start pause resume done delete"`
}

// MutateSessionRequest is the single patch surface for live-cook mutations.
// Every field is optional; set fields are applied in a fixed order.
type MutateSessionRequest struct {
	CurrentStepIndex *int                   `json:"current_step_index,omitempty"`
	StepCheck        *StepCheckPatch        `json:"step_check,omitempty"`
	MarkStepComplete *MarkStepCompletePatch `json:"mark_step_complete,omitempty"`
	ServingsTarget   *float64               `json:"servings_target,omitempty"`
	TimerCreate      *TimerCreatePatch      `json:"timer_create,omitempty"`
	TimerAction      *TimerActionPatch      `json:"timer_action,omitempty"`
	AutoStepEnabled  *bool                  `json:"auto_step_enabled,omitempty"`
	AutoStepMode     *string                `json:"auto_step_mode,omitempty" validate:"omitempty,oneof=suggest auto_jump"`
}

type EndSessionRequest struct {
	Action string `json:"action" validate:"required,oneof=complete abandon"`
}

type CompleteSessionRequest struct {
	ServingsMade     *float64 `json:"servings_made,omitempty"`
	LeftoverServings *float64 `json:"leftover_servings,omitempty"`
	CreateLeftover   bool     `json:"create_leftover"`
	FinalNotes       string   `json:"final_notes"`
}

type SessionRecap struct {
	ChecklistCompletionRate float64 `json:"checklist_completion_rate"`
	TimersUsed              int     `json:"timers_used"`
	AdjustmentsApplied      int     `json:"adjustments_applied"`
	LeftoverItemCreated     bool    `json:"leftover_item_created"`
}

type CompleteSessionResponse struct {
	Session *SessionResponse `json:"session"`
	Recap   SessionRecap     `json:"recap"`
}

type EventResponse struct {
	Id          uuid.UUID   `json:"id"`
	Type        string      `json:"type"`
	StepIndex   *int        `json:"step_index,omitempty"`
	BulletIndex *int        `json:"bullet_index,omitempty"`
	TimerId     *uuid.UUID  `json:"timer_id,omitempty"`
	Meta        interface{} `json:"meta,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type WhySignalDTO struct {
	EventType  string  `json:"event_type"`
	StepIndex  int     `json:"step_index"`
	AgeSeconds float64 `json:"age_seconds"`
	Weight     float64 `json:"weight"`
	Points     float64 `json:"points"`
}

type WhyResponse struct {
	SuggestedIndex   *int           `json:"suggested_index,omitempty"`
	Confidence       float64        `json:"confidence"`
	Reason           string         `json:"reason"`
	ManualOverride   bool           `json:"manual_override_active"`
	CurrentStepIndex int            `json:"current_step_index"`
	Signals          []WhySignalDTO `json:"signals"`
	NextAction       *NextActionDTO `json:"next_action,omitempty"`
}
