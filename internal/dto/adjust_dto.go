package dto

import (
	"time"

	"github.com/google/uuid"
)

type PreviewAdjustmentRequest struct {
	StepIndex int    `json:"step_index" validate:"min=0"`
	Kind      string `json:"kind" validate:"required"`
	Context   string `json:"context"`
}

type StepDiff struct {
	Before RecipeStepDTO `json:"before"`
	After  RecipeStepDTO `json:"after"`
}

type PreviewAdjustmentResponse struct {
	StepIndex  int             `json:"step_index"`
	Kind       string          `json:"kind"`
	Title      string          `json:"title"`
	Bullets    []string        `json:"bullets"`
	Warnings   []string        `json:"warnings"`
	Source     string          `json:"source"`
	Confidence float64         `json:"confidence"`
	Diff       StepDiff        `json:"diff"`
	Steps      []RecipeStepDTO `json:"steps"`
}

// ApplyAdjustmentRequest carries the previewed replacement back. Only the
// one replaced step travels; the service snapshots before_step and rebuilds
// the full override list itself, so the client can forge neither.
type ApplyAdjustmentRequest struct {
	StepIndex  int      `json:"step_index" validate:"min=0"`
	Kind       string   `json:"kind" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Bullets    []string `json:"bullets" validate:"required,min=1"`
	Warnings   []string `json:"warnings"`
	Source     string   `json:"source" validate:"required,oneof=rule generated generic"`
	Confidence float64  `json:"confidence"`
}

type AdjustmentResponse struct {
	Id         uuid.UUID  `json:"id"`
	StepIndex  int        `json:"step_index"`
	Kind       string     `json:"kind"`
	Title      string     `json:"title"`
	Bullets    []string   `json:"bullets"`
	Warnings   []string   `json:"warnings"`
	Source     string     `json:"source"`
	Confidence float64    `json:"confidence"`
	AppliedAt  time.Time  `json:"applied_at"`
	UndoneAt   *time.Time `json:"undone_at,omitempty"`
}

type UndoAdjustmentRequest struct {
	AdjustmentId *uuid.UUID `json:"adjustment_id,omitempty"`
}

type UndoAdjustmentResponse struct {
	Adjustment *AdjustmentResponse `json:"adjustment"`
	Restored   bool                `json:"restored"`
	Warning    string              `json:"warning,omitempty"`
	Steps      []RecipeStepDTO     `json:"steps"`
}
