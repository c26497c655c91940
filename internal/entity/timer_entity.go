package entity

import (
	"time"

	"github.com/google/uuid"
)

type TimerState string

const (
	TimerStateCreated TimerState = "created"
	TimerStateRunning TimerState = "running"
	TimerStatePaused  TimerState = "paused"
	TimerStateDone    TimerState = "done"
	TimerStateDeleted TimerState = "deleted"
)

// Timer is one countdown bound to a step. Running timers carry started_at and
// due_at; created/paused timers carry remaining_sec instead. Remaining time is
// always derived at read time, never ticked by a background process.
type Timer struct {
	Id        uuid.UUID  `json:"id"`
	ClientId  string     `json:"client_id,omitempty"`
	Label     string     `json:"label"`
	StepIndex int        `json:"step_index"`
	State     TimerState `json:"state"`

	DurationSec  int        `json:"duration_sec"`
	RemainingSec *int       `json:"remaining_sec,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	DueAt        *time.Time `json:"due_at,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// RemainingAt derives the seconds left on the timer at now.
func (t *Timer) RemainingAt(now time.Time) int {
	switch t.State {
	case TimerStateRunning:
		if t.DueAt == nil {
			return 0
		}
		rem := int(t.DueAt.Sub(now).Round(time.Second).Seconds())
		if rem < 0 {
			return 0
		}
		return rem
	case TimerStateCreated, TimerStatePaused:
		if t.RemainingSec != nil {
			return *t.RemainingSec
		}
		return t.DurationSec
	default:
		return 0
	}
}

// ExpiredAt reports whether a running timer has passed its due time.
func (t *Timer) ExpiredAt(now time.Time) bool {
	return t.State == TimerStateRunning && t.DueAt != nil && !now.Before(*t.DueAt)
}
