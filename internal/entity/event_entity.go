package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSessionStart     EventType = "session_start"
	EventStepNavigate     EventType = "step_navigate"
	EventCheckStep        EventType = "check_step"
	EventUncheckStep      EventType = "uncheck_step"
	EventTimerCreate      EventType = "timer_create"
	EventTimerStart       EventType = "timer_start"
	EventTimerPause       EventType = "timer_pause"
	EventTimerDone        EventType = "timer_done"
	EventTimerDelete      EventType = "timer_delete"
	EventServingsChange   EventType = "servings_change"
	EventAdjustApply      EventType = "adjust_apply"
	EventAdjustUndo       EventType = "adjust_undo"
	EventSessionCompleted EventType = "session_completed"
	EventSessionAbandoned EventType = "session_abandoned"
)

// EventMeta is the closed set of payload shapes an event may carry.
// Implementations are the *Meta structs below; nothing else satisfies it.
type EventMeta interface {
	metaEventType() EventType
}

type NavigateMeta struct {
	FromStep int    `json:"from_step"`
	ToStep   int    `json:"to_step"`
	Source   string `json:"source"` // "user" | "auto_jump" | "mark_complete"
}

func (NavigateMeta) metaEventType() EventType { return EventStepNavigate }

type CheckMeta struct {
	Checked bool `json:"checked"`
}

func (CheckMeta) metaEventType() EventType { return EventCheckStep }

type TimerMeta struct {
	Label        string `json:"label,omitempty"`
	DurationSec  int    `json:"duration_sec,omitempty"`
	RemainingSec int    `json:"remaining_sec,omitempty"`
	Action       string `json:"action,omitempty"`
}

func (TimerMeta) metaEventType() EventType { return EventTimerCreate }

type ServingsMeta struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

func (ServingsMeta) metaEventType() EventType { return EventServingsChange }

type AdjustMeta struct {
	AdjustmentId uuid.UUID `json:"adjustment_id"`
	Kind         string    `json:"kind,omitempty"`
	Source       string    `json:"source,omitempty"`
	Restored     *bool     `json:"restored,omitempty"`
}

func (AdjustMeta) metaEventType() EventType { return EventAdjustApply }

type LifecycleMeta struct {
	Reason string `json:"reason,omitempty"`
}

func (LifecycleMeta) metaEventType() EventType { return EventSessionStart }

// Event is one immutable interaction fact. Events are never mutated or
// deleted; they are the sole input to auto-step inference and to the
// "why" explanation.
type Event struct {
	Id          uuid.UUID
	SessionId   uuid.UUID
	Type        EventType
	StepIndex   *int
	BulletIndex *int
	TimerId     *uuid.UUID
	Meta        EventMeta
	CreatedAt   time.Time
}
