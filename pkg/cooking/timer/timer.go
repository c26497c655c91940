// Package timer implements the per-session timer registry. Every transition
// is a pure function of (timer, now); remaining time is derived at read time
// from due_at or remaining_sec, so no background ticker is needed and the
// arithmetic is deterministic under test.
package timer

import (
	"errors"
	"fmt"
	"time"

	"cooksession-be/internal/entity"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("timer not found")
	ErrInvalidTransition = errors.New("invalid timer transition")
)

// Action is a client-requested timer transition.
type Action string

const (
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionDone   Action = "done"
	ActionDelete Action = "delete"
)

// legalTransitions is the closed transition table. Anything not listed is
// rejected with ErrInvalidTransition.
var legalTransitions = map[entity.TimerState]map[Action]bool{
	entity.TimerStateCreated: {ActionStart: true, ActionDone: true, ActionDelete: true},
	entity.TimerStateRunning: {ActionPause: true, ActionDone: true, ActionDelete: true},
	entity.TimerStatePaused:  {ActionStart: true, ActionResume: true, ActionDone: true, ActionDelete: true},
	entity.TimerStateDone:    {ActionDelete: true},
	entity.TimerStateDeleted: {},
}

// Registry operates on the timer map owned by one session aggregate. The
// caller holds the session lock; the registry itself is not goroutine-safe.
type Registry struct {
	timers map[string]*entity.Timer
}

func NewRegistry(timers map[string]*entity.Timer) *Registry {
	if timers == nil {
		timers = make(map[string]*entity.Timer)
	}
	return &Registry{timers: timers}
}

func (r *Registry) Timers() map[string]*entity.Timer {
	return r.timers
}

func (r *Registry) Get(id string) (*entity.Timer, bool) {
	t, ok := r.timers[id]
	return t, ok
}

// Create registers a new timer in the created state. When clientId matches an
// existing non-deleted timer the existing one is returned unchanged, so a
// retried create is idempotent instead of erroring.
func (r *Registry) Create(clientId, label string, stepIndex, durationSec int, now time.Time) (*entity.Timer, bool) {
	if clientId != "" {
		for _, t := range r.timers {
			if t.ClientId == clientId && t.State != entity.TimerStateDeleted {
				return t, false
			}
		}
	}

	remaining := durationSec
	t := &entity.Timer{
		Id:           uuid.New(),
		ClientId:     clientId,
		Label:        label,
		StepIndex:    stepIndex,
		State:        entity.TimerStateCreated,
		DurationSec:  durationSec,
		RemainingSec: &remaining,
		CreatedAt:    now,
	}
	r.timers[t.Id.String()] = t
	return t, true
}

// Apply runs one transition against the timer with the given id.
func (r *Registry) Apply(id string, action Action, now time.Time) (*entity.Timer, error) {
	t, ok := r.timers[id]
	if !ok {
		return nil, ErrNotFound
	}

	next, err := Transition(t, action, now)
	if err != nil {
		return nil, err
	}
	r.timers[id] = next
	return next, nil
}

// Transition is the pure transition function. It never mutates the input
// timer; callers receive a fresh value.
func Transition(t *entity.Timer, action Action, now time.Time) (*entity.Timer, error) {
	if !legalTransitions[t.State][action] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.State, action)
	}

	next := *t
	next.UpdatedAt = &now

	switch action {
	case ActionStart, ActionResume:
		// The stored remaining becomes the new countdown duration, so
		// pause immediately followed by resume conserves due_at.
		remaining := t.DurationSec
		if t.RemainingSec != nil {
			remaining = *t.RemainingSec
		}
		due := now.Add(time.Duration(remaining) * time.Second)
		next.State = entity.TimerStateRunning
		next.StartedAt = &now
		next.DueAt = &due
		next.RemainingSec = nil

	case ActionPause:
		remaining := 0
		if t.DueAt != nil {
			remaining = int(t.DueAt.Sub(now).Round(time.Second).Seconds())
			if remaining < 0 {
				remaining = 0
			}
		}
		next.State = entity.TimerStatePaused
		next.RemainingSec = &remaining
		next.StartedAt = nil
		next.DueAt = nil

	case ActionDone:
		next.State = entity.TimerStateDone
		next.RemainingSec = nil
		next.StartedAt = nil
		next.DueAt = nil

	case ActionDelete:
		next.State = entity.TimerStateDeleted
		next.RemainingSec = nil
		next.StartedAt = nil
		next.DueAt = nil

	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	return &next, nil
}

// EventTypeFor maps a transition to the event appended to the session log.
func EventTypeFor(action Action) entity.EventType {
	switch action {
	case ActionStart, ActionResume:
		return entity.EventTimerStart
	case ActionPause:
		return entity.EventTimerPause
	case ActionDone:
		return entity.EventTimerDone
	case ActionDelete:
		return entity.EventTimerDelete
	default:
		return entity.EventTimerCreate
	}
}
