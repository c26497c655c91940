package autostep

import (
	"fmt"
	"time"

	"cooksession-be/internal/entity"
)

// NextAction is a coaching hint for the current step, derived (not stored)
// from checklist and timer state.
type NextAction string

const (
	ActionNone             NextAction = ""
	ActionStartTimer       NextAction = "start_timer"
	ActionMarkStepComplete NextAction = "mark_step_complete"
)

// Hint describes the recommended next interaction on the current step.
type Hint struct {
	Action      NextAction `json:"action"`
	StepIndex   int        `json:"step_index"`
	DurationSec int        `json:"duration_sec,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// SuggestNextAction inspects the current step. Once every bullet is checked:
// a step with an estimated duration and no timer yet gets a start-timer hint;
// once all of the step's timers have finished it gets a mark-complete hint.
// The mark-complete hint must never appear while a step timer is still
// outstanding.
func SuggestNextAction(sess *entity.Session, steps []entity.RecipeStep, now time.Time) Hint {
	idx := sess.CurrentStepIndex
	if idx < 0 || idx >= len(steps) {
		return Hint{Action: ActionNone, StepIndex: idx}
	}
	step := steps[idx]

	if !sess.StepChecks.AllChecked(idx, len(step.Bullets)) {
		return Hint{Action: ActionNone, StepIndex: idx}
	}

	hasTimer := false
	allDone := true
	for _, t := range sess.Timers {
		if t.StepIndex != idx || t.State == entity.TimerStateDeleted {
			continue
		}
		hasTimer = true
		if t.State != entity.TimerStateDone && !t.ExpiredAt(now) {
			allDone = false
		}
	}

	if !hasTimer {
		if step.MinutesEst != nil && *step.MinutesEst > 0 {
			return Hint{
				Action:      ActionStartTimer,
				StepIndex:   idx,
				DurationSec: *step.MinutesEst * 60,
				Reason:      fmt.Sprintf("step %d is checked off and estimates %d min", idx, *step.MinutesEst),
			}
		}
		return Hint{
			Action:    ActionMarkStepComplete,
			StepIndex: idx,
			Reason:    "all bullets checked and no timed work remains",
		}
	}

	if allDone {
		return Hint{
			Action:    ActionMarkStepComplete,
			StepIndex: idx,
			Reason:    "all bullets checked and all step timers finished",
		}
	}

	return Hint{Action: ActionNone, StepIndex: idx}
}
