package autostep

import (
	"testing"
	"time"

	"cooksession-be/internal/entity"

	"github.com/google/uuid"
)

func stepsFixture() []entity.RecipeStep {
	minutes := 20
	return []entity.RecipeStep{
		{Title: "Prep", Bullets: []string{"Chop onions", "Mince garlic"}},
		{Title: "Simmer", Bullets: []string{"Add stock", "Cover"}, MinutesEst: &minutes},
		{Title: "Serve", Bullets: []string{"Plate"}},
	}
}

func TestNoHintWhileBulletsUnchecked(t *testing.T) {
	now := time.Now()
	sess := sessionFixture()
	sess.CurrentStepIndex = 1
	sess.StepChecks.Set(1, 0, true)

	hint := SuggestNextAction(sess, stepsFixture(), now)
	if hint.Action != ActionNone {
		t.Fatalf("expected no hint with unchecked bullets, got %s", hint.Action)
	}
}

func TestStartTimerHintOnTimedStep(t *testing.T) {
	now := time.Now()
	sess := sessionFixture()
	sess.CurrentStepIndex = 1
	sess.StepChecks.Set(1, 0, true)
	sess.StepChecks.Set(1, 1, true)

	hint := SuggestNextAction(sess, stepsFixture(), now)
	if hint.Action != ActionStartTimer {
		t.Fatalf("expected start_timer hint, got %q", hint.Action)
	}
	if hint.DurationSec != 20*60 {
		t.Fatalf("expected duration from the step estimate, got %d", hint.DurationSec)
	}
}

func TestNoMarkCompleteWhileTimerRuns(t *testing.T) {
	now := time.Now()
	sess := sessionFixture()
	sess.CurrentStepIndex = 1
	sess.StepChecks.Set(1, 0, true)
	sess.StepChecks.Set(1, 1, true)

	due := now.Add(10 * time.Minute)
	id := uuid.New()
	sess.Timers[id.String()] = &entity.Timer{
		Id: id, StepIndex: 1, State: entity.TimerStateRunning, DueAt: &due,
	}

	hint := SuggestNextAction(sess, stepsFixture(), now)
	if hint.Action != ActionNone {
		t.Fatalf("mark-complete must wait for the timer, got %q", hint.Action)
	}
}

func TestMarkCompleteAfterTimersFinish(t *testing.T) {
	now := time.Now()
	sess := sessionFixture()
	sess.CurrentStepIndex = 1
	sess.StepChecks.Set(1, 0, true)
	sess.StepChecks.Set(1, 1, true)

	id := uuid.New()
	sess.Timers[id.String()] = &entity.Timer{
		Id: id, StepIndex: 1, State: entity.TimerStateDone,
	}

	hint := SuggestNextAction(sess, stepsFixture(), now)
	if hint.Action != ActionMarkStepComplete {
		t.Fatalf("expected mark_step_complete hint, got %q", hint.Action)
	}
}

func TestExpiredRunningTimerCountsAsFinished(t *testing.T) {
	now := time.Now()
	sess := sessionFixture()
	sess.CurrentStepIndex = 1
	sess.StepChecks.Set(1, 0, true)
	sess.StepChecks.Set(1, 1, true)

	due := now.Add(-time.Minute)
	id := uuid.New()
	sess.Timers[id.String()] = &entity.Timer{
		Id: id, StepIndex: 1, State: entity.TimerStateRunning, DueAt: &due,
	}

	hint := SuggestNextAction(sess, stepsFixture(), now)
	if hint.Action != ActionMarkStepComplete {
		t.Fatalf("expected mark_step_complete once the timer is past due, got %q", hint.Action)
	}
}

func TestMarkCompleteOnUntimedStep(t *testing.T) {
	now := time.Now()
	sess := sessionFixture()
	sess.CurrentStepIndex = 2
	sess.StepChecks.Set(2, 0, true)

	hint := SuggestNextAction(sess, stepsFixture(), now)
	if hint.Action != ActionMarkStepComplete {
		t.Fatalf("untimed fully-checked step should suggest completion, got %q", hint.Action)
	}
}

func TestDeletedTimersAreIgnored(t *testing.T) {
	now := time.Now()
	sess := sessionFixture()
	sess.CurrentStepIndex = 1
	sess.StepChecks.Set(1, 0, true)
	sess.StepChecks.Set(1, 1, true)

	id := uuid.New()
	sess.Timers[id.String()] = &entity.Timer{
		Id: id, StepIndex: 1, State: entity.TimerStateDeleted,
	}

	hint := SuggestNextAction(sess, stepsFixture(), now)
	if hint.Action != ActionStartTimer {
		t.Fatalf("deleted timers must not count, expected start_timer, got %q", hint.Action)
	}
}
