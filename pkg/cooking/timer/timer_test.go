package timer

import (
	"errors"
	"testing"
	"time"

	"cooksession-be/internal/entity"
)

func TestCreateIsIdempotentByClientId(t *testing.T) {
	now := time.Now()
	r := NewRegistry(nil)

	first, created := r.Create("device-1:timer-a", "Simmer", 2, 600, now)
	if !created {
		t.Fatal("expected first create to register a new timer")
	}

	second, created := r.Create("device-1:timer-a", "Simmer", 2, 600, now.Add(time.Second))
	if created {
		t.Fatal("expected retried create to return the existing timer")
	}
	if second.Id != first.Id {
		t.Fatalf("retried create returned a different timer: %s vs %s", second.Id, first.Id)
	}
	if len(r.Timers()) != 1 {
		t.Fatalf("expected a single timer, got %d", len(r.Timers()))
	}
}

func TestCreateWithoutClientIdAlwaysRegisters(t *testing.T) {
	now := time.Now()
	r := NewRegistry(nil)

	r.Create("", "Boil", 0, 300, now)
	r.Create("", "Boil", 0, 300, now)

	if len(r.Timers()) != 2 {
		t.Fatalf("expected two timers, got %d", len(r.Timers()))
	}
}

func TestPauseResumeConservesRemaining(t *testing.T) {
	now := time.Now()
	r := NewRegistry(nil)
	created, _ := r.Create("", "Roast", 1, 600, now)

	running, err := r.Apply(created.Id.String(), ActionStart, now)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if running.DueAt == nil || !running.DueAt.Equal(now.Add(600*time.Second)) {
		t.Fatalf("unexpected due_at after start: %v", running.DueAt)
	}

	// 4 minutes in, pause.
	paused, err := r.Apply(created.Id.String(), ActionPause, now.Add(4*time.Minute))
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.RemainingSec == nil || *paused.RemainingSec != 360 {
		t.Fatalf("expected 360s remaining after pause, got %v", paused.RemainingSec)
	}
	if paused.DueAt != nil || paused.StartedAt != nil {
		t.Fatal("paused timer must not keep running-state fields")
	}

	// Resume 10 minutes later: wall-clock gap while paused must not count.
	resumeAt := now.Add(14 * time.Minute)
	resumed, err := r.Apply(created.Id.String(), ActionResume, resumeAt)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.DueAt == nil || !resumed.DueAt.Equal(resumeAt.Add(360*time.Second)) {
		t.Fatalf("resume must restart the countdown from the paused remaining, got due_at %v", resumed.DueAt)
	}
	if resumed.RemainingSec != nil {
		t.Fatal("running timer must derive remaining from due_at, not store it")
	}
}

func TestPauseAfterDueFloorsAtZero(t *testing.T) {
	now := time.Now()
	r := NewRegistry(nil)
	created, _ := r.Create("", "Blanch", 0, 60, now)
	r.Apply(created.Id.String(), ActionStart, now)

	paused, err := r.Apply(created.Id.String(), ActionPause, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.RemainingSec == nil || *paused.RemainingSec != 0 {
		t.Fatalf("expected remaining floored at 0, got %v", paused.RemainingSec)
	}
}

func TestTransitionTable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		state   entity.TimerState
		action  Action
		wantErr bool
	}{
		{"created can start", entity.TimerStateCreated, ActionStart, false},
		{"created cannot pause", entity.TimerStateCreated, ActionPause, true},
		{"created cannot resume", entity.TimerStateCreated, ActionResume, true},
		{"running can pause", entity.TimerStateRunning, ActionPause, false},
		{"running cannot start", entity.TimerStateRunning, ActionStart, true},
		{"paused can resume", entity.TimerStatePaused, ActionResume, false},
		{"paused can start", entity.TimerStatePaused, ActionStart, false},
		{"done can only delete", entity.TimerStateDone, ActionStart, true},
		{"done delete ok", entity.TimerStateDone, ActionDelete, false},
		{"deleted is terminal", entity.TimerStateDeleted, ActionStart, true},
		{"deleted cannot delete again", entity.TimerStateDeleted, ActionDelete, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rem := 30
			in := &entity.Timer{State: tt.state, DurationSec: 30, RemainingSec: &rem}
			_, err := Transition(in, tt.action, now)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	rem := 120
	in := &entity.Timer{State: entity.TimerStatePaused, DurationSec: 300, RemainingSec: &rem}

	out, err := Transition(in, ActionResume, now)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if in.State != entity.TimerStatePaused {
		t.Fatal("input timer was mutated")
	}
	if out.State != entity.TimerStateRunning {
		t.Fatalf("expected running, got %s", out.State)
	}
}

func TestApplyUnknownTimer(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.Apply("nope", ActionStart, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemainingAtDerivation(t *testing.T) {
	now := time.Now()
	due := now.Add(90 * time.Second)
	running := &entity.Timer{State: entity.TimerStateRunning, DueAt: &due}

	if got := running.RemainingAt(now); got != 90 {
		t.Fatalf("expected 90s remaining, got %d", got)
	}
	if got := running.RemainingAt(now.Add(2 * time.Minute)); got != 0 {
		t.Fatalf("expected remaining floored at 0 past due, got %d", got)
	}
	if !running.ExpiredAt(now.Add(2 * time.Minute)) {
		t.Fatal("expected timer past due to report expired")
	}
}
