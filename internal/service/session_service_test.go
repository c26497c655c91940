package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cooksession-be/internal/dto"
	"cooksession-be/internal/entity"
	"cooksession-be/internal/pkg/serverutils"

	"github.com/google/uuid"
)

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *serverutils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestStartIsIdempotentPerRecipe(t *testing.T) {
	store, ss, _, _ := newHarness()
	ctx := context.Background()
	household, user := uuid.New(), uuid.New()
	recipe := store.seedRecipe(household, "Tomato Spaghetti")

	first, err := ss.Start(ctx, household, user, &dto.StartSessionRequest{RecipeId: recipe.Id})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	again, err := ss.Start(ctx, household, user, &dto.StartSessionRequest{RecipeId: recipe.Id})
	if err != nil {
		t.Fatalf("retried start: %v", err)
	}
	if again.Id != first.Id {
		t.Fatalf("retried start must return the existing session, got %s and %s", first.Id, again.Id)
	}
	if store.sessionCount() != 1 {
		t.Fatalf("expected one session, store holds %d", store.sessionCount())
	}

	other := store.seedRecipe(household, "Risotto")
	_, err = ss.Start(ctx, household, user, &dto.StartSessionRequest{RecipeId: other.Id})
	if code := appCode(t, err); code != "CONFLICT" {
		t.Fatalf("starting a different recipe must conflict, got %s", code)
	}
}

func TestStartConcurrentCreatesOneSession(t *testing.T) {
	store, ss, _, _ := newHarness()
	ctx := context.Background()
	household, user := uuid.New(), uuid.New()
	recipe := store.seedRecipe(household, "Tomato Spaghetti")

	ids := make([]uuid.UUID, 8)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			res, err := ss.Start(ctx, household, user, &dto.StartSessionRequest{RecipeId: recipe.Id})
			if err != nil {
				t.Errorf("concurrent start: %v", err)
				return
			}
			ids[slot] = res.Id
		}(i)
	}
	wg.Wait()

	if store.sessionCount() != 1 {
		t.Fatalf("concurrent starts created %d sessions, want 1", store.sessionCount())
	}
	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("starts disagree on the session: %s vs %s", ids[0], id)
		}
	}
}

func TestMutateAppendsEventsAndRecomputes(t *testing.T) {
	store, ss, _, _ := newHarness()
	ctx := context.Background()
	household, user := uuid.New(), uuid.New()
	recipe := store.seedRecipe(household, "Tomato Spaghetti")

	sess, err := ss.Start(ctx, household, user, &dto.StartSessionRequest{RecipeId: recipe.Id})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	res, err := ss.Mutate(ctx, household, sess.Id, &dto.MutateSessionRequest{
		TimerCreate: &dto.TimerCreatePatch{ClientId: "t1", Label: "Simmer", StepIndex: 2, DurationSec: 300},
	})
	if err != nil {
		t.Fatalf("mutate timer create: %v", err)
	}
	if len(res.Timers) != 1 {
		t.Fatalf("expected one timer in the response, got %d", len(res.Timers))
	}

	res, err = ss.Mutate(ctx, household, sess.Id, &dto.MutateSessionRequest{
		TimerAction: &dto.TimerActionPatch{TimerId: res.Timers[0].Id, Action: "start"},
	})
	if err != nil {
		t.Fatalf("mutate timer start: %v", err)
	}

	if got := store.eventCount(sess.Id, entity.EventTimerCreate); got != 1 {
		t.Fatalf("expected 1 timer_create event, got %d", got)
	}
	if got := store.eventCount(sess.Id, entity.EventTimerStart); got != 1 {
		t.Fatalf("expected 1 timer_start event, got %d", got)
	}
	if res.AutoStepSuggestedIndex == nil || *res.AutoStepSuggestedIndex != 2 {
		t.Fatalf("inference must follow the timer activity to step 2, got %v", res.AutoStepSuggestedIndex)
	}
	if res.AutoStepConfidence <= 0 {
		t.Fatal("suggestion must carry a confidence")
	}
}

func TestMutateAutoJumpMovesCurrentStep(t *testing.T) {
	store, ss, _, _ := newHarness()
	ctx := context.Background()
	household, user := uuid.New(), uuid.New()
	recipe := store.seedRecipe(household, "Tomato Spaghetti")

	sess, err := ss.Start(ctx, household, user, &dto.StartSessionRequest{RecipeId: recipe.Id})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	mode := "auto_jump"
	if _, err := ss.Mutate(ctx, household, sess.Id, &dto.MutateSessionRequest{AutoStepMode: &mode}); err != nil {
		t.Fatalf("enable auto_jump: %v", err)
	}

	res, err := ss.Mutate(ctx, household, sess.Id, &dto.MutateSessionRequest{
		TimerCreate: &dto.TimerCreatePatch{ClientId: "t1", Label: "Boil", StepIndex: 2, DurationSec: 600},
	})
	if err != nil {
		t.Fatalf("mutate timer create: %v", err)
	}
	if res.CurrentStepIndex != 0 {
		t.Fatalf("a lone timer_create must not clear the jump threshold, session moved to %d", res.CurrentStepIndex)
	}

	res, err = ss.Mutate(ctx, household, sess.Id, &dto.MutateSessionRequest{
		TimerAction: &dto.TimerActionPatch{TimerId: res.Timers[0].Id, Action: "start"},
	})
	if err != nil {
		t.Fatalf("mutate timer start: %v", err)
	}
	if res.CurrentStepIndex != 2 {
		t.Fatalf("auto_jump should have moved the session to step 2, got %d", res.CurrentStepIndex)
	}
	if got := store.eventCount(sess.Id, entity.EventStepNavigate); got != 1 {
		t.Fatalf("the jump must be recorded as a navigate event, got %d", got)
	}
}

func TestMutateTerminalSessionConflicts(t *testing.T) {
	store, ss, _, _ := newHarness()
	ctx := context.Background()
	household, user := uuid.New(), uuid.New()
	recipe := store.seedRecipe(household, "Tomato Spaghetti")

	sess, err := ss.Start(ctx, household, user, &dto.StartSessionRequest{RecipeId: recipe.Id})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := ss.End(ctx, household, sess.Id, &dto.EndSessionRequest{Action: "abandon"}); err != nil {
		t.Fatalf("end: %v", err)
	}

	idx := 1
	_, err = ss.Mutate(ctx, household, sess.Id, &dto.MutateSessionRequest{CurrentStepIndex: &idx})
	if code := appCode(t, err); code != "CONFLICT" {
		t.Fatalf("mutating an abandoned session must conflict, got %s", code)
	}
}

func TestServicesShareOneLocker(t *testing.T) {
	_, ss, as, ps := newHarness()

	if ss.locker != as.locker || as.locker != ps.locker {
		t.Fatal("all session-writing services must share one locker")
	}

	id := uuid.New()
	unlock := ss.locker.Lock(id)

	acquired := make(chan struct{})
	go func() {
		u := as.locker.Lock(id)
		u()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("adjustment path acquired the lock while a session mutation held it")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was never handed over after release")
	}
}
