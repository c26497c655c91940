package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"cooksession-be/internal/dto"
	"cooksession-be/internal/entity"

	"github.com/google/uuid"
)

func startedSession(t *testing.T, store *fakeStore, ss *sessionService) (uuid.UUID, uuid.UUID, *entity.Recipe) {
	t.Helper()
	ctx := context.Background()
	household, user := uuid.New(), uuid.New()
	recipe := store.seedRecipe(household, "Tomato Spaghetti")

	sess, err := ss.Start(ctx, household, user, &dto.StartSessionRequest{RecipeId: recipe.Id})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return household, sess.Id, recipe
}

func TestAdjustApplyThenUndoRestoresStep(t *testing.T) {
	store, ss, as, _ := newHarness()
	ctx := context.Background()
	household, sessionId, recipe := startedSession(t, store, ss)
	original := recipe.Steps[1]

	applied, err := as.Apply(ctx, household, sessionId, &dto.ApplyAdjustmentRequest{
		StepIndex:  1,
		Kind:       "too_salty",
		Title:      "Simmer (rescue)",
		Bullets:    []string{"Add a peeled potato", "Simmer 10 more minutes"},
		Source:     "rule",
		Confidence: 0.7,
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	sess := store.sessions[sessionId]
	if sess.StepsOverride == nil {
		t.Fatal("apply must install a step override")
	}
	if sess.StepsOverride[1].Title != "Simmer (rescue)" {
		t.Fatalf("override step not replaced, got %q", sess.StepsOverride[1].Title)
	}
	if sess.StepsOverride[1].MinutesEst == nil || *sess.StepsOverride[1].MinutesEst != *original.MinutesEst {
		t.Fatal("replacement must keep the original minutes estimate")
	}
	if sess.StepsOverride[0].Title != recipe.Steps[0].Title {
		t.Fatal("untouched steps must survive the apply")
	}

	undone, err := as.Undo(ctx, household, sessionId, nil)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !undone.Restored {
		t.Fatal("undo with a snapshot must restore content")
	}
	if undone.Adjustment.Id != applied.Id {
		t.Fatalf("undo reverted %s, want the applied %s", undone.Adjustment.Id, applied.Id)
	}
	if !reflect.DeepEqual(store.sessions[sessionId].StepsOverride[1], original) {
		t.Fatalf("undo must restore the exact snapshot, got %+v", store.sessions[sessionId].StepsOverride[1])
	}

	_, err = as.Undo(ctx, household, sessionId, nil)
	if code := appCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("nothing left to undo must be NOT_FOUND, got %s", code)
	}
}

func TestAdjustUndoByIdTwiceConflicts(t *testing.T) {
	store, ss, as, _ := newHarness()
	ctx := context.Background()
	household, sessionId, _ := startedSession(t, store, ss)

	applied, err := as.Apply(ctx, household, sessionId, &dto.ApplyAdjustmentRequest{
		StepIndex: 0,
		Kind:      "too_bland",
		Title:     "Prep (boosted)",
		Bullets:   []string{"Season in layers"},
		Source:    "rule",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := as.Undo(ctx, household, sessionId, &dto.UndoAdjustmentRequest{AdjustmentId: &applied.Id}); err != nil {
		t.Fatalf("undo: %v", err)
	}
	_, err = as.Undo(ctx, household, sessionId, &dto.UndoAdjustmentRequest{AdjustmentId: &applied.Id})
	if code := appCode(t, err); code != "CONFLICT" {
		t.Fatalf("undoing an undone adjustment must conflict, got %s", code)
	}
}

func TestAdjustUndoWithoutSnapshotWarns(t *testing.T) {
	store, ss, as, _ := newHarness()
	ctx := context.Background()
	household, sessionId, _ := startedSession(t, store, ss)

	// Legacy entry without a snapshot, written before before_step existed.
	legacy := &entity.Adjustment{
		Id:        uuid.New(),
		SessionId: sessionId,
		StepIndex: 1,
		Kind:      entity.AdjustTooThick,
		Title:     "Thin it out",
		Bullets:   []string{"Add stock"},
		Source:    entity.AdjustSourceRule,
		AppliedAt: time.Now(),
	}
	store.adjustments = append(store.adjustments, legacy)

	res, err := as.Undo(ctx, household, sessionId, nil)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if res.Restored {
		t.Fatal("undo without a snapshot must not claim a restore")
	}
	if res.Warning == "" {
		t.Fatal("the caller must be told content could not be restored")
	}
	if legacy.UndoneAt == nil {
		t.Fatal("the entry must still be marked undone")
	}
}
