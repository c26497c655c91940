package service

import (
	"context"
	"testing"

	"cooksession-be/internal/dto"
)

func TestPantryApplyDecrementsAndConflictsOnRetry(t *testing.T) {
	store, ss, _, ps := newHarness()
	ctx := context.Background()
	household, sessionId, _ := startedSession(t, store, ss)

	spaghetti := store.seedPantryItem(household, "Spaghetti", 500)
	tomatoes := store.seedPantryItem(household, "Canned Tomatoes", 1)

	res, err := ps.Apply(ctx, household, sessionId, &dto.PantryApplyRequest{
		Items: []dto.PantryApplyItem{
			{PantryItemId: spaghetti.Id, QtyNeeded: 400},
			{PantryItemId: tomatoes.Id, QtyNeeded: 2},
		},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Applied != 2 {
		t.Fatalf("expected 2 decrements, got %d", res.Applied)
	}
	if spaghetti.Qty != 100 {
		t.Fatalf("spaghetti should be down to 100, got %f", spaghetti.Qty)
	}
	// Short stock floors at zero; the ledger records what really left.
	if tomatoes.Qty != 0 {
		t.Fatalf("tomatoes should floor at zero, got %f", tomatoes.Qty)
	}

	_, err = ps.Apply(ctx, household, sessionId, &dto.PantryApplyRequest{
		Items: []dto.PantryApplyItem{{PantryItemId: spaghetti.Id, QtyNeeded: 100}},
	})
	if code := appCode(t, err); code != "CONFLICT" {
		t.Fatalf("a second apply for the same session must conflict, got %s", code)
	}
}

func TestPantryUndoReversesOnceThenNoops(t *testing.T) {
	store, ss, _, ps := newHarness()
	ctx := context.Background()
	household, sessionId, _ := startedSession(t, store, ss)

	spaghetti := store.seedPantryItem(household, "Spaghetti", 500)
	tomatoes := store.seedPantryItem(household, "Canned Tomatoes", 1)

	if _, err := ps.Apply(ctx, household, sessionId, &dto.PantryApplyRequest{
		Items: []dto.PantryApplyItem{
			{PantryItemId: spaghetti.Id, QtyNeeded: 400},
			{PantryItemId: tomatoes.Id, QtyNeeded: 2},
		},
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	undo, err := ps.Undo(ctx, household, sessionId)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if undo.Reversed != 2 {
		t.Fatalf("expected 2 reversals, got %d", undo.Reversed)
	}
	if spaghetti.Qty != 500 {
		t.Fatalf("spaghetti must be restored to 500, got %f", spaghetti.Qty)
	}
	// Only the recorded delta comes back, not the requested amount.
	if tomatoes.Qty != 1 {
		t.Fatalf("tomatoes must be restored to 1, got %f", tomatoes.Qty)
	}

	again, err := ps.Undo(ctx, household, sessionId)
	if err != nil {
		t.Fatalf("second undo: %v", err)
	}
	if again.Reversed != 0 {
		t.Fatalf("a second undo must be a no-op, reversed %d", again.Reversed)
	}

	// With the ledger fully undone the session may decrement again.
	res, err := ps.Apply(ctx, household, sessionId, &dto.PantryApplyRequest{
		Items: []dto.PantryApplyItem{{PantryItemId: spaghetti.Id, QtyNeeded: 100}},
	})
	if err != nil {
		t.Fatalf("re-apply after undo: %v", err)
	}
	if res.Applied != 1 || spaghetti.Qty != 400 {
		t.Fatalf("re-apply should decrement again, applied %d qty %f", res.Applied, spaghetti.Qty)
	}
}
