package pantry

import (
	"testing"

	"cooksession-be/internal/entity"

	"github.com/google/uuid"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chicken Breast", "chicken breast"},
		{"  chicken   breast  ", "chicken breast"},
		{"OLIVE OIL", "olive oil"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPreviewMatchesByNormalizedName(t *testing.T) {
	items := []*entity.PantryItem{
		{Id: uuid.New(), Name: "Chicken Breast", NormalizedName: "chicken breast", Qty: 4, Unit: "pc"},
		{Id: uuid.New(), Name: "Olive Oil", NormalizedName: "olive oil", Qty: 500, Unit: "ml"},
	}
	ingredients := []entity.Ingredient{
		{Name: "chicken   breast", Qty: 2, Unit: "pc"},
		{Name: "Saffron", Qty: 1, Unit: "g"},
	}

	out := Preview(ingredients, 1.0, items)
	if len(out) != 2 {
		t.Fatalf("expected a row per ingredient, got %d", len(out))
	}

	if out[0].MatchedItem == nil || out[0].MatchConfidence != 1.0 {
		t.Fatal("expected exact match on normalized name")
	}
	if out[0].QtyAvailable == nil || *out[0].QtyAvailable != 4 {
		t.Fatalf("expected available qty 4, got %v", out[0].QtyAvailable)
	}

	// Unmatched ingredients are informational, not errors.
	if out[1].MatchedItem != nil || out[1].MatchConfidence != 0 {
		t.Fatal("saffron must come back unmatched with zero confidence")
	}
}

func TestPreviewScalesByServingRatio(t *testing.T) {
	ingredients := []entity.Ingredient{{Name: "rice", Qty: 200, Unit: "g"}}

	out := Preview(ingredients, 1.5, nil)
	if out[0].QtyNeeded != 300 {
		t.Fatalf("expected 300g for ratio 1.5, got %f", out[0].QtyNeeded)
	}

	out = Preview(ingredients, 0.5, nil)
	if out[0].QtyNeeded != 100 {
		t.Fatalf("expected 100g for ratio 0.5, got %f", out[0].QtyNeeded)
	}
}

func TestDecrementedQtyFloorsAtZero(t *testing.T) {
	if got := DecrementedQty(5, 2); got != 3 {
		t.Fatalf("expected 3, got %f", got)
	}
	if got := DecrementedQty(2, 5); got != 0 {
		t.Fatalf("expected floor at 0, got %f", got)
	}
}
