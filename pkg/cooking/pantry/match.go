// Package pantry computes session-driven inventory consumption: matching
// recipe ingredients to pantry rows and scaling quantities by serving ratio.
// All functions are pure; the service layer owns persistence and transactions.
package pantry

import (
	"strings"

	"cooksession-be/internal/entity"
)

// MatchItem is one row of a decrement preview. Unmatched ingredients carry a
// zero confidence and a nil matched item; they are skipped on apply, never
// treated as errors.
type MatchItem struct {
	Ingredient      entity.Ingredient  `json:"ingredient"`
	MatchedItem     *entity.PantryItem `json:"matched_item,omitempty"`
	QtyNeeded       float64            `json:"qty_needed"`
	QtyAvailable    *float64           `json:"qty_available,omitempty"`
	MatchConfidence float64            `json:"match_confidence"`
}

// NormalizeName canonicalizes an ingredient or pantry name for exact
// matching: lowercased, trimmed, inner whitespace collapsed.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Preview matches every recipe ingredient against the pantry by exact
// normalized name and scales the needed quantity by the serving ratio.
func Preview(ingredients []entity.Ingredient, ratio float64, items []*entity.PantryItem) []MatchItem {
	byName := make(map[string]*entity.PantryItem, len(items))
	for _, item := range items {
		byName[item.NormalizedName] = item
	}

	out := make([]MatchItem, 0, len(ingredients))
	for _, ing := range ingredients {
		row := MatchItem{
			Ingredient: ing,
			QtyNeeded:  ing.Qty * ratio,
		}
		if item, ok := byName[NormalizeName(ing.Name)]; ok {
			qty := item.Qty
			row.MatchedItem = item
			row.QtyAvailable = &qty
			row.MatchConfidence = 1.0
		}
		out = append(out, row)
	}
	return out
}

// DecrementedQty floors the post-decrement quantity at zero.
func DecrementedQty(available, needed float64) float64 {
	next := available - needed
	if next < 0 {
		return 0
	}
	return next
}
