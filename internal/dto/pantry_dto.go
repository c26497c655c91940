package dto

import (
	"github.com/google/uuid"
)

type PantryMatchDTO struct {
	IngredientName  string     `json:"ingredient_name"`
	IngredientQty   float64    `json:"ingredient_qty"`
	IngredientUnit  string     `json:"ingredient_unit"`
	PantryItemId    *uuid.UUID `json:"pantry_item_id,omitempty"`
	PantryItemName  string     `json:"pantry_item_name,omitempty"`
	QtyNeeded       float64    `json:"qty_needed"`
	QtyAvailable    *float64   `json:"qty_available,omitempty"`
	MatchConfidence float64    `json:"match_confidence"`
}

type PantryPreviewResponse struct {
	ServingRatio float64          `json:"serving_ratio"`
	Items        []PantryMatchDTO `json:"items"`
}

type PantryApplyItem struct {
	PantryItemId uuid.UUID `json:"pantry_item_id" validate:"required"`
	QtyNeeded    float64   `json:"qty_needed" validate:"min=0"`
}

type PantryApplyRequest struct {
	Items []PantryApplyItem `json:"items" validate:"required,min=1,dive"`
}

type PantryApplyResponse struct {
	Applied int `json:"applied"`
}

type PantryUndoResponse struct {
	Reversed int `json:"reversed"`
}
