package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
}

// Recipe is the read-only collaborator the engine consumes steps and
// ingredients from. The engine never writes recipes.
type Recipe struct {
	Id          uuid.UUID
	HouseholdId uuid.UUID
	Title       string
	Servings    float64
	Steps       []RecipeStep
	Ingredients []Ingredient
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
