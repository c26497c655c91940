package mapper

import (
	"encoding/json"
	"time"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/model"
)

type RecipeMapper struct{}

func NewRecipeMapper() *RecipeMapper {
	return &RecipeMapper{}
}

func (m *RecipeMapper) ToEntity(r *model.Recipe) *entity.Recipe {
	if r == nil {
		return nil
	}

	var steps []entity.RecipeStep
	_ = json.Unmarshal(r.Steps, &steps)

	var ingredients []entity.Ingredient
	_ = json.Unmarshal(r.Ingredients, &ingredients)

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.Recipe{
		Id:          r.Id,
		HouseholdId: r.HouseholdId,
		Title:       r.Title,
		Servings:    r.Servings,
		Steps:       steps,
		Ingredients: ingredients,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
