package contract

import (
	"context"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/repository/specification"
)

// RecipeRepository is the read-only view onto the recipe subsystem. The
// engine consumes steps and ingredients; it never writes recipes.
type RecipeRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recipe, error)
}
