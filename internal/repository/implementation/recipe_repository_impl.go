package implementation

import (
	"context"
	"errors"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/mapper"
	"cooksession-be/internal/model"
	"cooksession-be/internal/repository/contract"
	"cooksession-be/internal/repository/specification"

	"gorm.io/gorm"
)

type RecipeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecipeMapper
}

func NewRecipeRepository(db *gorm.DB) contract.RecipeRepository {
	return &RecipeRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecipeMapper(),
	}
}

func (r *RecipeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RecipeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recipe, error) {
	var m model.Recipe
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
