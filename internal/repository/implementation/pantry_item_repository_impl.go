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

type PantryItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PantryMapper
}

func NewPantryItemRepository(db *gorm.DB) contract.PantryItemRepository {
	return &PantryItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewPantryMapper(),
	}
}

func (r *PantryItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PantryItemRepositoryImpl) Create(ctx context.Context, item *entity.PantryItem) error {
	m := r.mapper.ItemToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ItemToEntity(m)
	return nil
}

func (r *PantryItemRepositoryImpl) Update(ctx context.Context, item *entity.PantryItem) error {
	m := r.mapper.ItemToModel(item)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ItemToEntity(m)
	return nil
}

func (r *PantryItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PantryItem, error) {
	var m model.PantryItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ItemToEntity(&m), nil
}

func (r *PantryItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PantryItem, error) {
	var models []*model.PantryItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ItemsToEntities(models), nil
}
