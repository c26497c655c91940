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

type AdjustmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdjustmentMapper
}

func NewAdjustmentRepository(db *gorm.DB) contract.AdjustmentRepository {
	return &AdjustmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdjustmentMapper(),
	}
}

func (r *AdjustmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AdjustmentRepositoryImpl) Create(ctx context.Context, adjustment *entity.Adjustment) error {
	m := r.mapper.ToModel(adjustment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*adjustment = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdjustmentRepositoryImpl) Update(ctx context.Context, adjustment *entity.Adjustment) error {
	m := r.mapper.ToModel(adjustment)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*adjustment = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdjustmentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Adjustment, error) {
	var m model.CookAdjustment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AdjustmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Adjustment, error) {
	var models []*model.CookAdjustment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AdjustmentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CookAdjustment{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
