package implementation

import (
	"context"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/mapper"
	"cooksession-be/internal/model"
	"cooksession-be/internal/repository/contract"
	"cooksession-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PantryTransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PantryMapper
}

func NewPantryTransactionRepository(db *gorm.DB) contract.PantryTransactionRepository {
	return &PantryTransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewPantryMapper(),
	}
}

func (r *PantryTransactionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PantryTransactionRepositoryImpl) Create(ctx context.Context, tx *entity.PantryTransaction) error {
	m := r.mapper.TxToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.TxToEntity(m)
	return nil
}

func (r *PantryTransactionRepositoryImpl) Update(ctx context.Context, tx *entity.PantryTransaction) error {
	m := r.mapper.TxToModel(tx)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.TxToEntity(m)
	return nil
}

func (r *PantryTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PantryTransaction, error) {
	var models []*model.PantryTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TxsToEntities(models), nil
}
