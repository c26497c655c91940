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

type EventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EventMapper
}

func NewEventRepository(db *gorm.DB) contract.EventRepository {
	return &EventRepositoryImpl{
		db:     db,
		mapper: mapper.NewEventMapper(),
	}
}

func (r *EventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *entity.Event) error {
	m := r.mapper.ToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.ToEntity(m)
	return nil
}

func (r *EventRepositoryImpl) CreateBulk(ctx context.Context, events []*entity.Event) error {
	if len(events) == 0 {
		return nil
	}
	models := make([]*model.CookEvent, len(events))
	for i, e := range events {
		models[i] = r.mapper.ToModel(e)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *EventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Event, error) {
	var models []*model.CookEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CookEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
