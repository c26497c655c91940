package contract

import (
	"context"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/repository/specification"
)

type PantryItemRepository interface {
	Create(ctx context.Context, item *entity.PantryItem) error
	Update(ctx context.Context, item *entity.PantryItem) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PantryItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PantryItem, error)
}

type PantryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.PantryTransaction) error
	Update(ctx context.Context, tx *entity.PantryTransaction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PantryTransaction, error)
}
