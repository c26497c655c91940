package contract

import (
	"context"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/repository/specification"
)

// AdjustmentRepository updates only the undone marker; applied content is
// immutable once written.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.Adjustment) error
	Update(ctx context.Context, adjustment *entity.Adjustment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Adjustment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Adjustment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
