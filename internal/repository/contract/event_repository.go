package contract

import (
	"context"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/repository/specification"
)

// EventRepository is append-only: events are created and read, never
// updated or deleted.
type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	CreateBulk(ctx context.Context, events []*entity.Event) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Event, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
