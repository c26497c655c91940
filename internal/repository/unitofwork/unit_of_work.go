package unitofwork

import (
	"context"

	"cooksession-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	EventRepository() contract.EventRepository
	AdjustmentRepository() contract.AdjustmentRepository
	RecipeRepository() contract.RecipeRepository
	PantryItemRepository() contract.PantryItemRepository
	PantryTransactionRepository() contract.PantryTransactionRepository
}
