package service

import (
	"context"
	"time"

	"cooksession-be/internal/dto"
	"cooksession-be/internal/entity"
	"cooksession-be/internal/pkg/logger"
	"cooksession-be/internal/pkg/serverutils"
	"cooksession-be/internal/repository/specification"
	"cooksession-be/internal/repository/unitofwork"
	"cooksession-be/pkg/cooking/pantry"

	"github.com/google/uuid"
)

type IPantryService interface {
	Preview(ctx context.Context, householdId, sessionId uuid.UUID) (*dto.PantryPreviewResponse, error)
	Apply(ctx context.Context, householdId, sessionId uuid.UUID, req *dto.PantryApplyRequest) (*dto.PantryApplyResponse, error)
	Undo(ctx context.Context, householdId, sessionId uuid.UUID) (*dto.PantryUndoResponse, error)
}

type pantryService struct {
	uowFactory unitofwork.RepositoryFactory
	locker     *SessionLocker
	logger     logger.ILogger
}

func NewPantryService(uowFactory unitofwork.RepositoryFactory, locker *SessionLocker, log logger.ILogger) IPantryService {
	return &pantryService{
		uowFactory: uowFactory,
		locker:     locker,
		logger:     log,
	}
}

// Preview matches the recipe's ingredients against the household pantry and
// scales quantities by the serving ratio. Unmatched ingredients come back
// with zero confidence; they are informational, never errors.
func (s *pantryService) Preview(ctx context.Context, householdId, sessionId uuid.UUID) (*dto.PantryPreviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, recipe, err := s.load(ctx, uow, householdId, sessionId)
	if err != nil {
		return nil, err
	}

	items, err := uow.PantryItemRepository().FindAll(ctx,
		specification.ByHouseholdID{HouseholdID: householdId},
	)
	if err != nil {
		return nil, err
	}

	matches := pantry.Preview(recipe.Ingredients, sess.ServingRatio(), items)

	res := &dto.PantryPreviewResponse{
		ServingRatio: sess.ServingRatio(),
		Items:        make([]dto.PantryMatchDTO, 0, len(matches)),
	}
	for _, m := range matches {
		row := dto.PantryMatchDTO{
			IngredientName:  m.Ingredient.Name,
			IngredientQty:   m.Ingredient.Qty,
			IngredientUnit:  m.Ingredient.Unit,
			QtyNeeded:       m.QtyNeeded,
			QtyAvailable:    m.QtyAvailable,
			MatchConfidence: m.MatchConfidence,
		}
		if m.MatchedItem != nil {
			id := m.MatchedItem.Id
			row.PantryItemId = &id
			row.PantryItemName = m.MatchedItem.Name
		}
		res.Items = append(res.Items, row)
	}
	return res, nil
}

// Apply decrements the confirmed pantry rows inside one transaction. Each
// decrement takes a row lock, floors at zero, and writes a ledger entry
// tagged with the session so undo can find it. Applying twice for the same
// session conflicts instead of double-decrementing.
func (s *pantryService) Apply(ctx context.Context, householdId, sessionId uuid.UUID, req *dto.PantryApplyRequest) (*dto.PantryApplyResponse, error) {
	unlock := s.locker.Lock(sessionId)
	defer unlock()

	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, _, err := s.load(ctx, uow, householdId, sessionId)
	if err != nil {
		return nil, err
	}
	if sess.IsTerminal() {
		return nil, serverutils.NewConflictError("session is already " + string(sess.Status))
	}

	existing, err := uow.PantryTransactionRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.NotUndone{},
		specification.FilterBy{Field: "reason", Value: "session_decrement"},
	)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, serverutils.NewConflictError("pantry has already been decremented for this session")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	applied := 0
	for _, reqItem := range req.Items {
		item, err := uow.PantryItemRepository().FindOne(ctx,
			specification.ByID{ID: reqItem.PantryItemId},
			specification.ByHouseholdID{HouseholdID: householdId},
			specification.ForUpdate{},
		)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, serverutils.NewNotFoundError("pantry item not found")
		}

		// The actual decrement is bounded by what is on hand; the ledger
		// records what really happened, not what was asked for.
		delta := reqItem.QtyNeeded
		if delta > item.Qty {
			delta = item.Qty
		}
		if delta <= 0 {
			continue
		}

		item.Qty = pantry.DecrementedQty(item.Qty, reqItem.QtyNeeded)
		if err := uow.PantryItemRepository().Update(ctx, item); err != nil {
			return nil, err
		}

		sid := sessionId
		tx := &entity.PantryTransaction{
			Id:           uuid.New(),
			HouseholdId:  householdId,
			PantryItemId: item.Id,
			SessionId:    &sid,
			Delta:        -delta,
			Reason:       "session_decrement",
			CreatedAt:    now,
		}
		if err := uow.PantryTransactionRepository().Create(ctx, tx); err != nil {
			return nil, err
		}
		applied++
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("PantryService", "Pantry decremented for session", map[string]interface{}{
		"session_id": sessionId,
		"applied":    applied,
	})
	return &dto.PantryApplyResponse{Applied: applied}, nil
}

// Undo reverses every not-yet-undone decrement this session made. Reversal
// adds the recorded delta back and marks the ledger row undone; running undo
// again is a harmless no-op with zero reversals.
func (s *pantryService) Undo(ctx context.Context, householdId, sessionId uuid.UUID) (*dto.PantryUndoResponse, error) {
	unlock := s.locker.Lock(sessionId)
	defer unlock()

	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, _, err := s.load(ctx, uow, householdId, sessionId); err != nil {
		return nil, err
	}

	txs, err := uow.PantryTransactionRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.NotUndone{},
		specification.FilterBy{Field: "reason", Value: "session_decrement"},
	)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return &dto.PantryUndoResponse{Reversed: 0}, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	reversed := 0
	for _, tx := range txs {
		item, err := uow.PantryItemRepository().FindOne(ctx,
			specification.ByID{ID: tx.PantryItemId},
			specification.ForUpdate{},
		)
		if err != nil {
			return nil, err
		}
		if item == nil {
			// Item deleted since the decrement; mark the ledger row undone
			// anyway so retries converge.
			s.logger.Warn("PantryService", "Pantry item missing during undo", map[string]interface{}{
				"pantry_item_id": tx.PantryItemId,
				"session_id":     sessionId,
			})
		} else {
			item.Qty += -tx.Delta
			if err := uow.PantryItemRepository().Update(ctx, item); err != nil {
				return nil, err
			}
		}

		tx.UndoneAt = &now
		if err := uow.PantryTransactionRepository().Update(ctx, tx); err != nil {
			return nil, err
		}
		reversed++
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.PantryUndoResponse{Reversed: reversed}, nil
}

func (s *pantryService) load(ctx context.Context, uow unitofwork.UnitOfWork, householdId, sessionId uuid.UUID) (*entity.Session, *entity.Recipe, error) {
	sess, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByHouseholdID{HouseholdID: householdId},
	)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, serverutils.NewNotFoundError("session not found")
	}

	recipe, err := uow.RecipeRepository().FindOne(ctx, specification.ByID{ID: sess.RecipeId})
	if err != nil {
		return nil, nil, err
	}
	if recipe == nil {
		return nil, nil, serverutils.NewIntegrityError("session references a missing recipe")
	}
	return sess, recipe, nil
}
