package service

import (
	"context"
	"encoding/json"
	"time"

	"cooksession-be/internal/dto"
	"cooksession-be/internal/entity"
	"cooksession-be/internal/pkg/logger"
	"cooksession-be/internal/pkg/serverutils"
	"cooksession-be/internal/repository/specification"
	"cooksession-be/internal/repository/unitofwork"
	"cooksession-be/pkg/cooking/adjust"

	"github.com/google/uuid"
)

type IAdjustmentService interface {
	Preview(ctx context.Context, householdId, sessionId uuid.UUID, req *dto.PreviewAdjustmentRequest) (*dto.PreviewAdjustmentResponse, error)
	Apply(ctx context.Context, householdId, sessionId uuid.UUID, req *dto.ApplyAdjustmentRequest) (*dto.AdjustmentResponse, error)
	Undo(ctx context.Context, householdId, sessionId uuid.UUID, req *dto.UndoAdjustmentRequest) (*dto.UndoAdjustmentResponse, error)
	List(ctx context.Context, householdId, sessionId uuid.UUID) ([]*dto.AdjustmentResponse, error)
}

type adjustmentService struct {
	uowFactory       unitofwork.RepositoryFactory
	engine           *adjust.Engine
	publisherService IPublisherService
	locker           *SessionLocker
	logger           logger.ILogger
}

func NewAdjustmentService(
	uowFactory unitofwork.RepositoryFactory,
	engine *adjust.Engine,
	publisherService IPublisherService,
	locker *SessionLocker,
	log logger.ILogger,
) IAdjustmentService {
	return &adjustmentService{
		uowFactory:       uowFactory,
		engine:           engine,
		publisherService: publisherService,
		locker:           locker,
		logger:           log,
	}
}

// Preview computes the replacement for one step without touching the
// session. Generation failures degrade to the rule or generic fallback
// inside the engine, so preview always answers.
func (s *adjustmentService) Preview(ctx context.Context, householdId, sessionId uuid.UUID, req *dto.PreviewAdjustmentRequest) (*dto.PreviewAdjustmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	_, recipe, steps, err := s.load(ctx, uow, householdId, sessionId)
	if err != nil {
		return nil, err
	}
	if req.StepIndex >= len(steps) {
		return nil, serverutils.NewValidationError("step index out of range")
	}

	proposal := s.engine.Propose(ctx, adjust.GenerateRequest{
		Kind:        entity.AdjustmentKind(req.Kind),
		RecipeTitle: recipe.Title,
		Step:        steps[req.StepIndex],
		Context:     req.Context,
	})

	after := entity.RecipeStep{
		Title:      proposal.Replacement.Title,
		Bullets:    proposal.Replacement.Bullets,
		MinutesEst: steps[req.StepIndex].MinutesEst,
	}
	newSteps := adjust.BuildStepList(steps, req.StepIndex, proposal.Replacement)

	return &dto.PreviewAdjustmentResponse{
		StepIndex:  req.StepIndex,
		Kind:       req.Kind,
		Title:      proposal.Replacement.Title,
		Bullets:    proposal.Replacement.Bullets,
		Warnings:   proposal.Replacement.Warnings,
		Source:     string(proposal.Source),
		Confidence: proposal.Confidence,
		Diff: dto.StepDiff{
			Before: stepToDTO(steps[req.StepIndex]),
			After:  stepToDTO(after),
		},
		Steps: stepsToDTO(newSteps),
	}, nil
}

// Apply writes the previewed replacement into the session's step override
// and records the adjustment with a snapshot of the step it replaced. The
// snapshot is what makes undo an exact revert.
func (s *adjustmentService) Apply(ctx context.Context, householdId, sessionId uuid.UUID, req *dto.ApplyAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	unlock := s.locker.Lock(sessionId)
	defer unlock()

	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, _, steps, err := s.load(ctx, uow, householdId, sessionId)
	if err != nil {
		return nil, err
	}
	if sess.IsTerminal() {
		return nil, serverutils.NewConflictError("session is already " + string(sess.Status))
	}
	if req.StepIndex >= len(steps) {
		return nil, serverutils.NewValidationError("step index out of range")
	}

	before := steps[req.StepIndex]
	rep := adjust.Replacement{
		Title:    req.Title,
		Bullets:  req.Bullets,
		Warnings: req.Warnings,
	}

	adj := &entity.Adjustment{
		Id:         uuid.New(),
		SessionId:  sess.Id,
		StepIndex:  req.StepIndex,
		Kind:       entity.AdjustmentKind(req.Kind),
		Title:      req.Title,
		Bullets:    req.Bullets,
		Warnings:   req.Warnings,
		Confidence: req.Confidence,
		Source:     entity.AdjustmentSource(req.Source),
		BeforeStep: &before,
		AfterStep: entity.RecipeStep{
			Title:      req.Title,
			Bullets:    req.Bullets,
			MinutesEst: before.MinutesEst,
		},
		AppliedAt: now,
	}
	if err := uow.AdjustmentRepository().Create(ctx, adj); err != nil {
		return nil, err
	}

	sess.StepsOverride = adjust.BuildStepList(steps, req.StepIndex, rep)
	sess.Touch(now, req.StepIndex)

	ev := newEvent(sess.Id, entity.EventAdjustApply, intPtr(req.StepIndex), nil, nil,
		entity.AdjustMeta{AdjustmentId: adj.Id, Kind: req.Kind, Source: req.Source}, now)
	if err := uow.EventRepository().Create(ctx, ev); err != nil {
		return nil, err
	}
	if err := uow.SessionRepository().Update(ctx, sess); err != nil {
		return nil, err
	}

	s.notify(ctx, sess, "adjust_apply")
	return adjustmentToDTO(adj), nil
}

// Undo reverts the newest not-yet-undone adjustment, or a specific one by
// id. Entries stay in the log; only the undone marker flips. When the
// snapshot is missing the entry is still marked undone, with a warning
// instead of a restore.
func (s *adjustmentService) Undo(ctx context.Context, householdId, sessionId uuid.UUID, req *dto.UndoAdjustmentRequest) (*dto.UndoAdjustmentResponse, error) {
	unlock := s.locker.Lock(sessionId)
	defer unlock()

	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, recipe, steps, err := s.load(ctx, uow, householdId, sessionId)
	if err != nil {
		return nil, err
	}
	if sess.IsTerminal() {
		return nil, serverutils.NewConflictError("session is already " + string(sess.Status))
	}

	var adj *entity.Adjustment
	if req != nil && req.AdjustmentId != nil {
		adj, err = uow.AdjustmentRepository().FindOne(ctx,
			specification.ByID{ID: *req.AdjustmentId},
			specification.BySessionID{SessionID: sessionId},
		)
		if err != nil {
			return nil, err
		}
		if adj == nil {
			return nil, serverutils.NewNotFoundError("adjustment not found")
		}
		if adj.IsUndone() {
			return nil, serverutils.NewConflictError("adjustment is already undone")
		}
	} else {
		adj, err = uow.AdjustmentRepository().FindOne(ctx,
			specification.BySessionID{SessionID: sessionId},
			specification.NotUndone{},
			specification.OrderBy{Field: "applied_at", Desc: true},
		)
		if err != nil {
			return nil, err
		}
		if adj == nil {
			return nil, serverutils.NewNotFoundError("no adjustment to undo")
		}
	}

	restored := false
	warning := ""
	if adj.BeforeStep != nil {
		if adj.StepIndex >= len(steps) {
			return nil, serverutils.NewIntegrityError("adjustment step index no longer exists")
		}
		next := make([]entity.RecipeStep, len(steps))
		copy(next, steps)
		next[adj.StepIndex] = *adj.BeforeStep
		sess.StepsOverride = next
		restored = true
	} else {
		warning = "original step snapshot missing; marked undone without restoring content"
		s.logger.Warn("AdjustmentService", "Undo without snapshot", map[string]interface{}{
			"adjustment_id": adj.Id,
			"session_id":    sess.Id,
		})
	}

	adj.UndoneAt = &now
	if err := uow.AdjustmentRepository().Update(ctx, adj); err != nil {
		return nil, err
	}

	restoredFlag := restored
	ev := newEvent(sess.Id, entity.EventAdjustUndo, intPtr(adj.StepIndex), nil, nil,
		entity.AdjustMeta{AdjustmentId: adj.Id, Kind: string(adj.Kind), Restored: &restoredFlag}, now)
	if err := uow.EventRepository().Create(ctx, ev); err != nil {
		return nil, err
	}

	sess.Touch(now, adj.StepIndex)
	if err := uow.SessionRepository().Update(ctx, sess); err != nil {
		return nil, err
	}

	s.notify(ctx, sess, "adjust_undo")
	return &dto.UndoAdjustmentResponse{
		Adjustment: adjustmentToDTO(adj),
		Restored:   restored,
		Warning:    warning,
		Steps:      stepsToDTO(sess.EffectiveSteps(recipe.Steps)),
	}, nil
}

func (s *adjustmentService) List(ctx context.Context, householdId, sessionId uuid.UUID) ([]*dto.AdjustmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, _, _, err := s.load(ctx, uow, householdId, sessionId); err != nil {
		return nil, err
	}

	adjs, err := uow.AdjustmentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "applied_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.AdjustmentResponse, 0, len(adjs))
	for _, adj := range adjs {
		out = append(out, adjustmentToDTO(adj))
	}
	return out, nil
}

func (s *adjustmentService) load(ctx context.Context, uow unitofwork.UnitOfWork, householdId, sessionId uuid.UUID) (*entity.Session, *entity.Recipe, []entity.RecipeStep, error) {
	sess, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByHouseholdID{HouseholdID: householdId},
	)
	if err != nil {
		return nil, nil, nil, err
	}
	if sess == nil {
		return nil, nil, nil, serverutils.NewNotFoundError("session not found")
	}

	recipe, err := uow.RecipeRepository().FindOne(ctx, specification.ByID{ID: sess.RecipeId})
	if err != nil {
		return nil, nil, nil, err
	}
	if recipe == nil {
		return nil, nil, nil, serverutils.NewIntegrityError("session references a missing recipe")
	}

	return sess, recipe, sess.EffectiveSteps(recipe.Steps), nil
}

func (s *adjustmentService) notify(ctx context.Context, sess *entity.Session, change string) {
	if s.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.SessionChangedMessage{
		SessionId:   sess.Id,
		HouseholdId: sess.HouseholdId,
		Change:      change,
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("AdjustmentService", "Failed to publish session change", map[string]interface{}{
			"session_id": sess.Id,
			"error":      err.Error(),
		})
	}
}

func adjustmentToDTO(adj *entity.Adjustment) *dto.AdjustmentResponse {
	return &dto.AdjustmentResponse{
		Id:         adj.Id,
		StepIndex:  adj.StepIndex,
		Kind:       string(adj.Kind),
		Title:      adj.Title,
		Bullets:    adj.Bullets,
		Warnings:   adj.Warnings,
		Source:     string(adj.Source),
		Confidence: adj.Confidence,
		AppliedAt:  adj.AppliedAt,
		UndoneAt:   adj.UndoneAt,
	}
}

func stepToDTO(st entity.RecipeStep) dto.RecipeStepDTO {
	return dto.RecipeStepDTO{
		Title:      st.Title,
		Bullets:    st.Bullets,
		MinutesEst: st.MinutesEst,
	}
}
