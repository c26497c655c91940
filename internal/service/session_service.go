package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cooksession-be/internal/dto"
	"cooksession-be/internal/entity"
	"cooksession-be/internal/pkg/logger"
	"cooksession-be/internal/pkg/serverutils"
	"cooksession-be/internal/repository/specification"
	"cooksession-be/internal/repository/unitofwork"
	"cooksession-be/pkg/cooking/autostep"
	"cooksession-be/pkg/cooking/pantry"
	"cooksession-be/pkg/cooking/timer"
	"cooksession-be/pkg/events"
	pktNats "cooksession-be/pkg/nats"

	"github.com/google/uuid"
)

type ISessionService interface {
	Start(ctx context.Context, householdId, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.SessionResponse, error)
	GetActive(ctx context.Context, householdId uuid.UUID) (*dto.SessionResponse, error)
	Show(ctx context.Context, householdId, id uuid.UUID) (*dto.SessionResponse, error)
	Mutate(ctx context.Context, householdId, id uuid.UUID, req *dto.MutateSessionRequest) (*dto.SessionResponse, error)
	End(ctx context.Context, householdId, id uuid.UUID, req *dto.EndSessionRequest) (*dto.SessionResponse, error)
	Complete(ctx context.Context, householdId, id uuid.UUID, req *dto.CompleteSessionRequest) (*dto.CompleteSessionResponse, error)
	Why(ctx context.Context, householdId, id uuid.UUID) (*dto.WhyResponse, error)
	EventTail(ctx context.Context, householdId, id uuid.UUID, limit int) ([]*dto.EventResponse, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	engine           *autostep.Engine
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	locker           *SessionLocker
	logger           logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	engine *autostep.Engine,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	locker *SessionLocker,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		engine:           engine,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		locker:           locker,
		logger:           log,
	}
}

// Start opens a cooking session for a recipe. A household runs at most one
// active session: retrying start for the same recipe returns the existing
// session unchanged, starting a different recipe while one is live conflicts.
func (s *sessionService) Start(ctx context.Context, householdId, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.SessionResponse, error) {
	// The one-active-session invariant is household-scoped and no session
	// id exists yet, so creation serializes on the household.
	unlock := s.locker.Lock(householdId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	active, err := uow.SessionRepository().FindOne(ctx,
		specification.ByHouseholdID{HouseholdID: householdId},
		specification.ByStatus{Status: string(entity.SessionStatusActive)},
	)
	if err != nil {
		return nil, err
	}
	if active != nil {
		if active.RecipeId == req.RecipeId {
			return s.assemble(ctx, uow, active, time.Now())
		}
		return nil, serverutils.NewConflictError("another session is already active for this household")
	}

	recipe, err := uow.RecipeRepository().FindOne(ctx,
		specification.ByID{ID: req.RecipeId},
		specification.ByHouseholdID{HouseholdID: householdId},
	)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, serverutils.NewNotFoundError("recipe not found")
	}

	now := time.Now()
	sess := &entity.Session{
		Id:               uuid.New(),
		RecipeId:         recipe.Id,
		HouseholdId:      householdId,
		UserId:           userId,
		Status:           entity.SessionStatusActive,
		CurrentStepIndex: 0,
		ServingsBase:     recipe.Servings,
		ServingsTarget:   recipe.Servings,
		StepChecks:       make(entity.StepChecks),
		Timers:           make(map[string]*entity.Timer),
		AutoStepEnabled:  true,
		AutoStepMode:     entity.AutoStepModeSuggest,
		CreatedAt:        now,
	}

	if err := uow.SessionRepository().Create(ctx, sess); err != nil {
		// Another instance can win the race on the one-active-per-household
		// index; converge on whichever session is live now.
		winner, ferr := uow.SessionRepository().FindOne(ctx,
			specification.ByHouseholdID{HouseholdID: householdId},
			specification.ByStatus{Status: string(entity.SessionStatusActive)},
		)
		if ferr == nil && winner != nil {
			if winner.RecipeId == req.RecipeId {
				return s.assemble(ctx, uow, winner, now)
			}
			return nil, serverutils.NewConflictError("another session is already active for this household")
		}
		return nil, err
	}

	start := newEvent(sess.Id, entity.EventSessionStart, intPtr(0), nil, nil, entity.LifecycleMeta{}, now)
	if err := uow.EventRepository().Create(ctx, start); err != nil {
		return nil, err
	}

	s.notifyChanged(ctx, sess, "start")
	return s.assemble(ctx, uow, sess, now)
}

func (s *sessionService) GetActive(ctx context.Context, householdId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.SessionRepository().FindOne(ctx,
		specification.ByHouseholdID{HouseholdID: householdId},
		specification.ByStatus{Status: string(entity.SessionStatusActive)},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, serverutils.NewNotFoundError("no active session")
	}
	return s.assemble(ctx, uow, sess, time.Now())
}

func (s *sessionService) Show(ctx context.Context, householdId, id uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sess, err := s.find(ctx, uow, householdId, id)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, uow, sess, time.Now())
}

// Mutate applies one patch request against a live session. Set fields apply
// in a fixed order; each one appends its interaction event, then inference
// reruns over the refreshed event window before the session row is saved.
func (s *sessionService) Mutate(ctx context.Context, householdId, id uuid.UUID, req *dto.MutateSessionRequest) (*dto.SessionResponse, error) {
	unlock := s.locker.Lock(id)
	defer unlock()

	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, err := s.findActive(ctx, uow, householdId, id)
	if err != nil {
		return nil, err
	}

	recipe, err := uow.RecipeRepository().FindOne(ctx, specification.ByID{ID: sess.RecipeId})
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, serverutils.NewIntegrityError("session references a missing recipe")
	}
	steps := sess.EffectiveSteps(recipe.Steps)

	var appended []*entity.Event

	if req.CurrentStepIndex != nil {
		evs, err := s.applyNavigate(sess, steps, *req.CurrentStepIndex, "user", now)
		if err != nil {
			return nil, err
		}
		appended = append(appended, evs...)
	}

	if req.StepCheck != nil {
		ev, err := s.applyStepCheck(sess, steps, req.StepCheck, now)
		if err != nil {
			return nil, err
		}
		appended = append(appended, ev)
	}

	if req.MarkStepComplete != nil {
		evs, err := s.applyMarkComplete(sess, steps, req.MarkStepComplete.StepIndex, now)
		if err != nil {
			return nil, err
		}
		appended = append(appended, evs...)
	}

	if req.ServingsTarget != nil {
		ev, err := s.applyServings(sess, *req.ServingsTarget, now)
		if err != nil {
			return nil, err
		}
		appended = append(appended, ev)
	}

	if req.TimerCreate != nil {
		ev, err := s.applyTimerCreate(sess, steps, req.TimerCreate, now)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			appended = append(appended, ev)
		}
	}

	if req.TimerAction != nil {
		ev, err := s.applyTimerAction(sess, req.TimerAction, now)
		if err != nil {
			return nil, err
		}
		appended = append(appended, ev)
	}

	if req.AutoStepEnabled != nil {
		sess.AutoStepEnabled = *req.AutoStepEnabled
	}
	if req.AutoStepMode != nil {
		sess.AutoStepMode = entity.AutoStepMode(*req.AutoStepMode)
	}

	if err := s.finishMutation(ctx, uow, sess, appended, now); err != nil {
		return nil, err
	}

	s.notifyChanged(ctx, sess, "mutate")
	return s.response(sess, steps, now), nil
}

// End closes the session. "complete" is the bare form of completion; the
// richer recap flow lives in Complete.
func (s *sessionService) End(ctx context.Context, householdId, id uuid.UUID, req *dto.EndSessionRequest) (*dto.SessionResponse, error) {
	unlock := s.locker.Lock(id)
	defer unlock()

	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, err := s.findActive(ctx, uow, householdId, id)
	if err != nil {
		return nil, err
	}

	var ev *entity.Event
	switch req.Action {
	case "complete":
		sess.Status = entity.SessionStatusCompleted
		sess.CompletedAt = &now
		ev = newEvent(sess.Id, entity.EventSessionCompleted, nil, nil, nil, entity.LifecycleMeta{}, now)
	case "abandon":
		sess.Status = entity.SessionStatusAbandoned
		sess.AbandonedAt = &now
		ev = newEvent(sess.Id, entity.EventSessionAbandoned, nil, nil, nil, entity.LifecycleMeta{Reason: "abandoned"}, now)
	default:
		return nil, serverutils.NewValidationError("unknown end action")
	}

	if err := uow.EventRepository().Create(ctx, ev); err != nil {
		return nil, err
	}
	if err := uow.SessionRepository().Update(ctx, sess); err != nil {
		return nil, err
	}

	s.notifyChanged(ctx, sess, "end")
	return s.assemble(ctx, uow, sess, now)
}

// Complete finalizes the session with a recap: servings actually made,
// leftovers, optional creation of a leftover pantry row.
func (s *sessionService) Complete(ctx context.Context, householdId, id uuid.UUID, req *dto.CompleteSessionRequest) (*dto.CompleteSessionResponse, error) {
	unlock := s.locker.Lock(id)
	defer unlock()

	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, err := s.findActive(ctx, uow, householdId, id)
	if err != nil {
		return nil, err
	}

	recipe, err := uow.RecipeRepository().FindOne(ctx, specification.ByID{ID: sess.RecipeId})
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, serverutils.NewIntegrityError("session references a missing recipe")
	}
	steps := sess.EffectiveSteps(recipe.Steps)

	sess.Status = entity.SessionStatusCompleted
	sess.CompletedAt = &now
	sess.ServingsMade = req.ServingsMade
	sess.LeftoverServings = req.LeftoverServings
	sess.FinalNotes = req.FinalNotes

	leftoverCreated := false
	if req.CreateLeftover && req.LeftoverServings != nil && *req.LeftoverServings > 0 {
		if err := s.createLeftover(ctx, uow, sess, recipe.Title, *req.LeftoverServings, now); err != nil {
			return nil, err
		}
		leftoverCreated = true
	}

	ev := newEvent(sess.Id, entity.EventSessionCompleted, nil, nil, nil, entity.LifecycleMeta{}, now)
	if err := uow.EventRepository().Create(ctx, ev); err != nil {
		return nil, err
	}
	if err := uow.SessionRepository().Update(ctx, sess); err != nil {
		return nil, err
	}

	adjustments, err := uow.AdjustmentRepository().Count(ctx,
		specification.BySessionID{SessionID: sess.Id},
		specification.NotUndone{},
	)
	if err != nil {
		return nil, err
	}

	s.notifyChanged(ctx, sess, "complete")

	return &dto.CompleteSessionResponse{
		Session: s.response(sess, steps, now),
		Recap: dto.SessionRecap{
			ChecklistCompletionRate: sess.StepChecks.CompletionRate(steps),
			TimersUsed:              len(sess.Timers),
			AdjustmentsApplied:      int(adjustments),
			LeftoverItemCreated:     leftoverCreated,
		},
	}, nil
}

// Why explains the current auto-step suggestion: the scored signals, the
// manual-override state, and the next-action hint. Read-only, nothing is
// persisted.
func (s *sessionService) Why(ctx context.Context, householdId, id uuid.UUID) (*dto.WhyResponse, error) {
	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sess, err := s.find(ctx, uow, householdId, id)
	if err != nil {
		return nil, err
	}

	recipe, err := uow.RecipeRepository().FindOne(ctx, specification.ByID{ID: sess.RecipeId})
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, serverutils.NewIntegrityError("session references a missing recipe")
	}
	steps := sess.EffectiveSteps(recipe.Steps)

	windowEvents, err := s.windowEvents(ctx, uow, sess.Id, now)
	if err != nil {
		return nil, err
	}

	sug := s.engine.Infer(sess, windowEvents, now)

	res := &dto.WhyResponse{
		SuggestedIndex:   sug.Index,
		Confidence:       sug.Confidence,
		Reason:           sug.Reason,
		ManualOverride:   sess.ManualOverrideActive(now),
		CurrentStepIndex: sess.CurrentStepIndex,
	}
	for _, sig := range sug.Signals {
		res.Signals = append(res.Signals, dto.WhySignalDTO{
			EventType:  string(sig.EventType),
			StepIndex:  sig.StepIndex,
			AgeSeconds: sig.AgeSeconds,
			Weight:     sig.Weight,
			Points:     sig.Points,
		})
	}
	if hint := autostep.SuggestNextAction(sess, steps, now); hint.Action != autostep.ActionNone {
		res.NextAction = &dto.NextActionDTO{
			Action:      string(hint.Action),
			StepIndex:   hint.StepIndex,
			DurationSec: hint.DurationSec,
			Reason:      hint.Reason,
		}
	}
	return res, nil
}

// EventTail returns the most recent events, newest first.
func (s *sessionService) EventTail(ctx context.Context, householdId, id uuid.UUID, limit int) ([]*dto.EventResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.find(ctx, uow, householdId, id); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	evs, err := uow.EventRepository().FindAll(ctx,
		specification.BySessionID{SessionID: id},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.EventResponse, 0, len(evs))
	for _, ev := range evs {
		out = append(out, &dto.EventResponse{
			Id:          ev.Id,
			Type:        string(ev.Type),
			StepIndex:   ev.StepIndex,
			BulletIndex: ev.BulletIndex,
			TimerId:     ev.TimerId,
			Meta:        ev.Meta,
			CreatedAt:   ev.CreatedAt,
		})
	}
	return out, nil
}

// --- patch appliers ---

func (s *sessionService) applyNavigate(sess *entity.Session, steps []entity.RecipeStep, to int, source string, now time.Time) ([]*entity.Event, error) {
	if to < 0 || to >= len(steps) {
		return nil, serverutils.NewValidationError(fmt.Sprintf("step index %d out of range", to))
	}
	if to == sess.CurrentStepIndex {
		return nil, nil
	}

	from := sess.CurrentStepIndex
	sess.CurrentStepIndex = to
	sess.Touch(now, to)

	// An explicit navigation suppresses auto-jump for a short window so the
	// engine cannot immediately fight the cook.
	if source != "auto_jump" {
		until := now.Add(s.engine.ManualOverrideWindow())
		sess.ManualOverrideUntil = &until
	}

	ev := newEvent(sess.Id, entity.EventStepNavigate, intPtr(to), nil, nil,
		entity.NavigateMeta{FromStep: from, ToStep: to, Source: source}, now)
	return []*entity.Event{ev}, nil
}

func (s *sessionService) applyStepCheck(sess *entity.Session, steps []entity.RecipeStep, patch *dto.StepCheckPatch, now time.Time) (*entity.Event, error) {
	if patch.StepIndex >= len(steps) {
		return nil, serverutils.NewValidationError("step index out of range")
	}
	if patch.BulletIndex >= len(steps[patch.StepIndex].Bullets) {
		return nil, serverutils.NewValidationError("bullet index out of range")
	}

	sess.StepChecks.Set(patch.StepIndex, patch.BulletIndex, patch.Checked)
	sess.Touch(now, patch.StepIndex)

	evType := entity.EventCheckStep
	if !patch.Checked {
		evType = entity.EventUncheckStep
	}
	return newEvent(sess.Id, evType, intPtr(patch.StepIndex), intPtr(patch.BulletIndex), nil,
		entity.CheckMeta{Checked: patch.Checked}, now), nil
}

// applyMarkComplete checks every remaining bullet of the step and, when a
// following step exists, navigates to it.
func (s *sessionService) applyMarkComplete(sess *entity.Session, steps []entity.RecipeStep, stepIndex int, now time.Time) ([]*entity.Event, error) {
	if stepIndex < 0 || stepIndex >= len(steps) {
		return nil, serverutils.NewValidationError("step index out of range")
	}

	var out []*entity.Event
	for i := range steps[stepIndex].Bullets {
		if sess.StepChecks.IsChecked(stepIndex, i) {
			continue
		}
		sess.StepChecks.Set(stepIndex, i, true)
		out = append(out, newEvent(sess.Id, entity.EventCheckStep, intPtr(stepIndex), intPtr(i),
			nil, entity.CheckMeta{Checked: true}, now))
	}
	sess.Touch(now, stepIndex)

	if stepIndex+1 < len(steps) {
		navEvents, err := s.applyNavigate(sess, steps, stepIndex+1, "mark_complete", now)
		if err != nil {
			return nil, err
		}
		out = append(out, navEvents...)
	}
	return out, nil
}

func (s *sessionService) applyServings(sess *entity.Session, target float64, now time.Time) (*entity.Event, error) {
	if target <= 0 {
		return nil, serverutils.NewValidationError("servings target must be positive")
	}

	from := sess.ServingsTarget
	sess.ServingsTarget = target
	sess.Touch(now, sess.CurrentStepIndex)

	return newEvent(sess.Id, entity.EventServingsChange, intPtr(sess.CurrentStepIndex), nil, nil,
		entity.ServingsMeta{From: from, To: target}, now), nil
}

func (s *sessionService) applyTimerCreate(sess *entity.Session, steps []entity.RecipeStep, patch *dto.TimerCreatePatch, now time.Time) (*entity.Event, error) {
	if patch.StepIndex >= len(steps) {
		return nil, serverutils.NewValidationError("step index out of range")
	}

	registry := timer.NewRegistry(sess.Timers)
	t, created := registry.Create(patch.ClientId, patch.Label, patch.StepIndex, patch.DurationSec, now)
	sess.Timers = registry.Timers()
	sess.Touch(now, patch.StepIndex)

	if !created {
		// Retried create: the original timer already exists, nothing new
		// to record.
		return nil, nil
	}

	tid := t.Id
	return newEvent(sess.Id, entity.EventTimerCreate, intPtr(patch.StepIndex), nil, &tid,
		entity.TimerMeta{Label: t.Label, DurationSec: t.DurationSec}, now), nil
}

func (s *sessionService) applyTimerAction(sess *entity.Session, patch *dto.TimerActionPatch, now time.Time) (*entity.Event, error) {
	registry := timer.NewRegistry(sess.Timers)

	t, err := registry.Apply(patch.TimerId.String(), timer.Action(patch.Action), now)
	switch {
	case err == nil:
	case errors.Is(err, timer.ErrNotFound):
		return nil, serverutils.NewNotFoundError("timer not found")
	default:
		return nil, serverutils.NewConflictError(err.Error())
	}
	sess.Timers = registry.Timers()
	sess.Touch(now, t.StepIndex)

	tid := t.Id
	return newEvent(sess.Id, timer.EventTypeFor(timer.Action(patch.Action)), intPtr(t.StepIndex), nil, &tid,
		entity.TimerMeta{Action: patch.Action, RemainingSec: t.RemainingAt(now)}, now), nil
}

// finishMutation is the common tail of every mutation: persist the appended
// events, rerun inference over the refreshed window, auto-jump when the gate
// opens, then save the session row.
func (s *sessionService) finishMutation(ctx context.Context, uow unitofwork.UnitOfWork, sess *entity.Session, appended []*entity.Event, now time.Time) error {
	if len(appended) > 0 {
		if err := uow.EventRepository().CreateBulk(ctx, appended); err != nil {
			return err
		}
	}

	windowEvents, err := s.windowEvents(ctx, uow, sess.Id, now)
	if err != nil {
		return err
	}

	sug := s.engine.Infer(sess, windowEvents, now)
	sess.AutoStepSuggestedIndex = sug.Index
	sess.AutoStepConfidence = sug.Confidence
	sess.AutoStepReason = sug.Reason

	if s.engine.ShouldAutoJump(sess, sug, now) {
		from := sess.CurrentStepIndex
		sess.CurrentStepIndex = *sug.Index
		jump := newEvent(sess.Id, entity.EventStepNavigate, sug.Index, nil, nil,
			entity.NavigateMeta{FromStep: from, ToStep: *sug.Index, Source: "auto_jump"}, now)
		if err := uow.EventRepository().Create(ctx, jump); err != nil {
			return err
		}
		s.logger.Info("SessionService", "Auto-jumped to inferred step", map[string]interface{}{
			"session_id": sess.Id,
			"from":       from,
			"to":         *sug.Index,
			"confidence": sug.Confidence,
		})
	}

	return uow.SessionRepository().Update(ctx, sess)
}

// --- helpers ---

func (s *sessionService) find(ctx context.Context, uow unitofwork.UnitOfWork, householdId, id uuid.UUID) (*entity.Session, error) {
	sess, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByHouseholdID{HouseholdID: householdId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, serverutils.NewNotFoundError("session not found")
	}
	return sess, nil
}

func (s *sessionService) findActive(ctx context.Context, uow unitofwork.UnitOfWork, householdId, id uuid.UUID) (*entity.Session, error) {
	sess, err := s.find(ctx, uow, householdId, id)
	if err != nil {
		return nil, err
	}
	if sess.IsTerminal() {
		return nil, serverutils.NewConflictError("session is already " + string(sess.Status))
	}
	return sess, nil
}

func (s *sessionService) windowEvents(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, now time.Time) ([]*entity.Event, error) {
	return uow.EventRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.CreatedAfter{After: now.Add(-s.engine.Window())},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
}

// assemble loads the recipe for the session and builds the response.
func (s *sessionService) assemble(ctx context.Context, uow unitofwork.UnitOfWork, sess *entity.Session, now time.Time) (*dto.SessionResponse, error) {
	recipe, err := uow.RecipeRepository().FindOne(ctx, specification.ByID{ID: sess.RecipeId})
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, serverutils.NewIntegrityError("session references a missing recipe")
	}
	return s.response(sess, sess.EffectiveSteps(recipe.Steps), now), nil
}

func (s *sessionService) response(sess *entity.Session, steps []entity.RecipeStep, now time.Time) *dto.SessionResponse {
	res := &dto.SessionResponse{
		Id:                     sess.Id,
		RecipeId:               sess.RecipeId,
		Status:                 string(sess.Status),
		CurrentStepIndex:       sess.CurrentStepIndex,
		ServingsBase:           sess.ServingsBase,
		ServingsTarget:         sess.ServingsTarget,
		Steps:                  stepsToDTO(steps),
		StepChecks:             sess.StepChecks,
		AutoStepEnabled:        sess.AutoStepEnabled,
		AutoStepMode:           string(sess.AutoStepMode),
		AutoStepSuggestedIndex: sess.AutoStepSuggestedIndex,
		AutoStepConfidence:     sess.AutoStepConfidence,
		AutoStepReason:         sess.AutoStepReason,
		CreatedAt:              sess.CreatedAt,
		UpdatedAt:              sess.UpdatedAt,
	}

	for _, t := range sess.Timers {
		if t.State == entity.TimerStateDeleted {
			continue
		}
		res.Timers = append(res.Timers, dto.TimerResponse{
			Id:           t.Id,
			ClientId:     t.ClientId,
			Label:        t.Label,
			StepIndex:    t.StepIndex,
			State:        string(t.State),
			DurationSec:  t.DurationSec,
			RemainingSec: t.RemainingAt(now),
			DueAt:        t.DueAt,
		})
	}

	if hint := autostep.SuggestNextAction(sess, steps, now); hint.Action != autostep.ActionNone {
		res.NextAction = &dto.NextActionDTO{
			Action:      string(hint.Action),
			StepIndex:   hint.StepIndex,
			DurationSec: hint.DurationSec,
			Reason:      hint.Reason,
		}
	}
	return res
}

// createLeftover upserts a pantry row for the leftovers inside one
// transaction, mirroring the decrement path's ledger discipline.
func (s *sessionService) createLeftover(ctx context.Context, uow unitofwork.UnitOfWork, sess *entity.Session, recipeTitle string, servings float64, now time.Time) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	name := "Leftover: " + recipeTitle
	item, err := uow.PantryItemRepository().FindOne(ctx,
		specification.ByHouseholdID{HouseholdID: sess.HouseholdId},
		specification.ByNormalizedName{Name: pantry.NormalizeName(name)},
		specification.ForUpdate{},
	)
	if err != nil {
		return err
	}

	if item == nil {
		item = &entity.PantryItem{
			Id:             uuid.New(),
			HouseholdId:    sess.HouseholdId,
			Name:           name,
			NormalizedName: pantry.NormalizeName(name),
			Qty:            servings,
			Unit:           "serving",
			CreatedAt:      now,
		}
		if err := uow.PantryItemRepository().Create(ctx, item); err != nil {
			return err
		}
	} else {
		item.Qty += servings
		if err := uow.PantryItemRepository().Update(ctx, item); err != nil {
			return err
		}
	}

	sid := sess.Id
	tx := &entity.PantryTransaction{
		Id:           uuid.New(),
		HouseholdId:  sess.HouseholdId,
		PantryItemId: item.Id,
		SessionId:    &sid,
		Delta:        servings,
		Reason:       "leftover",
		CreatedAt:    now,
	}
	if err := uow.PantryTransactionRepository().Create(ctx, tx); err != nil {
		return err
	}

	return uow.Commit()
}

// notifyChanged pushes the change to the in-process bus and the external
// event stream. Delivery is best effort; a mutation never fails because a
// notification could not be sent.
func (s *sessionService) notifyChanged(ctx context.Context, sess *entity.Session, change string) {
	msg := dto.SessionChangedMessage{
		SessionId:   sess.Id,
		HouseholdId: sess.HouseholdId,
		Change:      change,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	if s.publisherService != nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("SessionService", "Failed to publish session change", map[string]interface{}{
				"session_id": sess.Id,
				"error":      err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "COOKING_SESSION_CHANGED",
			Data: map[string]interface{}{
				"session_id":   sess.Id,
				"household_id": sess.HouseholdId,
				"change":       change,
				"status":       string(sess.Status),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("SessionService", "Failed to publish session change event", map[string]interface{}{
				"session_id": sess.Id,
				"error":      err.Error(),
			})
		}
	}
}

func newEvent(sessionId uuid.UUID, t entity.EventType, stepIndex, bulletIndex *int, timerId *uuid.UUID, meta entity.EventMeta, now time.Time) *entity.Event {
	return &entity.Event{
		Id:          uuid.New(),
		SessionId:   sessionId,
		Type:        t,
		StepIndex:   stepIndex,
		BulletIndex: bulletIndex,
		TimerId:     timerId,
		Meta:        meta,
		CreatedAt:   now,
	}
}

func stepsToDTO(steps []entity.RecipeStep) []dto.RecipeStepDTO {
	out := make([]dto.RecipeStepDTO, len(steps))
	for i, st := range steps {
		out[i] = dto.RecipeStepDTO{
			Title:      st.Title,
			Bullets:    st.Bullets,
			MinutesEst: st.MinutesEst,
		}
	}
	return out
}

func intPtr(v int) *int {
	return &v
}
