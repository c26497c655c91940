package mapper

import (
	"encoding/json"
	"time"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.CookSession) *entity.Session {
	if s == nil {
		return nil
	}

	checks := make(entity.StepChecks)
	if len(s.StepChecks) > 0 {
		_ = json.Unmarshal(s.StepChecks, &checks)
	}

	timers := make(map[string]*entity.Timer)
	if len(s.Timers) > 0 {
		_ = json.Unmarshal(s.Timers, &timers)
	}

	var override []entity.RecipeStep
	if len(s.StepsOverride) > 0 && string(s.StepsOverride) != "null" {
		_ = json.Unmarshal(s.StepsOverride, &override)
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Session{
		Id:                       s.Id,
		RecipeId:                 s.RecipeId,
		HouseholdId:              s.HouseholdId,
		UserId:                   s.UserId,
		Status:                   entity.SessionStatus(s.Status),
		CurrentStepIndex:         s.CurrentStepIndex,
		ServingsBase:             s.ServingsBase,
		ServingsTarget:           s.ServingsTarget,
		StepChecks:               checks,
		Timers:                   timers,
		StepsOverride:            override,
		AutoStepEnabled:          s.AutoStepEnabled,
		AutoStepMode:             entity.AutoStepMode(s.AutoStepMode),
		AutoStepSuggestedIndex:   s.AutoStepSuggestedIndex,
		AutoStepConfidence:       s.AutoStepConfidence,
		AutoStepReason:           s.AutoStepReason,
		ManualOverrideUntil:      s.ManualOverrideUntil,
		LastInteractionAt:        s.LastInteractionAt,
		LastInteractionStepIndex: s.LastInteractionStepIndex,
		ServingsMade:             s.ServingsMade,
		LeftoverServings:         s.LeftoverServings,
		FinalNotes:               s.FinalNotes,
		CompletedAt:              s.CompletedAt,
		AbandonedAt:              s.AbandonedAt,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                updatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.CookSession {
	if s == nil {
		return nil
	}

	checksJSON, _ := json.Marshal(s.StepChecks)
	timersJSON, _ := json.Marshal(s.Timers)

	var overrideJSON datatypes.JSON
	if s.StepsOverride != nil {
		b, _ := json.Marshal(s.StepsOverride)
		overrideJSON = b
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.CookSession{
		Id:                       s.Id,
		RecipeId:                 s.RecipeId,
		HouseholdId:              s.HouseholdId,
		UserId:                   s.UserId,
		Status:                   string(s.Status),
		CurrentStepIndex:         s.CurrentStepIndex,
		ServingsBase:             s.ServingsBase,
		ServingsTarget:           s.ServingsTarget,
		StepChecks:               datatypes.JSON(checksJSON),
		Timers:                   datatypes.JSON(timersJSON),
		StepsOverride:            overrideJSON,
		AutoStepEnabled:          s.AutoStepEnabled,
		AutoStepMode:             string(s.AutoStepMode),
		AutoStepSuggestedIndex:   s.AutoStepSuggestedIndex,
		AutoStepConfidence:       s.AutoStepConfidence,
		AutoStepReason:           s.AutoStepReason,
		ManualOverrideUntil:      s.ManualOverrideUntil,
		LastInteractionAt:        s.LastInteractionAt,
		LastInteractionStepIndex: s.LastInteractionStepIndex,
		ServingsMade:             s.ServingsMade,
		LeftoverServings:         s.LeftoverServings,
		FinalNotes:               s.FinalNotes,
		CompletedAt:              s.CompletedAt,
		AbandonedAt:              s.AbandonedAt,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                updatedAt,
	}
}

func (m *SessionMapper) ToEntities(sessions []*model.CookSession) []*entity.Session {
	entities := make([]*entity.Session, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
