package mapper

import (
	"encoding/json"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/model"

	"gorm.io/datatypes"
)

type AdjustmentMapper struct{}

func NewAdjustmentMapper() *AdjustmentMapper {
	return &AdjustmentMapper{}
}

func (m *AdjustmentMapper) ToEntity(a *model.CookAdjustment) *entity.Adjustment {
	if a == nil {
		return nil
	}

	var bullets, warnings []string
	_ = json.Unmarshal(a.Bullets, &bullets)
	_ = json.Unmarshal(a.Warnings, &warnings)

	var before *entity.RecipeStep
	if len(a.BeforeStep) > 0 && string(a.BeforeStep) != "null" {
		var step entity.RecipeStep
		if json.Unmarshal(a.BeforeStep, &step) == nil {
			before = &step
		}
	}

	var after entity.RecipeStep
	_ = json.Unmarshal(a.AfterStep, &after)

	return &entity.Adjustment{
		Id:         a.Id,
		SessionId:  a.SessionId,
		StepIndex:  a.StepIndex,
		Kind:       entity.AdjustmentKind(a.Kind),
		Title:      a.Title,
		Bullets:    bullets,
		Warnings:   warnings,
		Confidence: a.Confidence,
		Source:     entity.AdjustmentSource(a.Source),
		BeforeStep: before,
		AfterStep:  after,
		AppliedAt:  a.AppliedAt,
		UndoneAt:   a.UndoneAt,
	}
}

func (m *AdjustmentMapper) ToModel(a *entity.Adjustment) *model.CookAdjustment {
	if a == nil {
		return nil
	}

	bullets, _ := json.Marshal(a.Bullets)
	warnings, _ := json.Marshal(a.Warnings)
	after, _ := json.Marshal(a.AfterStep)

	var before datatypes.JSON
	if a.BeforeStep != nil {
		b, _ := json.Marshal(a.BeforeStep)
		before = b
	}

	return &model.CookAdjustment{
		Id:         a.Id,
		SessionId:  a.SessionId,
		StepIndex:  a.StepIndex,
		Kind:       string(a.Kind),
		Title:      a.Title,
		Bullets:    datatypes.JSON(bullets),
		Warnings:   datatypes.JSON(warnings),
		Confidence: a.Confidence,
		Source:     string(a.Source),
		BeforeStep: before,
		AfterStep:  datatypes.JSON(after),
		AppliedAt:  a.AppliedAt,
		UndoneAt:   a.UndoneAt,
	}
}

func (m *AdjustmentMapper) ToEntities(adjustments []*model.CookAdjustment) []*entity.Adjustment {
	entities := make([]*entity.Adjustment, len(adjustments))
	for i, a := range adjustments {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
