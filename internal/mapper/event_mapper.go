package mapper

import (
	"encoding/json"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/model"

	"gorm.io/datatypes"
)

type EventMapper struct{}

func NewEventMapper() *EventMapper {
	return &EventMapper{}
}

func (m *EventMapper) ToEntity(e *model.CookEvent) *entity.Event {
	if e == nil {
		return nil
	}
	return &entity.Event{
		Id:          e.Id,
		SessionId:   e.SessionId,
		Type:        entity.EventType(e.Type),
		StepIndex:   e.StepIndex,
		BulletIndex: e.BulletIndex,
		TimerId:     e.TimerId,
		Meta:        decodeMeta(entity.EventType(e.Type), e.Meta),
		CreatedAt:   e.CreatedAt,
	}
}

func (m *EventMapper) ToModel(e *entity.Event) *model.CookEvent {
	if e == nil {
		return nil
	}

	var meta datatypes.JSON
	if e.Meta != nil {
		b, _ := json.Marshal(e.Meta)
		meta = b
	}

	return &model.CookEvent{
		Id:          e.Id,
		SessionId:   e.SessionId,
		Type:        string(e.Type),
		StepIndex:   e.StepIndex,
		BulletIndex: e.BulletIndex,
		TimerId:     e.TimerId,
		Meta:        meta,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *EventMapper) ToEntities(events []*model.CookEvent) []*entity.Event {
	entities := make([]*entity.Event, len(events))
	for i, e := range events {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

// decodeMeta picks the concrete payload struct for the event type. Unknown or
// empty payloads decode to nil; inference only depends on type and step index.
func decodeMeta(t entity.EventType, raw datatypes.JSON) entity.EventMeta {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	switch t {
	case entity.EventStepNavigate:
		var meta entity.NavigateMeta
		if json.Unmarshal(raw, &meta) == nil {
			return meta
		}
	case entity.EventCheckStep, entity.EventUncheckStep:
		var meta entity.CheckMeta
		if json.Unmarshal(raw, &meta) == nil {
			return meta
		}
	case entity.EventTimerCreate, entity.EventTimerStart, entity.EventTimerPause,
		entity.EventTimerDone, entity.EventTimerDelete:
		var meta entity.TimerMeta
		if json.Unmarshal(raw, &meta) == nil {
			return meta
		}
	case entity.EventServingsChange:
		var meta entity.ServingsMeta
		if json.Unmarshal(raw, &meta) == nil {
			return meta
		}
	case entity.EventAdjustApply, entity.EventAdjustUndo:
		var meta entity.AdjustMeta
		if json.Unmarshal(raw, &meta) == nil {
			return meta
		}
	case entity.EventSessionStart, entity.EventSessionCompleted, entity.EventSessionAbandoned:
		var meta entity.LifecycleMeta
		if json.Unmarshal(raw, &meta) == nil {
			return meta
		}
	}
	return nil
}
