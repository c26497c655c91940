package mapper

import (
	"testing"
	"time"

	"cooksession-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEventMetaDecodesToConcreteType(t *testing.T) {
	m := NewEventMapper()

	idx := 2
	ev := &entity.Event{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		Type:      entity.EventStepNavigate,
		StepIndex: &idx,
		Meta:      entity.NavigateMeta{FromStep: 1, ToStep: 2, Source: "auto_jump"},
		CreatedAt: time.Now(),
	}

	back := m.ToEntity(m.ToModel(ev))

	meta, ok := back.Meta.(entity.NavigateMeta)
	assert.True(t, ok, "navigate events decode to NavigateMeta")
	assert.Equal(t, 1, meta.FromStep)
	assert.Equal(t, "auto_jump", meta.Source)
}

func TestEventWithoutMetaStaysNil(t *testing.T) {
	m := NewEventMapper()

	ev := &entity.Event{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		Type:      entity.EventTimerDone,
		CreatedAt: time.Now(),
	}

	back := m.ToEntity(m.ToModel(ev))
	assert.Nil(t, back.Meta)
}

func TestTimerEventsShareTimerMeta(t *testing.T) {
	m := NewEventMapper()
	tid := uuid.New()

	for _, typ := range []entity.EventType{
		entity.EventTimerCreate, entity.EventTimerStart, entity.EventTimerPause,
		entity.EventTimerDone, entity.EventTimerDelete,
	} {
		ev := &entity.Event{
			Id:        uuid.New(),
			SessionId: uuid.New(),
			Type:      typ,
			TimerId:   &tid,
			Meta:      entity.TimerMeta{Action: "start", RemainingSec: 42},
			CreatedAt: time.Now(),
		}
		back := m.ToEntity(m.ToModel(ev))
		meta, ok := back.Meta.(entity.TimerMeta)
		assert.True(t, ok, "type %s decodes to TimerMeta", typ)
		assert.Equal(t, 42, meta.RemainingSec)
	}
}
