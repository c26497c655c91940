package mapper

import (
	"time"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/model"
)

type PantryMapper struct{}

func NewPantryMapper() *PantryMapper {
	return &PantryMapper{}
}

func (m *PantryMapper) ItemToEntity(i *model.PantryItem) *entity.PantryItem {
	if i == nil {
		return nil
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	return &entity.PantryItem{
		Id:             i.Id,
		HouseholdId:    i.HouseholdId,
		Name:           i.Name,
		NormalizedName: i.NormalizedName,
		Qty:            i.Qty,
		Unit:           i.Unit,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *PantryMapper) ItemToModel(i *entity.PantryItem) *model.PantryItem {
	if i == nil {
		return nil
	}

	var updatedAt time.Time
	if i.UpdatedAt != nil {
		updatedAt = *i.UpdatedAt
	}

	return &model.PantryItem{
		Id:             i.Id,
		HouseholdId:    i.HouseholdId,
		Name:           i.Name,
		NormalizedName: i.NormalizedName,
		Qty:            i.Qty,
		Unit:           i.Unit,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *PantryMapper) ItemsToEntities(items []*model.PantryItem) []*entity.PantryItem {
	entities := make([]*entity.PantryItem, len(items))
	for i, item := range items {
		entities[i] = m.ItemToEntity(item)
	}
	return entities
}

func (m *PantryMapper) TxToEntity(t *model.PantryTransaction) *entity.PantryTransaction {
	if t == nil {
		return nil
	}
	return &entity.PantryTransaction{
		Id:           t.Id,
		HouseholdId:  t.HouseholdId,
		PantryItemId: t.PantryItemId,
		SessionId:    t.SessionId,
		Delta:        t.Delta,
		Reason:       t.Reason,
		UndoneAt:     t.UndoneAt,
		CreatedAt:    t.CreatedAt,
	}
}

func (m *PantryMapper) TxToModel(t *entity.PantryTransaction) *model.PantryTransaction {
	if t == nil {
		return nil
	}
	return &model.PantryTransaction{
		Id:           t.Id,
		HouseholdId:  t.HouseholdId,
		PantryItemId: t.PantryItemId,
		SessionId:    t.SessionId,
		Delta:        t.Delta,
		Reason:       t.Reason,
		UndoneAt:     t.UndoneAt,
		CreatedAt:    t.CreatedAt,
	}
}

func (m *PantryMapper) TxsToEntities(txs []*model.PantryTransaction) []*entity.PantryTransaction {
	entities := make([]*entity.PantryTransaction, len(txs))
	for i, t := range txs {
		entities[i] = m.TxToEntity(t)
	}
	return entities
}
