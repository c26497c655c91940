package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/pkg/logger"
	"cooksession-be/internal/repository/contract"
	"cooksession-be/internal/repository/specification"
	"cooksession-be/internal/repository/unitofwork"
	"cooksession-be/pkg/cooking/adjust"
	"cooksession-be/pkg/cooking/autostep"
	"cooksession-be/pkg/cooking/pantry"

	"github.com/google/uuid"
)

// In-memory backing store shared by all fake repositories, so service flows
// run end to end without a database. Specifications are interpreted by type
// switch; only the ones the services actually use are supported.
type fakeStore struct {
	mu          sync.Mutex
	recipes     map[uuid.UUID]*entity.Recipe
	sessions    map[uuid.UUID]*entity.Session
	events      []*entity.Event
	adjustments []*entity.Adjustment
	items       map[uuid.UUID]*entity.PantryItem
	ledger      []*entity.PantryTransaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		recipes:  make(map[uuid.UUID]*entity.Recipe),
		sessions: make(map[uuid.UUID]*entity.Session),
		items:    make(map[uuid.UUID]*entity.PantryItem),
	}
}

func (st *fakeStore) seedRecipe(householdId uuid.UUID, title string) *entity.Recipe {
	st.mu.Lock()
	defer st.mu.Unlock()

	twenty := 20
	r := &entity.Recipe{
		Id:          uuid.New(),
		HouseholdId: householdId,
		Title:       title,
		Servings:    4,
		Steps: []entity.RecipeStep{
			{Title: "Prep", Bullets: []string{"Dice onion", "Mince garlic"}},
			{Title: "Simmer", Bullets: []string{"Sweat aromatics", "Add tomatoes"}, MinutesEst: &twenty},
			{Title: "Boil pasta", Bullets: []string{"Salt water", "Cook until al dente"}},
			{Title: "Serve", Bullets: []string{"Combine", "Plate"}},
		},
		Ingredients: []entity.Ingredient{
			{Name: "Spaghetti", Qty: 400, Unit: "g"},
			{Name: "Canned Tomatoes", Qty: 2, Unit: "can"},
		},
		CreatedAt: time.Now(),
	}
	st.recipes[r.Id] = r
	return r
}

func (st *fakeStore) seedPantryItem(householdId uuid.UUID, name string, qty float64) *entity.PantryItem {
	st.mu.Lock()
	defer st.mu.Unlock()

	item := &entity.PantryItem{
		Id:             uuid.New(),
		HouseholdId:    householdId,
		Name:           name,
		NormalizedName: pantry.NormalizeName(name),
		Qty:            qty,
		Unit:           "g",
		CreatedAt:      time.Now(),
	}
	st.items[item.Id] = item
	return item
}

func (st *fakeStore) sessionCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *fakeStore) eventCount(sessionId uuid.UUID, t entity.EventType) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, ev := range st.events {
		if ev.SessionId == sessionId && ev.Type == t {
			n++
		}
	}
	return n
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

// fakeUow hands out repositories over the shared store. Begin/Commit/Rollback
// are accepted and ignored; every write is immediately visible.
type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) SessionRepository() contract.SessionRepository {
	return &fakeSessionRepo{store: u.store}
}
func (u *fakeUow) EventRepository() contract.EventRepository {
	return &fakeEventRepo{store: u.store}
}
func (u *fakeUow) AdjustmentRepository() contract.AdjustmentRepository {
	return &fakeAdjustmentRepo{store: u.store}
}
func (u *fakeUow) RecipeRepository() contract.RecipeRepository {
	return &fakeRecipeRepo{store: u.store}
}
func (u *fakeUow) PantryItemRepository() contract.PantryItemRepository {
	return &fakePantryItemRepo{store: u.store}
}
func (u *fakeUow) PantryTransactionRepository() contract.PantryTransactionRepository {
	return &fakePantryTxRepo{store: u.store}
}

// --- sessions ---

type fakeSessionRepo struct {
	store *fakeStore
}

func sessionMatches(s *entity.Session, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.ByHouseholdID:
			if s.HouseholdId != v.HouseholdID {
				return false
			}
		case specification.ByStatus:
			if string(s.Status) != v.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeSessionRepo) Create(ctx context.Context, sess *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[sess.Id] = sess
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, sess *entity.Session) error {
	return r.Create(ctx, sess)
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.sessions {
		if sessionMatches(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Session
	for _, s := range r.store.sessions {
		if sessionMatches(s, specs) {
			out = append(out, s)
		}
	}
	return out, nil
}

// --- recipes ---

type fakeRecipeRepo struct {
	store *fakeStore
}

func (r *fakeRecipeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recipe, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, rec := range r.store.recipes {
		ok := true
		for _, sp := range specs {
			switch v := sp.(type) {
			case specification.ByID:
				if rec.Id != v.ID {
					ok = false
				}
			case specification.ByHouseholdID:
				if rec.HouseholdId != v.HouseholdID {
					ok = false
				}
			}
		}
		if ok {
			return rec, nil
		}
	}
	return nil, nil
}

// --- events ---

type fakeEventRepo struct {
	store *fakeStore
}

func (r *fakeEventRepo) Create(ctx context.Context, ev *entity.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events = append(r.store.events, ev)
	return nil
}

func (r *fakeEventRepo) CreateBulk(ctx context.Context, evs []*entity.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events = append(r.store.events, evs...)
	return nil
}

func (r *fakeEventRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	desc := false
	limit := 0
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.OrderBy:
			desc = v.Desc
		case specification.Pagination:
			limit = v.Limit
		}
	}

	var out []*entity.Event
	for _, ev := range r.store.events {
		keep := true
		for _, sp := range specs {
			switch v := sp.(type) {
			case specification.BySessionID:
				if ev.SessionId != v.SessionID {
					keep = false
				}
			case specification.CreatedAfter:
				if ev.CreatedAt.Before(v.After) {
					keep = false
				}
			}
		}
		if keep {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeEventRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	out, _ := r.FindAll(ctx, specs...)
	return int64(len(out)), nil
}

// --- adjustments ---

type fakeAdjustmentRepo struct {
	store *fakeStore
}

func adjustmentMatches(a *entity.Adjustment, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch v := sp.(type) {
		case specification.ByID:
			if a.Id != v.ID {
				return false
			}
		case specification.BySessionID:
			if a.SessionId != v.SessionID {
				return false
			}
		case specification.NotUndone:
			if a.IsUndone() {
				return false
			}
		}
	}
	return true
}

func (r *fakeAdjustmentRepo) Create(ctx context.Context, adj *entity.Adjustment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.adjustments = append(r.store.adjustments, adj)
	return nil
}

func (r *fakeAdjustmentRepo) Update(ctx context.Context, adj *entity.Adjustment) error {
	return nil // entries are pointers into the store; the caller already mutated them
}

func (r *fakeAdjustmentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Adjustment, error) {
	out, err := r.FindAll(ctx, specs...)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (r *fakeAdjustmentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Adjustment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	desc := false
	for _, sp := range specs {
		if v, ok := sp.(specification.OrderBy); ok {
			desc = v.Desc
		}
	}
	var out []*entity.Adjustment
	for _, a := range r.store.adjustments {
		if adjustmentMatches(a, specs) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].AppliedAt.After(out[j].AppliedAt)
		}
		return out[i].AppliedAt.Before(out[j].AppliedAt)
	})
	return out, nil
}

func (r *fakeAdjustmentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	out, _ := r.FindAll(ctx, specs...)
	return int64(len(out)), nil
}

// --- pantry ---

type fakePantryItemRepo struct {
	store *fakeStore
}

func (r *fakePantryItemRepo) Create(ctx context.Context, item *entity.PantryItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.items[item.Id] = item
	return nil
}

func (r *fakePantryItemRepo) Update(ctx context.Context, item *entity.PantryItem) error {
	return r.Create(ctx, item)
}

func (r *fakePantryItemRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PantryItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, item := range r.store.items {
		ok := true
		for _, sp := range specs {
			switch v := sp.(type) {
			case specification.ByID:
				if item.Id != v.ID {
					ok = false
				}
			case specification.ByHouseholdID:
				if item.HouseholdId != v.HouseholdID {
					ok = false
				}
			case specification.ByNormalizedName:
				if item.NormalizedName != v.Name {
					ok = false
				}
			}
		}
		if ok {
			return item, nil
		}
	}
	return nil, nil
}

func (r *fakePantryItemRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PantryItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.PantryItem
	for _, item := range r.store.items {
		ok := true
		for _, sp := range specs {
			if v, isHousehold := sp.(specification.ByHouseholdID); isHousehold && item.HouseholdId != v.HouseholdID {
				ok = false
			}
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakePantryTxRepo struct {
	store *fakeStore
}

func (r *fakePantryTxRepo) Create(ctx context.Context, tx *entity.PantryTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.ledger = append(r.store.ledger, tx)
	return nil
}

func (r *fakePantryTxRepo) Update(ctx context.Context, tx *entity.PantryTransaction) error {
	return nil
}

func (r *fakePantryTxRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PantryTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.PantryTransaction
	for _, tx := range r.store.ledger {
		ok := true
		for _, sp := range specs {
			switch v := sp.(type) {
			case specification.BySessionID:
				if tx.SessionId == nil || *tx.SessionId != v.SessionID {
					ok = false
				}
			case specification.NotUndone:
				if tx.IsUndone() {
					ok = false
				}
			case specification.FilterBy:
				if v.Field == "reason" && tx.Reason != v.Value {
					ok = false
				}
			}
		}
		if ok {
			out = append(out, tx)
		}
	}
	return out, nil
}

// --- logger ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

// --- harness ---

// newHarness wires the three services over one store and one locker, the way
// the container does, with notifications and generation disabled.
func newHarness() (*fakeStore, *sessionService, *adjustmentService, *pantryService) {
	store := newFakeStore()
	factory := &fakeFactory{store: store}
	locker := NewSessionLocker()
	log := nopLogger{}

	ss := NewSessionService(factory, autostep.NewEngine(autostep.DefaultConfig()), nil, nil, locker, log).(*sessionService)
	as := NewAdjustmentService(factory, adjust.NewEngine(nil, time.Second, log), nil, locker, log).(*adjustmentService)
	ps := NewPantryService(factory, locker, log).(*pantryService)
	return store, ss, as, ps
}
