// Package ledger owns the expense, category and budget collections, keeps
// the budget allocations consistent with the categories, and mirrors every
// change to a kv.Store.
//
// A Store is an explicit value handed to its consumers; there is no
// package-level instance. All methods are safe for concurrent use and each
// one runs to completion before the next is observed.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"walletbook/internal/core"
	"walletbook/internal/kv"
	"walletbook/internal/log"
)

// Persisted keys. Each holds one JSON document and is written independently.
const (
	KeyExpenses   = "expenses"
	KeyCategories = "categories"
	KeyBudget     = "budget"
)

// Snapshot is a copy of the full ledger state.
type Snapshot struct {
	Expenses   []core.Expense  `json:"expenses"`
	Categories []core.Category `json:"categories"`
	Budget     core.Budget     `json:"budget"`
}

// Entity and operation names carried by Change.
const (
	EntityExpense  = "expense"
	EntityCategory = "category"
	EntityBudget   = "budget"

	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReorder = "reorder"
)

// Change describes one mutation after it has been persisted. Seq increases
// by one per persisted mutation in the order the mutations were applied.
type Change struct {
	Seq    uint64    `json:"seq"`
	Op     string    `json:"op"`
	Entity string    `json:"entity"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"timestamp"`
}

// Notifier is told about every mutation. Errors are logged and dropped.
// Notify runs outside the store's lock, so concurrent mutations may be
// delivered out of order; Seq restores the order they were applied in.
type Notifier interface {
	Notify(ctx context.Context, c Change) error
}

type Option func(*Store)

// WithLogger sets the logger; the default comes from the Open context.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock replaces time.Now. The clock decides the current month.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithSeed replaces the built-in default dataset.
func WithSeed(snap Snapshot) Option {
	return func(s *Store) { s.seed = &snap }
}

type Store struct {
	mu       sync.Mutex
	kv       kv.Store
	logger   *log.Logger
	newID    func() string
	now      func() time.Time
	notifier Notifier
	seed     *Snapshot
	seq      uint64

	expenses   []core.Expense
	categories []core.Category
	budget     core.Budget
}

// Open loads the three collections from store, falling back to seed data
// for any key that is missing or does not parse, and writes the resulting
// state back.
func Open(ctx context.Context, store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     store,
		logger: log.FromContext(ctx),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)

	s.mu.Lock()
	defer s.mu.Unlock()

	var seed *Snapshot
	seeded := func() *Snapshot {
		if seed == nil {
			if s.seed != nil {
				seed = s.seed
			} else {
				snap := Seed(s.newID, s.now())
				seed = &snap
			}
		}
		return seed
	}

	var expenses []core.Expense
	if s.load(ctx, KeyExpenses, &expenses) {
		s.expenses = expenses
	} else {
		s.expenses = append([]core.Expense(nil), seeded().Expenses...)
	}

	var categories []core.Category
	if s.load(ctx, KeyCategories, &categories) {
		s.categories = categories
	} else {
		s.categories = append([]core.Category(nil), seeded().Categories...)
	}

	var budget core.Budget
	if s.load(ctx, KeyBudget, &budget) {
		s.budget = budget
	} else {
		s.budget = seeded().Budget.Clone()
	}

	s.persistLocked(ctx)

	s.logger.InfoContext(ctx, "Ledger loaded",
		"expenses", len(s.expenses),
		"categories", len(s.categories),
		"seeded", seed != nil)

	return s
}

// load reports whether key was present and parsed into dst.
func (s *Store) load(ctx context.Context, key string, dst any) bool {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		s.logger.InfoContext(ctx, "No persisted data, using seed", log.FieldKey, key)
		return false
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read persisted data, using seed",
			log.FieldKey, key, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.WarnContext(ctx, "Persisted data does not parse, using seed",
			log.FieldKey, key, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return false
	}
	return true
}

// persistLocked writes every collection. A failure on one key is logged and
// does not stop the others.
func (s *Store) persistLocked(ctx context.Context) {
	docs := []struct {
		key string
		v   any
	}{
		{KeyExpenses, s.expenses},
		{KeyCategories, s.categories},
		{KeyBudget, s.budget},
	}
	for _, d := range docs {
		raw, err := json.Marshal(d.v)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to encode ledger state",
				log.FieldKey, d.key, log.FieldOperation, log.OpPersist, log.FieldError, err)
			continue
		}
		if err := s.kv.Set(ctx, d.key, raw); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist ledger state",
				log.FieldKey, d.key, log.FieldOperation, log.OpPersist, log.FieldError, err)
		}
	}
}

// mutate runs fn under the lock, persists if fn changed anything, then
// notifies outside the lock. Once fn has committed in memory the write and
// the notification go ahead even if the caller's ctx is cancelled.
func (s *Store) mutate(ctx context.Context, fn func() (Change, bool)) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	change, changed := fn()
	if changed {
		s.persistLocked(ctx)
		s.seq++
		change.Seq = s.seq
		change.At = s.now().UTC()
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	s.logger.DebugContext(ctx, "Ledger changed",
		log.FieldOperation, change.Op, log.FieldEntity, change.Entity, log.FieldID, change.ID)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, change); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish ledger change",
				log.FieldOperation, change.Op, log.FieldEntity, change.Entity, log.FieldError, err)
		}
	}
}

// AddExpense stores e under a new ID and returns it. Any ID on e is ignored.
func (s *Store) AddExpense(ctx context.Context, e core.Expense) core.Expense {
	s.mutate(ctx, func() (Change, bool) {
		e.ID = s.newID()
		e.Date = e.Date.UTC()
		s.expenses = append(s.expenses, e)
		return Change{Op: OpCreate, Entity: EntityExpense, ID: e.ID}, true
	})
	return e
}

// UpdateExpense merges p into the expense with id. It reports false, and
// changes nothing, when no expense has that id.
func (s *Store) UpdateExpense(ctx context.Context, id string, p core.ExpensePatch) (core.Expense, bool) {
	var (
		updated core.Expense
		found   bool
	)
	s.mutate(ctx, func() (Change, bool) {
		i := s.expenseIndex(id)
		if i < 0 {
			return Change{}, false
		}
		s.expenses[i] = p.Apply(s.expenses[i])
		updated, found = s.expenses[i], true
		return Change{Op: OpUpdate, Entity: EntityExpense, ID: id}, true
	})
	return updated, found
}

func (s *Store) DeleteExpense(ctx context.Context, id string) bool {
	var found bool
	s.mutate(ctx, func() (Change, bool) {
		i := s.expenseIndex(id)
		if i < 0 {
			return Change{}, false
		}
		s.expenses = append(s.expenses[:i:i], s.expenses[i+1:]...)
		found = true
		return Change{Op: OpDelete, Entity: EntityExpense, ID: id}, true
	})
	return found
}

// AddCategory stores c under a new ID, adds its allocation and raises the
// total budget by c.Budget.
func (s *Store) AddCategory(ctx context.Context, c core.Category) core.Category {
	s.mutate(ctx, func() (Change, bool) {
		c.ID = s.newID()
		s.categories = append(s.categories, c)
		s.setAllocationLocked(c.ID, c.Budget)
		return Change{Op: OpCreate, Entity: EntityCategory, ID: c.ID}, true
	})
	return c
}

// UpdateCategory merges p into the category with id. A budget in p also
// moves the allocation and the total by the difference from the prior
// allocation. Unknown ids change nothing.
func (s *Store) UpdateCategory(ctx context.Context, id string, p core.CategoryPatch) (core.Category, bool) {
	var (
		updated core.Category
		found   bool
	)
	s.mutate(ctx, func() (Change, bool) {
		i := s.categoryIndex(id)
		if i < 0 {
			return Change{}, false
		}
		s.categories[i] = p.Apply(s.categories[i])
		if p.Budget != nil {
			s.setAllocationLocked(id, *p.Budget)
		}
		updated, found = s.categories[i], true
		return Change{Op: OpUpdate, Entity: EntityCategory, ID: id}, true
	})
	return updated, found
}

// DeleteCategory removes the category, its allocation (lowering the total
// by it) and every expense filed under it. The allocation and expenses are
// removed even if the category itself is already gone.
func (s *Store) DeleteCategory(ctx context.Context, id string) bool {
	var found bool
	s.mutate(ctx, func() (Change, bool) {
		changed := false
		if i := s.categoryIndex(id); i >= 0 {
			s.categories = append(s.categories[:i:i], s.categories[i+1:]...)
			found, changed = true, true
		}

		if prior, ok := s.budget.CategoryAllocations[id]; ok {
			allocations := s.allocationsCopyLocked()
			delete(allocations, id)
			s.budget.CategoryAllocations = allocations
			s.budget.TotalBudget = s.budget.TotalBudget.Sub(prior)
			changed = true
		}

		kept := make([]core.Expense, 0, len(s.expenses))
		for _, e := range s.expenses {
			if e.Category != id {
				kept = append(kept, e)
			}
		}
		if len(kept) != len(s.expenses) {
			changed = true
		}
		s.expenses = kept

		return Change{Op: OpDelete, Entity: EntityCategory, ID: id}, changed
	})
	return found
}

// ReorderCategories replaces the category list with a copy of categories.
// Callers renumber Order before calling; nothing is checked here.
func (s *Store) ReorderCategories(ctx context.Context, categories []core.Category) {
	s.mutate(ctx, func() (Change, bool) {
		s.categories = append([]core.Category{}, categories...)
		return Change{Op: OpReorder, Entity: EntityCategory}, true
	})
}

// UpdateBudget shallow-merges p into the budget settings.
func (s *Store) UpdateBudget(ctx context.Context, p core.BudgetPatch) core.Budget {
	var updated core.Budget
	s.mutate(ctx, func() (Change, bool) {
		s.budget = p.Apply(s.budget)
		updated = s.budget.Clone()
		return Change{Op: OpUpdate, Entity: EntityBudget, ID: s.budget.ID}, true
	})
	return updated
}

// UpdateCategoryBudget sets both the allocation and the category's own
// budget to amount, moving the total by the difference exactly once.
func (s *Store) UpdateCategoryBudget(ctx context.Context, categoryID string, amount core.Money) bool {
	var found bool
	s.mutate(ctx, func() (Change, bool) {
		i := s.categoryIndex(categoryID)
		if i < 0 {
			return Change{}, false
		}
		s.setAllocationLocked(categoryID, amount)
		s.categories[i].Budget = amount
		found = true
		return Change{Op: OpUpdate, Entity: EntityBudget, ID: categoryID}, true
	})
	return found
}

// setAllocationLocked sets the allocation for id and moves the total by the
// difference from the prior allocation (zero if there was none).
func (s *Store) setAllocationLocked(id string, amount core.Money) {
	prior := s.budget.CategoryAllocations[id]
	allocations := s.allocationsCopyLocked()
	allocations[id] = amount
	s.budget.CategoryAllocations = allocations
	s.budget.TotalBudget = s.budget.TotalBudget.Sub(prior).Add(amount)
}

// allocationsCopyLocked never returns nil, even for a budget loaded without a map.
func (s *Store) allocationsCopyLocked() map[string]core.Money {
	out := make(map[string]core.Money, len(s.budget.CategoryAllocations)+1)
	for k, v := range s.budget.CategoryAllocations {
		out[k] = v
	}
	return out
}

func (s *Store) expenseIndex(id string) int {
	for i, e := range s.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) categoryIndex(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}
