package ledger

import (
	"time"

	"walletbook/internal/core"
)

// Read methods return copies; callers cannot reach the store's collections.

func (s *Store) Expenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.expenses...)
}

func (s *Store) Categories() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category{}, s.categories...)
}

func (s *Store) Budget() core.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget.Clone()
}

// Snapshot returns a consistent copy of all three collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Expenses:   append([]core.Expense{}, s.expenses...),
		Categories: append([]core.Category{}, s.categories...),
		Budget:     s.budget.Clone(),
	}
}

// CurrentMonth is the year-month key of the store's clock.
func (s *Store) CurrentMonth() string {
	return core.MonthKey(s.now())
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// TotalSpent sums the expenses dated in the current month.
func (s *Store) TotalSpent() core.Money {
	month := s.CurrentMonth()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spentLocked(month, func(core.Expense) bool { return true })
}

// CategorySpent sums the current month's expenses filed under categoryID.
func (s *Store) CategorySpent(categoryID string) core.Money {
	month := s.CurrentMonth()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spentLocked(month, func(e core.Expense) bool { return e.Category == categoryID })
}

// WalletBalance is the total budget minus the current month's spend. It goes
// negative when over budget.
func (s *Store) WalletBalance() core.Money {
	month := s.CurrentMonth()
	s.mu.Lock()
	defer s.mu.Unlock()
	spent := s.spentLocked(month, func(core.Expense) bool { return true })
	return s.budget.TotalBudget.Sub(spent)
}

func (s *Store) spentLocked(month string, match func(core.Expense) bool) core.Money {
	var total core.Money
	for _, e := range s.expenses {
		if match(e) && core.InMonth(e.Date, month) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func (s *Store) CategoryByID(id string) (core.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.categoryIndex(id); i >= 0 {
		return s.categories[i], true
	}
	return core.Category{}, false
}

func (s *Store) ExpenseByID(id string) (core.Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.expenseIndex(id); i >= 0 {
		return s.expenses[i], true
	}
	return core.Expense{}, false
}

// ResolveCategory returns the category with id, or core.Uncategorized for a
// dangling or empty reference.
func (s *Store) ResolveCategory(id string) core.Category {
	if c, ok := s.CategoryByID(id); ok {
		return c
	}
	return core.Uncategorized
}
