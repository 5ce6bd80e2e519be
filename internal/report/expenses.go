package report

import (
	"fmt"
	"sort"
	"strings"

	"walletbook/internal/core"
)

// ExpenseView is an expense with its category resolved for display.
type ExpenseView struct {
	core.Expense
	CategoryName  string `json:"categoryName"`
	CategoryIcon  string `json:"categoryIcon"`
	CategoryColor string `json:"categoryColor"`
}

func view(src Source, e core.Expense) ExpenseView {
	c := src.ResolveCategory(e.Category)
	return ExpenseView{
		Expense:       e,
		CategoryName:  c.Name,
		CategoryIcon:  c.Icon,
		CategoryColor: c.Color,
	}
}

// RecentExpenses returns the n most recent expenses, newest first.
func RecentExpenses(src Source, n int) []ExpenseView {
	expenses := src.Expenses()
	sortExpenses(expenses, SortNewest)
	if n >= 0 && len(expenses) > n {
		expenses = expenses[:n]
	}

	out := make([]ExpenseView, len(expenses))
	for i, e := range expenses {
		out[i] = view(src, e)
	}
	return out
}

type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortHighest SortOrder = "highest"
	SortLowest  SortOrder = "lowest"
)

// ParseSortOrder accepts the four orders; an empty string means newest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortHighest, SortLowest:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// AllCategories is the category filter value that matches everything.
const AllCategories = "all"

type Filter struct {
	Search   string
	Category string
	Sort     SortOrder
}

// ListExpenses applies a case-insensitive description search and a
// category filter, then sorts.
func ListExpenses(src Source, f Filter) []ExpenseView {
	search := strings.ToLower(f.Search)
	out := []ExpenseView{}
	expenses := src.Expenses()
	sortExpenses(expenses, f.Sort)
	for _, e := range expenses {
		if search != "" && !strings.Contains(strings.ToLower(e.Description), search) {
			continue
		}
		if f.Category != "" && f.Category != AllCategories && e.Category != f.Category {
			continue
		}
		out = append(out, view(src, e))
	}
	return out
}

func sortExpenses(expenses []core.Expense, order SortOrder) {
	var less func(a, b core.Expense) bool
	switch order {
	case SortOldest:
		less = func(a, b core.Expense) bool { return a.Date.Before(b.Date) }
	case SortHighest:
		less = func(a, b core.Expense) bool { return a.Amount.Cents > b.Amount.Cents }
	case SortLowest:
		less = func(a, b core.Expense) bool { return a.Amount.Cents < b.Amount.Cents }
	default:
		less = func(a, b core.Expense) bool { return a.Date.After(b.Date) }
	}
	sort.SliceStable(expenses, func(i, j int) bool { return less(expenses[i], expenses[j]) })
}
