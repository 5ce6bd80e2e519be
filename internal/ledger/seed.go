package ledger

import (
	"time"

	"walletbook/internal/core"
)

type seedCategory struct {
	name, icon, color string
	budget            int64
}

var seedCategories = []seedCategory{
	{"Cinema", "🍿", "#F472B6", 100},
	{"Food", "🍔", "#F97316", 300},
	{"Medical", "💊", "#60A5FA", 150},
	{"Transportation", "🚕", "#FBBF24", 200},
	{"Rent", "🏠", "#34D399", 1000},
	{"Utilities", "💡", "#A78BFA", 250},
	{"Groceries", "🛒", "#6EE7B7", 400},
	{"Maintenance", "🔧", "#94A3B8", 100},
	{"Internet", "🌐", "#38BDF8", 80},
	{"Subscriptions", "📺", "#FB7185", 50},
	{"Education", "🎓", "#818CF8", 200},
}

type seedExpense struct {
	category    int // index into seedCategories
	amount      core.Money
	description string
	daysAgo     int
	interval    core.RepetitionTypes
}

var seedExpenses = []seedExpense{
	{0, core.NewMoney(15, 99), "Movie tickets", 2, ""},
	{1, core.NewMoney(42, 75), "Dinner at restaurant", 1, ""},
	{2, core.NewMoney(25, 50), "Pharmacy", 0, ""},
	{4, core.NewMoney(1000, 0), "Monthly rent", 15, core.Monthly},
	{6, core.NewMoney(75, 20), "Weekly groceries", 3, core.Weekly},
}

// Seed builds the default dataset used when nothing has been persisted:
// eleven categories whose budgets sum to 2830, a budget mirroring them,
// and five expenses dated relative to now.
func Seed(newID func() string, now time.Time) Snapshot {
	now = now.UTC()

	categories := make([]core.Category, len(seedCategories))
	allocations := make(map[string]core.Money, len(seedCategories))
	var total core.Money
	for i, sc := range seedCategories {
		c := core.Category{
			ID:     newID(),
			Name:   sc.name,
			Icon:   sc.icon,
			Color:  sc.color,
			Budget: core.NewMoney(sc.budget, 0),
			Order:  i,
		}
		categories[i] = c
		allocations[c.ID] = c.Budget
		total = total.Add(c.Budget)
	}

	budget := core.Budget{
		ID:                  newID(),
		Month:               core.MonthKey(now),
		TotalBudget:         total,
		CategoryAllocations: allocations,
		AlertThresholds:     core.DefaultAlertThresholds,
	}

	expenses := make([]core.Expense, len(seedExpenses))
	for i, se := range seedExpenses {
		expenses[i] = core.Expense{
			ID:                newID(),
			Amount:            se.amount,
			Category:          categories[se.category].ID,
			Description:       se.description,
			Date:              now.AddDate(0, 0, -se.daysAgo),
			IsRecurring:       se.interval != "",
			RecurringInterval: se.interval,
		}
	}

	return Snapshot{Expenses: expenses, Categories: categories, Budget: budget}
}
