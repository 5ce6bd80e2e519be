// Package report derives the read-only views shown by the dashboard, the
// budget page and the analytics page from a ledger.
package report

import (
	"sort"

	"walletbook/internal/core"
)

// Source is the read side of a ledger. *ledger.Store satisfies it.
type Source interface {
	Expenses() []core.Expense
	Categories() []core.Category
	Budget() core.Budget
	CurrentMonth() string
	TotalSpent() core.Money
	CategorySpent(categoryID string) core.Money
	WalletBalance() core.Money
	ResolveCategory(id string) core.Category
}

// DefaultOverviewLimit is how many categories the dashboard shows.
const DefaultOverviewLimit = 5

// CriticalPercent flags a category in the overview regardless of the
// configured thresholds.
const CriticalPercent = 90

type WalletSummary struct {
	Month        string     `json:"month"`
	Balance      core.Money `json:"balance"`
	Spent        core.Money `json:"spent"`
	Total        core.Money `json:"total"`
	PercentSpent int        `json:"percentSpent"`
	OnTrack      bool       `json:"onTrack"`
}

// Wallet derives the balance from the total and spent it reports, so the
// three always agree even if the ledger changes between reads.
func Wallet(src Source) WalletSummary {
	total := src.Budget().TotalBudget
	spent := src.TotalSpent()
	balance := total.Sub(spent)
	return WalletSummary{
		Month:        src.CurrentMonth(),
		Balance:      balance,
		Spent:        spent,
		Total:        total,
		PercentSpent: core.RoundedPercent(spent, total),
		OnTrack:      !balance.IsNegative(),
	}
}

type CategoryUsage struct {
	Category core.Category `json:"category"`
	Spent    core.Money    `json:"spent"`
	Percent  float64       `json:"percent"`
	Critical bool          `json:"critical"`
}

// BudgetOverview ranks categories by the share of their budget spent this
// month, highest first, and keeps the first limit. A limit of zero or less
// keeps all of them.
func BudgetOverview(src Source, limit int) []CategoryUsage {
	categories := src.Categories()
	usage := make([]CategoryUsage, 0, len(categories))
	for _, c := range categories {
		spent := src.CategorySpent(c.ID)
		pct := core.Percent(spent, c.Budget)
		usage = append(usage, CategoryUsage{
			Category: c,
			Spent:    spent,
			Percent:  pct,
			Critical: pct >= CriticalPercent,
		})
	}

	sort.SliceStable(usage, func(i, j int) bool {
		return usage[i].Percent > usage[j].Percent
	})

	if limit > 0 && len(usage) > limit {
		usage = usage[:limit]
	}
	return usage
}

type CategoryStatus struct {
	Category core.Category   `json:"category"`
	Budgeted core.Money      `json:"budgeted"`
	Spent    core.Money      `json:"spent"`
	Percent  int             `json:"percent"`
	Level    core.AlertLevel `json:"level"`
}

type Status struct {
	Month           string               `json:"month"`
	TotalBudget     core.Money           `json:"totalBudget"`
	TotalSpent      core.Money           `json:"totalSpent"`
	Percent         int                  `json:"percent"`
	AlertThresholds core.AlertThresholds `json:"alertThresholds"`
	Categories      []CategoryStatus     `json:"categories"`
}

// BudgetStatus reports every category in display order with its alert
// level under the budget's thresholds.
func BudgetStatus(src Source) Status {
	b := src.Budget()
	thresholds := b.AlertThresholds.OrDefault()
	spent := src.TotalSpent()

	categories := src.Categories()
	rows := make([]CategoryStatus, 0, len(categories))
	for _, c := range categories {
		catSpent := src.CategorySpent(c.ID)
		rows = append(rows, CategoryStatus{
			Category: c,
			Budgeted: c.Budget,
			Spent:    catSpent,
			Percent:  core.RoundedPercent(catSpent, c.Budget),
			Level:    thresholds.Level(core.Percent(catSpent, c.Budget)),
		})
	}

	return Status{
		Month:           src.CurrentMonth(),
		TotalBudget:     b.TotalBudget,
		TotalSpent:      spent,
		Percent:         core.RoundedPercent(spent, b.TotalBudget),
		AlertThresholds: thresholds,
		Categories:      rows,
	}
}
