package core

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// AlertLevel classifies how much of a budget has been used.
type AlertLevel string

const (
	AlertNormal   AlertLevel = "normal"
	AlertMedium   AlertLevel = "medium"
	AlertHigh     AlertLevel = "high"
	AlertCritical AlertLevel = "critical"
)

// MonthLayout is the year-month key format used for Budget.Month and month bucketing.
const MonthLayout = "2006-01"

// DefaultAlertThresholds are used when a budget has none set.
var DefaultAlertThresholds = AlertThresholds{Medium: 50, High: 75, Critical: 90}

// Uncategorized is what readers show for an expense whose category no longer exists.
var Uncategorized = Category{
	ID:    "",
	Name:  "Uncategorized",
	Icon:  "📋",
	Color: "#9CA3AF",
}

// MonthKey returns the UTC year-month of t, e.g. "2025-03".
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// InMonth reports whether t falls in the month identified by key.
func InMonth(t time.Time, key string) bool {
	return MonthKey(t) == key
}

// Percent returns spent as a percentage of budget. A zero or negative
// budget yields 0 rather than an infinite or undefined ratio.
func Percent(spent, budget Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	p := decimal.NewFromInt(spent.Cents).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(budget.Cents), 4)
	f, _ := p.Float64()
	return f
}

// RoundedPercent is Percent rounded to the nearest integer, as shown in the UI.
func RoundedPercent(spent, budget Money) int {
	return int(math.Round(Percent(spent, budget)))
}

// Level maps a percentage to an alert level using t.
func (t AlertThresholds) Level(percent float64) AlertLevel {
	switch {
	case percent >= float64(t.Critical):
		return AlertCritical
	case percent >= float64(t.High):
		return AlertHigh
	case percent >= float64(t.Medium):
		return AlertMedium
	default:
		return AlertNormal
	}
}

// OrDefault returns t, or DefaultAlertThresholds when t is unset.
func (t AlertThresholds) OrDefault() AlertThresholds {
	if t == (AlertThresholds{}) {
		return DefaultAlertThresholds
	}
	return t
}

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Amount     Money  `json:"amount"`
}
