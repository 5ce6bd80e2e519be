package report

import (
	"fmt"
	"sort"
	"time"

	"walletbook/internal/core"
)

type Range string

const (
	Range7Days  Range = "7days"
	Range30Days Range = "30days"
	Range90Days Range = "90days"
	RangeYear   Range = "year"
)

const dayLayout = "2006-01-02"

// ParseRange accepts the four analytics windows; an empty string means 30days.
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case "":
		return Range30Days, nil
	case Range7Days, Range30Days, Range90Days, RangeYear:
		return r, nil
	default:
		return "", fmt.Errorf("unknown range %q", s)
	}
}

// Days is the number of daily buckets in the window.
func (r Range) Days() int {
	switch r {
	case Range7Days:
		return 7
	case Range90Days:
		return 90
	case RangeYear:
		return 365
	default:
		return 30
	}
}

// Cutoff is the earliest instant included in the window ending at now.
func (r Range) Cutoff(now time.Time) time.Time {
	now = now.UTC()
	if r == RangeYear {
		return now.AddDate(-1, 0, 0)
	}
	return now.AddDate(0, 0, -r.Days())
}

type DailyAmount struct {
	Day    string     `json:"day"`
	Amount core.Money `json:"amount"`
}

type AnalyticsReport struct {
	Range      Range                 `json:"range"`
	From       time.Time             `json:"from"`
	To         time.Time             `json:"to"`
	Total      core.Money            `json:"total"`
	Count      int                   `json:"count"`
	ByCategory []core.CategoryAmount `json:"byCategory"`
	Daily      []DailyAmount         `json:"daily"`
}

// Analytics totals the expenses dated on or after the window's cutoff.
// ByCategory covers live categories only, in display order, omitting those
// with nothing spent. Daily has one bucket per day ending today (UTC),
// oldest first, with empty days set to zero.
func Analytics(src Source, r Range, now time.Time) AnalyticsReport {
	now = now.UTC()
	cutoff := r.Cutoff(now)

	days := r.Days()
	daily := make([]DailyAmount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := now.AddDate(0, 0, i-days+1).Format(dayLayout)
		daily[i] = DailyAmount{Day: key}
		index[key] = i
	}

	byCategory := make(map[string]core.Money)
	rep := AnalyticsReport{Range: r, From: cutoff, To: now}
	for _, e := range src.Expenses() {
		if e.Date.Before(cutoff) {
			continue
		}
		rep.Total = rep.Total.Add(e.Amount)
		rep.Count++
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
		if i, ok := index[e.Date.UTC().Format(dayLayout)]; ok {
			daily[i].Amount = daily[i].Amount.Add(e.Amount)
		}
	}

	rep.ByCategory = []core.CategoryAmount{}
	for _, c := range src.Categories() {
		amount := byCategory[c.ID]
		if amount.Cents <= 0 {
			continue
		}
		rep.ByCategory = append(rep.ByCategory, core.CategoryAmount{
			CategoryID: c.ID,
			Name:       c.Name,
			Color:      c.Color,
			Amount:     amount,
		})
	}
	rep.Daily = daily
	return rep
}

type Upcoming struct {
	ExpenseView
	NextDate time.Time `json:"nextDate"`
}

// UpcomingRecurring lists recurring expenses with the next date each would
// fall on after now, soonest first. Nothing is created from it.
func UpcomingRecurring(src Source, now time.Time) []Upcoming {
	out := []Upcoming{}
	for _, e := range src.Expenses() {
		if !e.IsRecurring {
			continue
		}
		next := e.RecurringInterval.NextOccurrence(e.Date, now)
		if next.IsZero() {
			continue
		}
		out = append(out, Upcoming{ExpenseView: view(src, e), NextDate: next.UTC()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextDate.Before(out[j].NextDate) })
	return out
}
