package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly RepetitionTypes = "monthly"
	Yearly  RepetitionTypes = "yearly"
	Weekly  RepetitionTypes = "weekly"
	Daily   RepetitionTypes = "daily"
)

type (
	RepetitionTypes string

	// Expense is a single spending event. Category holds a Category ID and
	// may dangle; readers resolve unknown IDs to Uncategorized.
	Expense struct {
		ID                string          `json:"id"`
		Amount            Money           `json:"amount"`
		Category          string          `json:"category"`
		Description       string          `json:"description"`
		Date              time.Time       `json:"date"`
		IsRecurring       bool            `json:"isRecurring"`
		RecurringInterval RepetitionTypes `json:"recurringInterval,omitempty"`
	}

	// Category is a spending bucket with its monthly allocation.
	Category struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Icon   string `json:"icon"`
		Color  string `json:"color"`
		Budget Money  `json:"budget"`
		Order  int    `json:"order"`
	}

	// AlertThresholds are ascending percentages used for display warnings.
	AlertThresholds struct {
		Medium   int `json:"medium"`
		High     int `json:"high"`
		Critical int `json:"critical"`
	}

	// Budget holds the monthly budget settings. CategoryAllocations mirrors
	// each Category.Budget and TotalBudget is their sum.
	Budget struct {
		ID                  string           `json:"id"`
		Month               string           `json:"month"`
		TotalBudget         Money            `json:"totalBudget"`
		CategoryAllocations map[string]Money `json:"categoryAllocations"`
		AlertThresholds     AlertThresholds  `json:"alertThresholds"`
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyName         = errors.New("empty category name")
	ErrZeroDate          = errors.New("date cannot be zero")
	ErrInvalidInterval   = errors.New("invalid recurring interval")
	ErrInvalidThresholds = errors.New("alert thresholds must satisfy 1 <= medium < high < critical <= 100")
)

// IsValid reports whether r is one of the known intervals.
func (r RepetitionTypes) IsValid() bool {
	switch r {
	case Daily, Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// Validate checks an expense as submitted by a form. The ledger itself
// never validates; this is for the layers that accept user input.
func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.IsRecurring && !e.RecurringInterval.IsValid() {
		return ErrInvalidInterval
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("category name too long (max 100 characters)")
	}
	if c.Budget.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (t AlertThresholds) Validate() error {
	if t.Medium < 1 || t.Critical > 100 {
		return ErrInvalidThresholds
	}
	if !(t.Medium < t.High && t.High < t.Critical) {
		return ErrInvalidThresholds
	}
	return nil
}

// Clone returns a deep copy of b so callers never share the allocation map.
func (b Budget) Clone() Budget {
	out := b
	if b.CategoryAllocations != nil {
		out.CategoryAllocations = make(map[string]Money, len(b.CategoryAllocations))
		for k, v := range b.CategoryAllocations {
			out.CategoryAllocations[k] = v
		}
	}
	return out
}
