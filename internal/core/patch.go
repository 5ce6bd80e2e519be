package core

import (
	"strings"
	"time"
)

// Patch types carry partial updates. A nil field is left unchanged.
type (
	ExpensePatch struct {
		Amount            *Money           `json:"amount,omitempty"`
		Category          *string          `json:"category,omitempty"`
		Description       *string          `json:"description,omitempty"`
		Date              *time.Time       `json:"date,omitempty"`
		IsRecurring       *bool            `json:"isRecurring,omitempty"`
		RecurringInterval *RepetitionTypes `json:"recurringInterval,omitempty"`
	}

	CategoryPatch struct {
		Name   *string `json:"name,omitempty"`
		Icon   *string `json:"icon,omitempty"`
		Color  *string `json:"color,omitempty"`
		Budget *Money  `json:"budget,omitempty"`
		Order  *int    `json:"order,omitempty"`
	}

	// BudgetPatch is merged shallowly: a non-nil CategoryAllocations
	// replaces the whole map.
	BudgetPatch struct {
		ID                  *string          `json:"id,omitempty"`
		Month               *string          `json:"month,omitempty"`
		TotalBudget         *Money           `json:"totalBudget,omitempty"`
		CategoryAllocations map[string]Money `json:"categoryAllocations,omitempty"`
		AlertThresholds     *AlertThresholds `json:"alertThresholds,omitempty"`
	}
)

// Apply merges p into e. Turning the recurring flag off without naming an
// interval clears the interval.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = p.Date.UTC()
	}
	if p.IsRecurring != nil {
		e.IsRecurring = *p.IsRecurring
		if !e.IsRecurring && p.RecurringInterval == nil {
			e.RecurringInterval = ""
		}
	}
	if p.RecurringInterval != nil {
		e.RecurringInterval = *p.RecurringInterval
	}
	return e
}

func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Budget != nil {
		c.Budget = *p.Budget
	}
	if p.Order != nil {
		c.Order = *p.Order
	}
	return c
}

func (p BudgetPatch) Apply(b Budget) Budget {
	if p.ID != nil {
		b.ID = *p.ID
	}
	if p.Month != nil {
		b.Month = *p.Month
	}
	if p.TotalBudget != nil {
		b.TotalBudget = *p.TotalBudget
	}
	if p.CategoryAllocations != nil {
		b.CategoryAllocations = make(map[string]Money, len(p.CategoryAllocations))
		for k, v := range p.CategoryAllocations {
			b.CategoryAllocations[k] = v
		}
	}
	if p.AlertThresholds != nil {
		b.AlertThresholds = *p.AlertThresholds
	}
	return b
}

// Validate checks the fields a form may send when editing an expense.
func (p ExpensePatch) Validate() error {
	if p.Amount != nil && p.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return ErrEmptyDescription
	}
	if p.Date != nil && p.Date.IsZero() {
		return ErrZeroDate
	}
	if p.RecurringInterval != nil && *p.RecurringInterval != "" && !p.RecurringInterval.IsValid() {
		return ErrInvalidInterval
	}
	return nil
}

func (p CategoryPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrEmptyName
	}
	if p.Budget != nil && p.Budget.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (p BudgetPatch) Validate() error {
	if p.AlertThresholds != nil {
		return p.AlertThresholds.Validate()
	}
	return nil
}
