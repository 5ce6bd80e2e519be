// Package http provides HTTP server and handler implementations.
//
// This file implements decoding and validation of JSON request bodies and
// query parameters.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"walletbook/internal/core"
	"walletbook/internal/report"
)

const (
	maxBodyBytes = 1 << 20
	dateLayout   = "2006-01-02"

	defaultCategoryIcon  = "📋"
	defaultCategoryColor = "#10B981"
)

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON object from the body into dst, rejecting
// unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	if dec.More() {
		return errors.New("invalid JSON body: unexpected trailing data")
	}
	return nil
}

// parseDate accepts YYYY-MM-DD (midnight UTC) or RFC 3339. An empty
// string yields now.
func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t.UTC(), nil
}

// sanitizeInput removes control characters except tab, newline and
// carriage return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitizeInput(*s)
	return &v
}

type expenseRequest struct {
	Amount            core.Money           `json:"amount"`
	Category          string               `json:"category"`
	Description       string               `json:"description"`
	Date              string               `json:"date"`
	IsRecurring       bool                 `json:"isRecurring"`
	RecurringInterval core.RepetitionTypes `json:"recurringInterval"`
}

// toExpense builds and validates the expense described by the request.
func (req expenseRequest) toExpense(now time.Time) (core.Expense, error) {
	date, err := parseDate(req.Date, now)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		Amount:      req.Amount,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Date:        date,
		IsRecurring: req.IsRecurring,
	}
	if e.IsRecurring {
		e.RecurringInterval = req.RecurringInterval
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

type expensePatchRequest struct {
	Amount            *core.Money           `json:"amount"`
	Category          *string               `json:"category"`
	Description       *string               `json:"description"`
	Date              *string               `json:"date"`
	IsRecurring       *bool                 `json:"isRecurring"`
	RecurringInterval *core.RepetitionTypes `json:"recurringInterval"`
}

func (req expensePatchRequest) toPatch(now time.Time) (core.ExpensePatch, error) {
	p := core.ExpensePatch{
		Amount:            req.Amount,
		Category:          sanitizePtr(req.Category),
		Description:       sanitizePtr(req.Description),
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
	}
	if p.Category != nil && *p.Category == "" {
		return core.ExpensePatch{}, core.ErrEmptyCategory
	}
	if req.Date != nil {
		if strings.TrimSpace(*req.Date) == "" {
			return core.ExpensePatch{}, core.ErrZeroDate
		}
		date, err := parseDate(*req.Date, now)
		if err != nil {
			return core.ExpensePatch{}, err
		}
		p.Date = &date
	}
	if err := p.Validate(); err != nil {
		return core.ExpensePatch{}, err
	}
	return p, nil
}

type categoryRequest struct {
	Name   string     `json:"name"`
	Icon   string     `json:"icon"`
	Color  string     `json:"color"`
	Budget core.Money `json:"budget"`
	Order  *int       `json:"order"`
}

// toCategory fills in the form defaults; a missing order places the
// category after the existing ones.
func (req categoryRequest) toCategory(nextOrder int) (core.Category, error) {
	c := core.Category{
		Name:   sanitizeInput(req.Name),
		Icon:   sanitizeInput(req.Icon),
		Color:  sanitizeInput(req.Color),
		Budget: req.Budget,
		Order:  nextOrder,
	}
	if c.Icon == "" {
		c.Icon = defaultCategoryIcon
	}
	if c.Color == "" {
		c.Color = defaultCategoryColor
	}
	if req.Order != nil {
		c.Order = *req.Order
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func sanitizeCategoryPatch(p core.CategoryPatch) core.CategoryPatch {
	p.Name = sanitizePtr(p.Name)
	p.Icon = sanitizePtr(p.Icon)
	p.Color = sanitizePtr(p.Color)
	return p
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// reorder returns current arranged in the requested order, renumbered
// from 0. ids must name every category exactly once.
func (req reorderRequest) reorder(current []core.Category) ([]core.Category, error) {
	if len(req.IDs) != len(current) {
		return nil, fmt.Errorf("order must list all %d categories, got %d", len(current), len(req.IDs))
	}
	byID := make(map[string]core.Category, len(current))
	for _, c := range current {
		byID[c.ID] = c
	}
	out := make([]core.Category, 0, len(req.IDs))
	for i, id := range req.IDs {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown or repeated category %q", id)
		}
		delete(byID, id)
		c.Order = i
		out = append(out, c)
	}
	return out, nil
}

// budgetSettingsRequest carries the budget fields a client may edit
// directly. Totals and allocations follow the categories and are changed
// through the category and allocation endpoints only.
type budgetSettingsRequest struct {
	Month           *string               `json:"month"`
	AlertThresholds *core.AlertThresholds `json:"alertThresholds"`
}

func (req budgetSettingsRequest) toPatch() (core.BudgetPatch, error) {
	p := core.BudgetPatch{AlertThresholds: req.AlertThresholds}
	if req.Month != nil {
		month := sanitizeInput(*req.Month)
		if _, err := time.Parse("2006-01", month); err != nil {
			return core.BudgetPatch{}, fmt.Errorf("invalid month %q: want YYYY-MM", *req.Month)
		}
		p.Month = &month
	}
	if err := p.Validate(); err != nil {
		return core.BudgetPatch{}, err
	}
	return p, nil
}

type allocationRequest struct {
	Amount *core.Money `json:"amount"`
}

func (req allocationRequest) amount() (core.Money, error) {
	if req.Amount == nil {
		return core.Money{}, core.ErrInvalidAmount
	}
	if req.Amount.IsNegative() {
		return core.Money{}, core.ErrNegativeAmount
	}
	return *req.Amount, nil
}

// ParseListFilter reads search, category and sort from the query string.
func ParseListFilter(query url.Values) (report.Filter, error) {
	order, err := report.ParseSortOrder(query.Get("sort"))
	if err != nil {
		return report.Filter{}, err
	}
	return report.Filter{
		Search:   sanitizeInput(query.Get("search")),
		Category: sanitizeInput(query.Get("category")),
		Sort:     order,
	}, nil
}
