package core

import (
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Description: "ok",
		Amount:      Money{Cents: 100},
		Category:    "cat-1",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	recurring := good
	recurring.IsRecurring = true
	recurring.RecurringInterval = Monthly
	if err := recurring.Validate(); err != nil {
		t.Fatalf("expected ok for recurring, got %v", err)
	}

	bads := []Expense{
		{Description: "a", Amount: Money{Cents: 1}, Category: "c"}, // zero date
		{Date: good.Date, Description: " ", Amount: Money{Cents: 1}, Category: "c"},
		{Date: good.Date, Description: "a", Amount: Money{Cents: 0}, Category: "c"},
		{Date: good.Date, Description: "a", Amount: Money{Cents: 1}, Category: ""},
		{Date: good.Date, Description: "a", Amount: Money{Cents: 1}, Category: "c", IsRecurring: true},
		{Date: good.Date, Description: "a", Amount: Money{Cents: 1}, Category: "c", IsRecurring: true, RecurringInterval: "hourly"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Pets", Budget: NewMoney(50, 0)}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: "Pets"}).Validate(); err != nil {
		t.Fatalf("zero budget should be allowed, got %v", err)
	}
	if err := (Category{Name: "", Budget: NewMoney(1, 0)}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Category{Name: "x", Budget: Money{Cents: -1}}).Validate(); err != ErrNegativeAmount {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestAlertThresholdsValidate(t *testing.T) {
	cases := []struct {
		th AlertThresholds
		ok bool
	}{
		{AlertThresholds{50, 75, 90}, true},
		{AlertThresholds{1, 2, 100}, true},
		{AlertThresholds{0, 75, 90}, false},
		{AlertThresholds{50, 50, 90}, false},
		{AlertThresholds{50, 95, 90}, false},
		{AlertThresholds{50, 75, 101}, false},
	}
	for i, tc := range cases {
		err := tc.th.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpensePatchApply(t *testing.T) {
	e := Expense{ID: "e1", Amount: NewMoney(10, 0), Description: "rent", IsRecurring: true, RecurringInterval: Monthly}

	desc := "new rent"
	got := ExpensePatch{Description: &desc}.Apply(e)
	if got.Description != desc || got.ID != "e1" || got.RecurringInterval != Monthly {
		t.Fatalf("unexpected merge: %+v", got)
	}

	off := false
	got = ExpensePatch{IsRecurring: &off}.Apply(e)
	if got.IsRecurring || got.RecurringInterval != "" {
		t.Fatalf("expected recurrence cleared, got %+v", got)
	}

	local := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	got = ExpensePatch{Date: &local}.Apply(e)
	if got.Date.Location() != time.UTC || !got.Date.Equal(local) {
		t.Fatalf("expected UTC date, got %v", got.Date)
	}
}

func TestBudgetCloneDoesNotShareMap(t *testing.T) {
	b := Budget{CategoryAllocations: map[string]Money{"a": NewMoney(1, 0)}}
	c := b.Clone()
	c.CategoryAllocations["a"] = NewMoney(2, 0)
	if b.CategoryAllocations["a"] != NewMoney(1, 0) {
		t.Fatalf("clone shares allocation map")
	}
}
