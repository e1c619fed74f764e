package core

import (
	"errors"
	"testing"
)

func TestMultiplierValidate(t *testing.T) {
	for _, m := range []Multiplier{Income, Expense} {
		if err := m.Validate(); err != nil {
			t.Errorf("Validate(%d) = %v", m, err)
		}
	}
	for _, m := range []Multiplier{0, 2, -2} {
		if err := m.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Validate(%d) = %v, want invalid input", m, err)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{Name: "Groceries", Multiplier: Expense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Category{
		{Name: "", Multiplier: Expense},
		{Name: "  ", Multiplier: Income},
		{Name: "Groceries", Multiplier: 0},
		{Name: "Groceries", Multiplier: 3},
	}
	for i, c := range bads {
		if err := c.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: Validate() = %v, want invalid input", i, err)
		}
	}
}

func TestTransactionDraftValidate(t *testing.T) {
	good := TransactionDraft{
		MerchantName: "Target",
		Amount:       Money{Cents: 100},
		Date:         NewDate(2023, 6, 13),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []TransactionDraft{
		{MerchantName: "", Amount: Money{Cents: 100}, Date: NewDate(2023, 6, 13)},
		{MerchantName: "Target", Amount: Money{Cents: 0}, Date: NewDate(2023, 6, 13)},
		{MerchantName: "Target", Amount: Money{Cents: 100}, Date: Date{}},
	}
	for i, d := range bads {
		if err := d.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: Validate() = %v, want invalid input", i, err)
		}
	}
}

func TestParseDeletePolicy(t *testing.T) {
	cases := []struct {
		in   string
		want DeletePolicy
		ok   bool
	}{
		{"", PolicyReject, true},
		{"reject", PolicyReject, true},
		{"CASCADE", PolicyCascade, true},
		{" orphan ", PolicyOrphan, true},
		{"drop", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDeletePolicy(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseDeletePolicy(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseDeletePolicy(%q) = %v, want invalid input", tc.in, err)
		}
	}
}
