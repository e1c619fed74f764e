package core

import (
	"math"
	"testing"
)

func view(merchant, category string, multiplier Multiplier, cents int64, date Date) TransactionView {
	return TransactionView{
		MerchantName:       merchant,
		CategoryName:       category,
		CategoryMultiplier: multiplier,
		Amount:             Money{Cents: cents},
		Date:               date,
	}
}

func TestComputeMetricsEmpty(t *testing.T) {
	if m := ComputeMetrics(nil); m != nil {
		t.Fatalf("expected nil metrics for empty input, got %+v", m)
	}
	if m := ComputeMetrics([]TransactionView{}); m != nil {
		t.Fatalf("expected nil metrics for empty slice, got %+v", m)
	}
}

func TestComputeMetricsArithmetic(t *testing.T) {
	d1 := NewDate(2023, 6, 13)
	d2 := NewDate(2023, 6, 15) // d1 + 2 days
	m := ComputeMetrics([]TransactionView{
		view("Target", "Groceries", Expense, 100_00, d1),
		view("Employer", "Salary", Income, 50_00, d2),
	})
	if m == nil {
		t.Fatal("expected metrics")
	}

	if m.TransactionCount != 2 {
		t.Errorf("transactionCount = %d, want 2", m.TransactionCount)
	}
	if m.PositiveTransactionCount != 1 || m.NegativeTransactionCount != 1 {
		t.Errorf("positive/negative counts = %d/%d, want 1/1",
			m.PositiveTransactionCount, m.NegativeTransactionCount)
	}
	if m.MerchantCount != 2 || m.CategoryCount != 2 {
		t.Errorf("merchant/category counts = %d/%d, want 2/2", m.MerchantCount, m.CategoryCount)
	}
	if m.DayCount != 3 {
		t.Errorf("dayCount = %d, want 3", m.DayCount)
	}
	if m.Balance != -50 {
		t.Errorf("balance = %v, want -50", m.Balance)
	}
	if m.NetPositive != 50 || m.NetNegative != 100 {
		t.Errorf("netPositive/netNegative = %v/%v, want 50/100", m.NetPositive, m.NetNegative)
	}
	if !closeTo(m.PositivePerDay, 50.0/3) || !closeTo(m.NegativePerDay, 100.0/3) {
		t.Errorf("perDay = %v/%v, want %v/%v", m.PositivePerDay, m.NegativePerDay, 50.0/3, 100.0/3)
	}
	if m.AveragePositive == nil || *m.AveragePositive != 50 {
		t.Errorf("averagePositive = %v, want 50", m.AveragePositive)
	}
	if m.AverageNegative == nil || *m.AverageNegative != 100 {
		t.Errorf("averageNegative = %v, want 100", m.AverageNegative)
	}
	if m.MaximumNegative == nil || m.MinimumNegative == nil ||
		*m.MaximumNegative != 100 || *m.MinimumNegative != 100 {
		t.Errorf("negative extrema = %v/%v, want 100/100", m.MaximumNegative, m.MinimumNegative)
	}
}

func TestComputeMetricsOneSidedOmitsAverages(t *testing.T) {
	d := NewDate(2024, 1, 1)
	m := ComputeMetrics([]TransactionView{
		view("Employer", "Salary", Income, 200_00, d),
	})
	if m == nil {
		t.Fatal("expected metrics")
	}
	if m.AveragePositive == nil || *m.AveragePositive != 200 {
		t.Errorf("averagePositive = %v, want 200", m.AveragePositive)
	}
	if m.AverageNegative != nil || m.MaximumNegative != nil || m.MinimumNegative != nil {
		t.Errorf("expected absent negative fields, got %v/%v/%v",
			m.AverageNegative, m.MaximumNegative, m.MinimumNegative)
	}
	if m.DayCount != 1 {
		t.Errorf("dayCount = %d, want 1", m.DayCount)
	}
	if m.NegativePerDay != 0 {
		t.Errorf("negativePerDay = %v, want 0", m.NegativePerDay)
	}
}

func TestComputeMetricsNegativeExtrema(t *testing.T) {
	d := NewDate(2024, 3, 1)
	m := ComputeMetrics([]TransactionView{
		view("A", "Food", Expense, 25_00, d),
		view("B", "Food", Expense, 75_50, NewDate(2024, 3, 2)),
		view("C", "Food", Expense, 10_00, NewDate(2024, 3, 3)),
	})
	if *m.MaximumNegative != 75.5 {
		t.Errorf("maximumNegative = %v, want 75.5", *m.MaximumNegative)
	}
	if *m.MinimumNegative != 10 {
		t.Errorf("minimumNegative = %v, want 10", *m.MinimumNegative)
	}
	if *m.AverageNegative != (25+75.5+10)/3 {
		t.Errorf("averageNegative = %v", *m.AverageNegative)
	}
}

func TestComputeMetricsUnexpectedMultipliers(t *testing.T) {
	d := NewDate(2024, 5, 1)
	m := ComputeMetrics([]TransactionView{
		view("A", "X", 2, 10_00, d),  // any positive value counts as positive
		view("B", "Y", -3, 20_00, d), // any negative value counts as negative
		view("C", "Z", 0, 30_00, d),  // zero is excluded from both sides
	})
	if m.PositiveTransactionCount != 1 || m.NegativeTransactionCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", m.PositiveTransactionCount, m.NegativeTransactionCount)
	}
	if m.TransactionCount != 3 {
		t.Errorf("transactionCount = %d, want 3", m.TransactionCount)
	}
	// balance still multiplies by the literal value
	if m.Balance != 10*2-20*3 {
		t.Errorf("balance = %v, want %v", m.Balance, 10*2-20*3)
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
