package core

import (
	"testing"
	"time"
)

func mkTx(user string, date time.Time, kind TransactionKind, cents int64) Transaction {
	return Transaction{UserID: user, Date: date, Kind: kind, Amount: Money{Cents: cents}}
}

func TestSummarize(t *testing.T) {
	window := MonthWindow{Year: 2026, Month: time.March}
	inMonth := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	prevMonth := time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC)
	nextMonth := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	transactions := []Transaction{
		mkTx("alice", inMonth, Income, 100000),
		mkTx("alice", inMonth, Expense, 45000),
		mkTx("alice", inMonth, Expense, 15000),
		mkTx("alice", prevMonth, Expense, 99999),
		mkTx("alice", nextMonth, Income, 99999),
		mkTx("bob", inMonth, Income, 500000),
	}
	budgets := []Budget{
		{UserID: "alice", Category: "Food", Planned: Money{30000}, Actual: Money{45000}},
		{UserID: "alice", Category: "Transport", Planned: Money{20000}, Actual: Money{15000}},
		{UserID: "bob", Category: "Food", Planned: Money{10000}, Actual: Money{5000}},
	}

	s := Summarize("alice", transactions, budgets, window)

	if s.IncomeTotal.Cents != 100000 {
		t.Errorf("IncomeTotal = %d, want 100000", s.IncomeTotal.Cents)
	}
	if s.ExpenseTotal.Cents != 60000 {
		t.Errorf("ExpenseTotal = %d, want 60000", s.ExpenseTotal.Cents)
	}
	if s.Balance.Cents != 40000 {
		t.Errorf("Balance = %d, want 40000", s.Balance.Cents)
	}
	if s.PlannedBudget.Cents != 50000 {
		t.Errorf("PlannedBudget = %d, want 50000", s.PlannedBudget.Cents)
	}
	if s.ActualBudget.Cents != 60000 {
		t.Errorf("ActualBudget = %d, want 60000", s.ActualBudget.Cents)
	}
	if s.Overspend.Cents != 10000 {
		t.Errorf("Overspend = %d, want 10000", s.Overspend.Cents)
	}
	if s.Window != window {
		t.Errorf("Window = %v, want %v", s.Window, window)
	}
}

func TestSummarizeEmptyInputs(t *testing.T) {
	s := Summarize("alice", nil, nil, MonthWindow{Year: 2026, Month: time.January})
	if s.IncomeTotal.Cents != 0 || s.ExpenseTotal.Cents != 0 || s.Balance.Cents != 0 {
		t.Errorf("expected zero totals, got %+v", s)
	}
	if s.Overspend.Cents != 0 {
		t.Errorf("Overspend = %d, want 0", s.Overspend.Cents)
	}
}

func TestSummarizeNegativeBalance(t *testing.T) {
	window := MonthWindow{Year: 2026, Month: time.March}
	date := window.Start().Add(24 * time.Hour)
	transactions := []Transaction{
		mkTx("alice", date, Income, 100000),
		mkTx("alice", date, Expense, 120000),
	}

	s := Summarize("alice", transactions, nil, window)
	if s.Balance.Cents != -20000 {
		t.Errorf("Balance = %d, want -20000", s.Balance.Cents)
	}
}

func TestSummarizeUnderBudgetHasNoOverspend(t *testing.T) {
	budgets := []Budget{
		{UserID: "alice", Category: "Food", Planned: Money{50000}, Actual: Money{20000}},
	}

	s := Summarize("alice", nil, budgets, MonthWindow{Year: 2026, Month: time.March})
	if s.Overspend.Cents != 0 {
		t.Errorf("Overspend = %d, want 0", s.Overspend.Cents)
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	window := MonthWindow{Year: 2026, Month: time.March}
	date := window.Start()
	transactions := []Transaction{
		mkTx("alice", date, Income, 12345),
		mkTx("alice", date, Expense, 678),
	}
	budgets := []Budget{
		{UserID: "alice", Category: "Food", Planned: Money{1000}, Actual: Money{2000}},
	}

	first := Summarize("alice", transactions, budgets, window)
	for i := 0; i < 5; i++ {
		if got := Summarize("alice", transactions, budgets, window); got != first {
			t.Fatalf("run %d diverged: got %+v, want %+v", i, got, first)
		}
	}
}

func TestMonthWindowContains(t *testing.T) {
	w := MonthWindow{Year: 2026, Month: time.March}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"first instant", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), true},
		{"last instant", time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC), true},
		{"previous month", time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC), false},
		{"next month start", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), false},
		{"same month other year", time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false},
		{"non utc zone", time.Date(2026, time.March, 1, 0, 30, 0, 0, time.FixedZone("CET", 3600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}
