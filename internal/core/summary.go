package core

// MonthlySummary is the computed aggregate of a user's finances for one
// calendar month. It is recomputed on every request and never persisted.
// Balance is the only field that may be negative.
type MonthlySummary struct {
	Window        MonthWindow
	IncomeTotal   Money
	ExpenseTotal  Money
	Balance       Money
	PlannedBudget Money
	ActualBudget  Money
	Overspend     Money
}

// Summarize computes the monthly summary for userID from raw records. It is a
// pure function: no I/O, deterministic in its inputs.
//
// Transactions are filtered to those owned by userID whose date falls within
// the window. Budget totals are summed across all of the user's budgets,
// because budgets carry no date in this system. Missing records yield zero
// totals, never an error.
func Summarize(userID string, transactions []Transaction, budgets []Budget, window MonthWindow) MonthlySummary {
	s := MonthlySummary{Window: window}

	for _, t := range transactions {
		if t.UserID != userID || !window.Contains(t.Date) {
			continue
		}
		switch t.Kind {
		case Income:
			s.IncomeTotal.Cents += t.Amount.Cents
		case Expense:
			s.ExpenseTotal.Cents += t.Amount.Cents
		}
	}

	for _, b := range budgets {
		if b.UserID != userID {
			continue
		}
		s.PlannedBudget.Cents += b.Planned.Cents
		s.ActualBudget.Cents += b.Actual.Cents
	}

	s.Balance.Cents = s.IncomeTotal.Cents - s.ExpenseTotal.Cents
	if over := s.ActualBudget.Cents - s.PlannedBudget.Cents; over > 0 {
		s.Overspend.Cents = over
	}
	return s
}
