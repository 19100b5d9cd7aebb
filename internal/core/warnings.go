package core

import "fmt"

// Warnings derives the user-facing warning lines for a summary. Both rules are
// checked independently; the balance warning always precedes the budget
// warning so output stays reproducible. An empty slice means all clear.
func Warnings(s MonthlySummary) []string {
	var out []string
	if s.Balance.Cents <= 0 {
		out = append(out, fmt.Sprintf("Your balance this month is %s. Spending has caught up with your income.", s.Balance.Format()))
	}
	if s.ActualBudget.Cents > s.PlannedBudget.Cents {
		out = append(out, fmt.Sprintf("You are over budget by %s.", FormatUSD(s.ActualBudget.Cents-s.PlannedBudget.Cents)))
	}
	return out
}
