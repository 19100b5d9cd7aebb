package http

import (
	"net/http"

	"fintrack/internal/charts"
	"fintrack/internal/core"
)

type summaryResponse struct {
	Year          int      `json:"year"`
	Month         string   `json:"month"`
	Income        string   `json:"income"`
	Expenses      string   `json:"expenses"`
	Balance       string   `json:"balance"`
	PlannedBudget string   `json:"plannedBudget"`
	ActualBudget  string   `json:"actualBudget"`
	Overspend     string   `json:"overspend"`
	Warnings      []string `json:"warnings"`
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request, userID string) {
	summary, err := s.router.Summary(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	warnings := core.Warnings(summary)
	if warnings == nil {
		warnings = []string{}
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Year:          summary.Window.Year,
		Month:         summary.Window.Month.String(),
		Income:        summary.IncomeTotal.Format(),
		Expenses:      summary.ExpenseTotal.Format(),
		Balance:       summary.Balance.Format(),
		PlannedBudget: summary.PlannedBudget.Format(),
		ActualBudget:  summary.ActualBudget.Format(),
		Overspend:     summary.Overspend.Format(),
		Warnings:      warnings,
	})
}

func (s *Server) handleDashboardChart(w http.ResponseWriter, r *http.Request, userID string) {
	png, ok := s.chartCache.Get(userID)
	if !ok {
		summary, err := s.router.Summary(r.Context(), userID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}

		png, err = charts.RenderSummary(summary)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		s.chartCache.Set(userID, png)
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
