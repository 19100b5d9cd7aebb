package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

type budgetRequest struct {
	Category string `json:"category"`
	Planned  string `json:"planned"`
	Actual   string `json:"actual,omitempty"`
}

type budgetResponse struct {
	ID             int64  `json:"id"`
	Category       string `json:"category"`
	Planned        string `json:"planned"`
	PlannedCents   int64  `json:"plannedCents"`
	Actual         string `json:"actual"`
	ActualCents    int64  `json:"actualCents"`
	Overspent      string `json:"overspent"`
	OverspentCents int64  `json:"overspentCents"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	var over int64
	if b.Actual.Cents > b.Planned.Cents {
		over = b.Actual.Cents - b.Planned.Cents
	}
	return budgetResponse{
		ID:             b.ID,
		Category:       b.Category,
		Planned:        b.Planned.Format(),
		PlannedCents:   b.Planned.Cents,
		Actual:         b.Actual.Format(),
		ActualCents:    b.Actual.Cents,
		Overspent:      core.FormatUSD(over),
		OverspentCents: over,
	}
}

// parseBudgetFields accepts decimal amounts; a missing actual starts at zero.
func parseBudgetFields(userID string, req budgetRequest) (core.Budget, error) {
	b := core.Budget{
		UserID:   userID,
		Category: strings.TrimSpace(req.Category),
	}

	planned, err := core.ParseDecimalToCents(req.Planned)
	if err != nil {
		return core.Budget{}, err
	}
	b.Planned = core.Money{Cents: planned}

	if strings.TrimSpace(req.Actual) != "" {
		actual, err := core.ParseDecimalToCents(req.Actual)
		if err != nil {
			return core.Budget{}, err
		}
		b.Actual = core.Money{Cents: actual}
	}

	return b, b.Validate()
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request, userID string) {
	budgets, err := s.store.ListBudgets(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		out[i] = toBudgetResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request, userID string) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := parseBudgetFields(userID, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := s.store.CreateBudget(r.Context(), &b); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.chartCache.Delete(userID)
	writeJSON(w, http.StatusCreated, toBudgetResponse(b))
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	b, err := s.store.GetBudget(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(b))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	existing, err := s.store.GetBudget(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := parseBudgetFields(userID, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	b.ID = id
	if strings.TrimSpace(req.Actual) == "" {
		b.Actual = existing.Actual
	}

	if err := s.store.UpdateBudget(r.Context(), &b); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.chartCache.Delete(userID)
	writeJSON(w, http.StatusOK, toBudgetResponse(b))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	if err := s.store.DeleteBudget(r.Context(), userID, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.chartCache.Delete(userID)
	w.WriteHeader(http.StatusNoContent)
}
