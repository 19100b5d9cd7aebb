package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// 10 MiB cap on attachment uploads.
const maxUploadBytes = 10 << 20

type transactionRequest struct {
	Date     string `json:"date"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type transactionResponse struct {
	ID             int64  `json:"id"`
	Date           string `json:"date"`
	Kind           string `json:"kind"`
	Category       string `json:"category,omitempty"`
	Amount         string `json:"amount"`
	AmountCents    int64  `json:"amountCents"`
	HasAttachment  bool   `json:"hasAttachment"`
	AttachmentText string `json:"attachmentText,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:             t.ID,
		Date:           t.Date.Format("2006-01-02"),
		Kind:           string(t.Kind),
		Category:       t.Category,
		Amount:         t.Amount.Format(),
		AmountCents:    t.Amount.Cents,
		HasAttachment:  t.AttachmentPath != "",
		AttachmentText: t.AttachmentText,
	}
}

// parseTransactionFields builds a transaction from request fields. Dates are
// accepted as 2006-01-02 or RFC3339.
func parseTransactionFields(userID string, req transactionRequest) (core.Transaction, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		UserID:   userID,
		Date:     date,
		Kind:     core.TransactionKind(req.Kind),
		Category: strings.TrimSpace(req.Category),
		Amount:   core.Money{Cents: cents},
	}
	return t, t.Validate()
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, core.ErrZeroDate
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q: %w", s, core.ErrZeroDate)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, userID string) {
	transactions, err := s.store.ListTransactions(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]transactionResponse, len(transactions))
	for i, t := range transactions {
		out[i] = toTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	var req transactionRequest
	var attachment string
	var attachmentText string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		req = transactionRequest{
			Date:     r.FormValue("date"),
			Kind:     r.FormValue("kind"),
			Category: r.FormValue("category"),
			Amount:   r.FormValue("amount"),
		}

		if file, header, err := r.FormFile("attachment"); err == nil {
			defer file.Close()
			name, err := s.files.Save(io.LimitReader(file, maxUploadBytes), header.Filename)
			if err != nil {
				writeDomainError(w, r, err)
				return
			}
			attachment = name
			attachmentText = s.files.ExtractPDFText(name)
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	t, err := parseTransactionFields(userID, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	t.AttachmentPath = attachment
	t.AttachmentText = attachmentText

	if err := s.store.CreateTransaction(r.Context(), &t); err != nil {
		if attachment != "" {
			if rmErr := s.files.Remove(attachment); rmErr != nil {
				slog.WarnContext(r.Context(), "Failed to remove orphaned attachment", "name", attachment, "error", rmErr)
			}
		}
		writeDomainError(w, r, err)
		return
	}

	s.notifyTransactionChange(r, t, amqp.OpCreated, "")
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	t, err := s.store.GetTransaction(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	existing, err := s.store.GetTransaction(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := parseTransactionFields(userID, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	t.ID = id
	t.AttachmentPath = existing.AttachmentPath
	t.AttachmentText = existing.AttachmentText

	if err := s.store.UpdateTransaction(r.Context(), &t); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.notifyTransactionChange(r, t, amqp.OpUpdated, existing.Category)
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	existing, err := s.store.GetTransaction(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), userID, id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if existing.AttachmentPath != "" {
		if err := s.files.Remove(existing.AttachmentPath); err != nil {
			slog.WarnContext(r.Context(), "Failed to remove attachment", "name", existing.AttachmentPath, "error", err)
		}
	}

	s.notifyTransactionChange(r, existing, amqp.OpDeleted, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request, userID string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	t, err := s.store.GetTransaction(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if t.AttachmentPath == "" {
		writeError(w, http.StatusNotFound, "transaction has no attachment")
		return
	}

	f, err := s.files.Open(t.AttachmentPath)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.AttachmentPath))
	http.ServeContent(w, r, t.AttachmentPath, time.Time{}, f)
}

// notifyTransactionChange hands the change to the worker through the event
// queue, or recalculates the affected budget inline when messaging is off.
// oldCategory covers updates that move a transaction between categories.
func (s *Server) notifyTransactionChange(r *http.Request, t core.Transaction, op, oldCategory string) {
	ctx := r.Context()
	s.chartCache.Delete(t.UserID)
	categories := []string{t.Category}
	if oldCategory != "" && oldCategory != t.Category {
		categories = append(categories, oldCategory)
	}

	if s.events != nil {
		for _, category := range categories {
			if err := s.events.PublishTransactionEvent(ctx, t.ID, t.UserID, category, op); err != nil {
				slog.ErrorContext(ctx, "Failed to publish transaction event",
					"transaction_id", t.ID, "op", op, "error", err)
			}
		}
		return
	}

	for _, category := range categories {
		if category == "" {
			continue
		}
		if err := s.store.RecalculateBudgetActual(ctx, t.UserID, category); err != nil {
			slog.ErrorContext(ctx, "Failed to recalculate budget",
				"user_id", t.UserID, "category", category, "error", err)
		}
	}
}
