package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"fintrack/internal/ai"
	"fintrack/internal/chat"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeErrorDetails(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, map[string]string{"error": message, "details": details})
}

// writeDomainError maps storage and validation failures from CRUD handlers.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrZeroDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyOwner):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "url", r.URL.Path, "error", err)
		writeErrorDetails(w, http.StatusInternalServerError, "internal error", shortDiagnostic(err))
	}
}

// writeChatError maps router outcomes for the chatbot paths: empty input is a
// 400, upstream failures relay the upstream status (502 when none), anything
// else is a 500 with a short diagnostic only.
func writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, chat.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "userMessage is required")
		return
	}

	var upstream *ai.UpstreamError
	if errors.As(err, &upstream) {
		status := upstream.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		slog.WarnContext(r.Context(), "Completion service failure", "status", status, "error", err)
		writeError(w, status, "AI API error")
		return
	}

	slog.ErrorContext(r.Context(), "Chat request failed", "error", err)
	writeErrorDetails(w, http.StatusInternalServerError, "Error contacting AI model.", shortDiagnostic(err))
}

// shortDiagnostic truncates an error for the response body so internals never
// leak beyond a short hint.
func shortDiagnostic(err error) string {
	const maxLen = 120
	msg := err.Error()
	if len(msg) > maxLen {
		return msg[:maxLen]
	}
	return msg
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
