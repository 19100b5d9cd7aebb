package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"fintrack/internal/ai"
	"fintrack/internal/core"
)

// seedMonth inserts one income and one expense transaction dated today so the
// router's current-month window picks them up.
func seedMonth(t *testing.T, store *memStore, userID string, incomeCents, expenseCents int64) {
	t.Helper()
	ctx := context.Background()

	income := core.Transaction{
		UserID:   userID,
		Date:     time.Now(),
		Kind:     core.Income,
		Category: "Salary",
		Amount:   core.Money{Cents: incomeCents},
	}
	if err := store.CreateTransaction(ctx, &income); err != nil {
		t.Fatalf("seed income: %v", err)
	}

	expense := core.Transaction{
		UserID:   userID,
		Date:     time.Now(),
		Kind:     core.Expense,
		Category: "Groceries",
		Amount:   core.Money{Cents: expenseCents},
	}
	if err := store.CreateTransaction(ctx, &expense); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
}

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode response %q: %v", body, err)
	}
	return out
}

func TestSendMessageDeterministicBalance(t *testing.T) {
	e := newTestEnv(t)
	seedMonth(t, e.store, "alice", 100000, 120000)

	rec := e.do(http.MethodPost, "/api/chatbot/sendMessage", `{"userMessage":"what is my balance"}`, "alice")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec.Body.Bytes())
	want := "Your current balance this month is -$200.00."
	if body["aiMessage"] != want {
		t.Errorf("aiMessage = %q, want %q", body["aiMessage"], want)
	}
	if e.completer.calls != 0 {
		t.Errorf("completer calls = %d, want 0 for a deterministic intent", e.completer.calls)
	}
}

func TestSendMessageDelegatesUnknownIntent(t *testing.T) {
	e := newTestEnv(t)
	seedMonth(t, e.store, "alice", 100000, 120000)

	rec := e.do(http.MethodPost, "/api/chatbot/sendMessage", `{"userMessage":"should I buy a bike"}`, "alice")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec.Body.Bytes())
	if body["aiMessage"] != "delegated answer" {
		t.Errorf("aiMessage = %q, want delegated reply", body["aiMessage"])
	}
	if e.completer.calls != 1 {
		t.Errorf("completer calls = %d, want 1", e.completer.calls)
	}
}

func TestSendMessageEmptyMessage(t *testing.T) {
	e := newTestEnv(t)

	for _, body := range []string{`{"userMessage":""}`, `{"userMessage":"   "}`, `{}`} {
		rec := e.do(http.MethodPost, "/api/chatbot/sendMessage", body, "alice")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
			continue
		}
		resp := decodeBody(t, rec.Body.Bytes())
		if resp["error"] != "userMessage is required" {
			t.Errorf("body %s: error = %q", body, resp["error"])
		}
	}
}

func TestSendMessageInvalidJSON(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodPost, "/api/chatbot/sendMessage", `{not json`, "alice")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSendMessageUpstreamStatusRelayed(t *testing.T) {
	e := newTestEnv(t)
	e.completer.err = &ai.UpstreamError{Status: http.StatusServiceUnavailable}

	rec := e.do(http.MethodPost, "/api/chatbot/sendMessage", `{"userMessage":"should I buy a bike"}`, "alice")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec.Body.Bytes())
	if body["error"] != "AI API error" {
		t.Errorf("error = %q, want %q", body["error"], "AI API error")
	}
}

func TestSendMessageUpstreamTransportFailure(t *testing.T) {
	e := newTestEnv(t)
	e.completer.err = &ai.UpstreamError{Reason: "connection refused"}

	rec := e.do(http.MethodPost, "/api/chatbot/sendMessage", `{"userMessage":"should I buy a bike"}`, "alice")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestSendMessageInternalError(t *testing.T) {
	e := newTestEnv(t)
	e.store.failAll = true

	rec := e.do(http.MethodPost, "/api/chatbot/sendMessage", `{"userMessage":"what is my balance"}`, "alice")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec.Body.Bytes())
	if body["error"] != "Error contacting AI model." {
		t.Errorf("error = %q", body["error"])
	}
	if body["details"] == "" {
		t.Error("expected a short diagnostic in details")
	}
}
