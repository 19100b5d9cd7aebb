package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/ai"
	"fintrack/internal/core"
)

type fakeStore struct {
	transactions []core.Transaction
	budgets      []core.Budget
	err          error
}

func (f *fakeStore) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	return f.transactions, f.err
}

func (f *fakeStore) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	return f.budgets, f.err
}

type fakeCompleter struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var fixedNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

// scenarioStore holds income 1000, expenses 1200, planned 500, actual 600.
func scenarioStore() *fakeStore {
	return &fakeStore{
		transactions: []core.Transaction{
			{UserID: "alice", Date: fixedNow, Kind: core.Income, Amount: core.Money{Cents: 100000}},
			{UserID: "alice", Date: fixedNow, Kind: core.Expense, Amount: core.Money{Cents: 120000}},
		},
		budgets: []core.Budget{
			{UserID: "alice", Category: "Food", Planned: core.Money{Cents: 50000}, Actual: core.Money{Cents: 60000}},
		},
	}
}

func newTestRouter(store *fakeStore, completer *fakeCompleter, alwaysDelegate bool) *Router {
	r := NewRouter(store, completer, alwaysDelegate)
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestHandleEmptyMessage(t *testing.T) {
	r := newTestRouter(scenarioStore(), &fakeCompleter{}, false)

	for _, message := range []string{"", "   ", "\t\n"} {
		if _, err := r.Handle(context.Background(), "alice", message); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Handle(%q) error = %v, want ErrEmptyMessage", message, err)
		}
	}
}

func TestHandleDeterministicBalance(t *testing.T) {
	completer := &fakeCompleter{reply: "should not be used"}
	r := newTestRouter(scenarioStore(), completer, false)

	got, err := r.Handle(context.Background(), "alice", "What is my balance?")
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.Reply != "Your current balance this month is -$200.00." {
		t.Errorf("Reply = %q", got.Reply)
	}
	if completer.calls != 0 {
		t.Errorf("completion service called %d times, want 0", completer.calls)
	}
}

func TestHandleDeterministicTemplates(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"income", "how much income did I earn", "Your total income this month is $1,000.00."},
		{"expenses", "how much did I spend", "Your total expenses this month are $1,200.00."},
		{"budget", "what is my budget", "Your planned budget is $500.00 and actual spending is $600.00."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{}
			r := newTestRouter(scenarioStore(), completer, false)

			got, err := r.Handle(context.Background(), "alice", tt.message)
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got.Reply != tt.want {
				t.Errorf("Reply = %q, want %q", got.Reply, tt.want)
			}
			if completer.calls != 0 {
				t.Errorf("completion service called %d times, want 0", completer.calls)
			}
		})
	}
}

func TestHandleFallbackPrompt(t *testing.T) {
	completer := &fakeCompleter{reply: "Because your spending exceeded your income."}
	r := newTestRouter(scenarioStore(), completer, false)

	got, err := r.Handle(context.Background(), "alice", "Why did I overspend?")
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.Reply != "Because your spending exceeded your income." {
		t.Errorf("Reply = %q", got.Reply)
	}
	if completer.calls != 1 {
		t.Fatalf("completion service called %d times, want 1", completer.calls)
	}

	prompt := completer.prompts[0]
	for _, fact := range []string{
		"Income: $1,000.00",
		"Expenses: $1,200.00",
		"Balance: -$200.00",
		"Planned Budget: $500.00",
		"Actual Budget: $600.00",
		"Why did I overspend?",
	} {
		if !strings.Contains(prompt, fact) {
			t.Errorf("prompt missing %q\nprompt:\n%s", fact, prompt)
		}
	}
}

func TestHandleAlwaysDelegate(t *testing.T) {
	completer := &fakeCompleter{reply: "delegated"}
	r := newTestRouter(scenarioStore(), completer, true)

	got, err := r.Handle(context.Background(), "alice", "What is my balance?")
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.Reply != "delegated" {
		t.Errorf("Reply = %q, want %q", got.Reply, "delegated")
	}
	if completer.calls != 1 {
		t.Errorf("completion service called %d times, want 1", completer.calls)
	}
}

func TestHandleUpstreamErrorPassesThrough(t *testing.T) {
	completer := &fakeCompleter{err: &ai.UpstreamError{Status: 503}}
	r := newTestRouter(scenarioStore(), completer, false)

	_, err := r.Handle(context.Background(), "alice", "hello there")
	var upstream *ai.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Handle() error = %v, want *ai.UpstreamError", err)
	}
	if upstream.Status != 503 {
		t.Errorf("Status = %d, want 503", upstream.Status)
	}
}

func TestHandleStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	completer := &fakeCompleter{}
	r := newTestRouter(store, completer, false)

	if _, err := r.Handle(context.Background(), "alice", "what is my balance"); err == nil {
		t.Fatal("Handle() error = nil, want storage error")
	}
	if completer.calls != 0 {
		t.Errorf("completion service called %d times, want 0", completer.calls)
	}
}

func TestSummaryScopesToCurrentMonth(t *testing.T) {
	store := scenarioStore()
	store.transactions = append(store.transactions,
		core.Transaction{UserID: "alice", Date: fixedNow.AddDate(0, -1, 0), Kind: core.Expense, Amount: core.Money{Cents: 999999}})
	r := newTestRouter(store, &fakeCompleter{}, false)

	s, err := r.Summary(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if s.ExpenseTotal.Cents != 120000 {
		t.Errorf("ExpenseTotal = %d, want 120000", s.ExpenseTotal.Cents)
	}
	if s.Balance.Cents != -20000 {
		t.Errorf("Balance = %d, want -20000", s.Balance.Cents)
	}
}
