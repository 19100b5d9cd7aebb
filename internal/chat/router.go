// Package chat routes a user's free-text financial question to either a
// deterministic answer computed from stored records or the external
// completion service.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/ai"
	"fintrack/internal/core"
)

// ErrEmptyMessage rejects blank questions before any records are read.
// Callers map it to a 400.
var ErrEmptyMessage = errors.New("message cannot be empty")

// RecordReader is the slice of the record store the router needs.
type RecordReader interface {
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
}

// Router answers questions for the current calendar month. It holds no
// per-request state; one instance serves all users.
type Router struct {
	store          RecordReader
	completer      ai.Completer
	alwaysDelegate bool
	now            func() time.Time
}

func NewRouter(store RecordReader, completer ai.Completer, alwaysDelegate bool) *Router {
	return &Router{
		store:          store,
		completer:      completer,
		alwaysDelegate: alwaysDelegate,
		now:            time.Now,
	}
}

// Handle answers message for userID. The window is always the month containing
// the current wall-clock time; there is no user-selectable window.
func (r *Router) Handle(ctx context.Context, userID, message string) (core.ChatExchange, error) {
	if strings.TrimSpace(message) == "" {
		return core.ChatExchange{}, ErrEmptyMessage
	}

	summary, err := r.summarize(ctx, userID)
	if err != nil {
		return core.ChatExchange{}, err
	}

	intent := core.ClassifyIntent(message)

	if !r.alwaysDelegate && intent != core.IntentNone {
		reply := deterministicReply(intent, summary)
		slog.InfoContext(ctx, "Answered deterministically",
			"user_id", userID,
			"intent", intent.String())
		return core.ChatExchange{UserMessage: message, Reply: reply}, nil
	}

	reply, err := r.completer.Complete(ctx, groundingPrompt(summary, message))
	if err != nil {
		return core.ChatExchange{}, err
	}

	slog.InfoContext(ctx, "Answered via completion service",
		"user_id", userID,
		"intent", intent.String())
	return core.ChatExchange{UserMessage: message, Reply: reply}, nil
}

// Summary recomputes the current month's aggregate for userID. Used by the
// dashboard as well as the chat path.
func (r *Router) Summary(ctx context.Context, userID string) (core.MonthlySummary, error) {
	return r.summarize(ctx, userID)
}

func (r *Router) summarize(ctx context.Context, userID string) (core.MonthlySummary, error) {
	transactions, err := r.store.ListTransactions(ctx, userID)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("load transactions: %w", err)
	}
	budgets, err := r.store.ListBudgets(ctx, userID)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("load budgets: %w", err)
	}
	return core.Summarize(userID, transactions, budgets, core.MonthOf(r.now())), nil
}

// deterministicReply substitutes summary fields into the fixed template for
// the intent. The switch is exhaustive over the recognized intents; IntentNone
// never reaches this function.
func deterministicReply(intent core.Intent, s core.MonthlySummary) string {
	switch intent {
	case core.IntentBalance:
		return fmt.Sprintf("Your current balance this month is %s.", s.Balance.Format())
	case core.IntentIncome:
		return fmt.Sprintf("Your total income this month is %s.", s.IncomeTotal.Format())
	case core.IntentExpenses:
		return fmt.Sprintf("Your total expenses this month are %s.", s.ExpenseTotal.Format())
	case core.IntentBudget:
		return fmt.Sprintf("Your planned budget is %s and actual spending is %s.", s.PlannedBudget.Format(), s.ActualBudget.Format())
	default:
		return ""
	}
}

// groundingPrompt embeds the five summary fields as labeled facts so the
// completion service answers with numbers consistent with stored data.
func groundingPrompt(s core.MonthlySummary, message string) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant. Use only the facts below to answer.\n")
	fmt.Fprintf(&b, "Income: %s\n", s.IncomeTotal.Format())
	fmt.Fprintf(&b, "Expenses: %s\n", s.ExpenseTotal.Format())
	fmt.Fprintf(&b, "Balance: %s\n", s.Balance.Format())
	fmt.Fprintf(&b, "Planned Budget: %s\n", s.PlannedBudget.Format())
	fmt.Fprintf(&b, "Actual Budget: %s\n", s.ActualBudget.Format())
	fmt.Fprintf(&b, "User says: %s", message)
	return b.String()
}
