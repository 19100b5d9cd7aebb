// Package worker keeps budget actuals in line with transaction changes
// delivered over AMQP.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
)

// BudgetWorker recalculates a budget's actual spending whenever a transaction
// in its category is created, updated or deleted.
type BudgetWorker struct {
	store storage.Store
}

func NewBudgetWorker(store storage.Store) *BudgetWorker {
	return &BudgetWorker{store: store}
}

// HandleTransactionEvent processes one queued change notification. Events
// without a category touch no budget and are acknowledged without work.
func (w *BudgetWorker) HandleTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"transaction_id", msg.TransactionID,
		"user_id", msg.UserID,
		"category", msg.Category,
		"op", msg.Op)

	if msg.UserID == "" {
		return fmt.Errorf("transaction event missing user id")
	}
	if msg.Category == "" {
		slog.InfoContext(ctx, "Transaction has no category, nothing to recalculate",
			"transaction_id", msg.TransactionID)
		return nil
	}

	if err := w.store.RecalculateBudgetActual(ctx, msg.UserID, msg.Category); err != nil {
		return fmt.Errorf("recalculate budget for %s/%s: %w", msg.UserID, msg.Category, err)
	}
	return nil
}

// ReconcileUser recomputes actuals for every budget the user has. Used at
// worker startup to recover from missed events.
func (w *BudgetWorker) ReconcileUser(ctx context.Context, userID string) error {
	budgets, err := w.store.ListBudgets(ctx, userID)
	if err != nil {
		return fmt.Errorf("list budgets for reconcile: %w", err)
	}

	for _, b := range budgets {
		if err := w.store.RecalculateBudgetActual(ctx, userID, b.Category); err != nil {
			slog.ErrorContext(ctx, "Failed to reconcile budget",
				"user_id", userID,
				"category", b.Category,
				"error", err)
			continue
		}
	}

	slog.InfoContext(ctx, "Reconciled budgets", "user_id", userID, "count", len(budgets))
	return nil
}
