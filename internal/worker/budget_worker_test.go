package worker

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type fakeBudgetStore struct {
	storage.Store

	budgets     []core.Budget
	recalcCalls []string
	recalcErr   error
}

func (f *fakeBudgetStore) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	return f.budgets, nil
}

func (f *fakeBudgetStore) RecalculateBudgetActual(ctx context.Context, userID, category string) error {
	f.recalcCalls = append(f.recalcCalls, userID+"/"+category)
	return f.recalcErr
}

func TestHandleTransactionEvent(t *testing.T) {
	store := &fakeBudgetStore{}
	w := NewBudgetWorker(store)

	msg := amqp.NewTransactionEventMessage(1, "alice", "Food", amqp.OpCreated)
	if err := w.HandleTransactionEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleTransactionEvent() error = %v", err)
	}
	if len(store.recalcCalls) != 1 || store.recalcCalls[0] != "alice/Food" {
		t.Errorf("recalc calls = %v", store.recalcCalls)
	}
}

func TestHandleTransactionEventNoCategory(t *testing.T) {
	store := &fakeBudgetStore{}
	w := NewBudgetWorker(store)

	msg := amqp.NewTransactionEventMessage(1, "alice", "", amqp.OpUpdated)
	if err := w.HandleTransactionEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleTransactionEvent() error = %v", err)
	}
	if len(store.recalcCalls) != 0 {
		t.Errorf("recalc calls = %v, want none", store.recalcCalls)
	}
}

func TestHandleTransactionEventMissingUser(t *testing.T) {
	w := NewBudgetWorker(&fakeBudgetStore{})

	msg := amqp.NewTransactionEventMessage(1, "", "Food", amqp.OpCreated)
	if err := w.HandleTransactionEvent(context.Background(), msg); err == nil {
		t.Error("HandleTransactionEvent() error = nil, want missing user error")
	}
}

func TestHandleTransactionEventStoreFailure(t *testing.T) {
	store := &fakeBudgetStore{recalcErr: errors.New("db down")}
	w := NewBudgetWorker(store)

	msg := amqp.NewTransactionEventMessage(1, "alice", "Food", amqp.OpDeleted)
	if err := w.HandleTransactionEvent(context.Background(), msg); err == nil {
		t.Error("HandleTransactionEvent() error = nil, want store error")
	}
}

func TestReconcileUser(t *testing.T) {
	store := &fakeBudgetStore{
		budgets: []core.Budget{
			{UserID: "alice", Category: "Food"},
			{UserID: "alice", Category: "Transport"},
		},
	}
	w := NewBudgetWorker(store)

	if err := w.ReconcileUser(context.Background(), "alice"); err != nil {
		t.Fatalf("ReconcileUser() error = %v", err)
	}
	if len(store.recalcCalls) != 2 {
		t.Errorf("recalc calls = %v, want 2", store.recalcCalls)
	}
}
