package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testDate() time.Time {
	return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func TestSQLiteTransactionCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := core.Transaction{
		UserID:   "alice",
		Date:     testDate(),
		Kind:     core.Expense,
		Category: "Food",
		Amount:   core.Money{Cents: 1250},
	}
	if err := s.CreateTransaction(ctx, &tx); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if tx.ID == 0 {
		t.Fatal("CreateTransaction() did not assign an ID")
	}

	got, err := s.GetTransaction(ctx, "alice", tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.Amount.Cents != 1250 || got.Kind != core.Expense || got.Category != "Food" {
		t.Errorf("GetTransaction() = %+v", got)
	}
	if !got.Date.Equal(tx.Date) {
		t.Errorf("GetTransaction() Date = %v, want %v", got.Date, tx.Date)
	}

	tx.Amount = core.Money{Cents: 2000}
	tx.Category = "Transport"
	if err := s.UpdateTransaction(ctx, &tx); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	got, err = s.GetTransaction(ctx, "alice", tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction() after update error = %v", err)
	}
	if got.Amount.Cents != 2000 || got.Category != "Transport" {
		t.Errorf("after update = %+v", got)
	}

	if err := s.DeleteTransaction(ctx, "alice", tx.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if _, err := s.GetTransaction(ctx, "alice", tx.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTransaction() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteTransactionOwnership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := core.Transaction{UserID: "alice", Date: testDate(), Kind: core.Income, Amount: core.Money{Cents: 500}}
	if err := s.CreateTransaction(ctx, &tx); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if _, err := s.GetTransaction(ctx, "bob", tx.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTransaction() as other user error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteTransaction(ctx, "bob", tx.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTransaction() as other user error = %v, want ErrNotFound", err)
	}

	list, err := s.ListTransactions(ctx, "bob")
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("ListTransactions() for other user = %d records, want 0", len(list))
	}
}

func TestSQLiteCreateTransactionValidates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		tx   core.Transaction
		want error
	}{
		{"missing owner", core.Transaction{Date: testDate(), Kind: core.Expense, Amount: core.Money{Cents: 100}}, core.ErrEmptyOwner},
		{"zero date", core.Transaction{UserID: "alice", Kind: core.Expense, Amount: core.Money{Cents: 100}}, core.ErrZeroDate},
		{"bad kind", core.Transaction{UserID: "alice", Date: testDate(), Kind: "Transfer", Amount: core.Money{Cents: 100}}, core.ErrInvalidKind},
		{"zero amount", core.Transaction{UserID: "alice", Date: testDate(), Kind: core.Expense}, core.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.CreateTransaction(ctx, &tt.tx); !errors.Is(err, tt.want) {
				t.Errorf("CreateTransaction() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSQLiteBudgetCRUDAndRecalculate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := core.Budget{UserID: "alice", Category: "Food", Planned: core.Money{Cents: 50000}}
	if err := s.CreateBudget(ctx, &b); err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}
	if b.ID == 0 {
		t.Fatal("CreateBudget() did not assign an ID")
	}

	for _, cents := range []int64{1200, 800} {
		tx := core.Transaction{UserID: "alice", Date: testDate(), Kind: core.Expense, Category: "Food", Amount: core.Money{Cents: cents}}
		if err := s.CreateTransaction(ctx, &tx); err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}
	// Income and other categories must not count toward the actual.
	income := core.Transaction{UserID: "alice", Date: testDate(), Kind: core.Income, Category: "Food", Amount: core.Money{Cents: 99999}}
	if err := s.CreateTransaction(ctx, &income); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	other := core.Transaction{UserID: "alice", Date: testDate(), Kind: core.Expense, Category: "Transport", Amount: core.Money{Cents: 777}}
	if err := s.CreateTransaction(ctx, &other); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if err := s.RecalculateBudgetActual(ctx, "alice", "Food"); err != nil {
		t.Fatalf("RecalculateBudgetActual() error = %v", err)
	}

	got, err := s.GetBudget(ctx, "alice", b.ID)
	if err != nil {
		t.Fatalf("GetBudget() error = %v", err)
	}
	if got.Actual.Cents != 2000 {
		t.Errorf("Actual = %d, want 2000", got.Actual.Cents)
	}

	got.Planned = core.Money{Cents: 60000}
	if err := s.UpdateBudget(ctx, &got); err != nil {
		t.Fatalf("UpdateBudget() error = %v", err)
	}

	list, err := s.ListBudgets(ctx, "alice")
	if err != nil {
		t.Fatalf("ListBudgets() error = %v", err)
	}
	if len(list) != 1 || list[0].Planned.Cents != 60000 {
		t.Errorf("ListBudgets() = %+v", list)
	}

	if err := s.DeleteBudget(ctx, "alice", b.ID); err != nil {
		t.Fatalf("DeleteBudget() error = %v", err)
	}
	if _, err := s.GetBudget(ctx, "alice", b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBudget() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteRecalculateWithoutBudgetRow(t *testing.T) {
	s := newTestStore(t)
	if err := s.RecalculateBudgetActual(context.Background(), "alice", "Food"); err != nil {
		t.Errorf("RecalculateBudgetActual() with no budget row error = %v", err)
	}
}

func TestSQLiteCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seeded, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(seeded) == 0 {
		t.Fatal("ListCategories() returned no seeded categories")
	}

	c, err := s.CreateCategory(ctx, "Pets")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if c.ID == 0 {
		t.Fatal("CreateCategory() did not assign an ID")
	}

	all, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(all) != len(seeded)+1 {
		t.Errorf("ListCategories() = %d categories, want %d", len(all), len(seeded)+1)
	}

	if err := s.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	if err := s.DeleteCategory(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCategory() twice error = %v, want ErrNotFound", err)
	}
}
