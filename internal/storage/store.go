// Package storage provides the persistence backends for transactions, budgets
// and categories. All backends implement Store; the active one is selected by
// configuration at startup.
package storage

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrNotFound is returned when a record does not exist or is owned by a
// different user. Callers map it to a 404.
var ErrNotFound = errors.New("record not found")

// Store is the persistence contract shared by all backends. Every method that
// takes a userID scopes its work to that user's records.
type Store interface {
	CreateTransaction(ctx context.Context, t *core.Transaction) error
	GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t *core.Transaction) error
	DeleteTransaction(ctx context.Context, userID string, id int64) error

	CreateBudget(ctx context.Context, b *core.Budget) error
	GetBudget(ctx context.Context, userID string, id int64) (core.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, b *core.Budget) error
	DeleteBudget(ctx context.Context, userID string, id int64) error

	// RecalculateBudgetActual resets the actual spending of the user's budget
	// for category to the sum of their expense transactions in that category.
	// A missing budget row is not an error.
	RecalculateBudgetActual(ctx context.Context, userID, category string) error

	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateCategory(ctx context.Context, name string) (core.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	Close() error
}
