package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, date, kind, category, amount_cents, attachment_path, attachment_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Date, string(t.Kind), t.Category, t.Amount.Cents, t.AttachmentPath, t.AttachmentText)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("transaction insert id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"user_id", t.UserID,
		"kind", t.Kind,
		"amount_cents", t.Amount.Cents)
	return nil
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, kind, category, amount_cents, attachment_path, attachment_text
		FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return scanTransaction(row)
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, kind, category, amount_cents, attachment_path, attachment_text
		FROM transactions WHERE user_id = ? ORDER BY date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, kind = ?, category = ?, amount_cents = ?, attachment_path = ?, attachment_text = ?
		WHERE id = ? AND user_id = ?`,
		t.Date, string(t.Kind), t.Category, t.Amount.Cents, t.AttachmentPath, t.AttachmentText, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) CreateBudget(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, planned_cents, actual_cents)
		VALUES (?, ?, ?, ?)`,
		b.UserID, b.Category, b.Planned.Cents, b.Actual.Cents)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("budget insert id: %w", err)
	}
	b.ID = id
	return nil
}

func (s *SQLiteStore) GetBudget(ctx context.Context, userID string, id int64) (core.Budget, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, planned_cents, actual_cents
		FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	return scanBudget(row)
}

func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, planned_cents, actual_cents
		FROM budgets WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateBudget(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE budgets SET category = ?, planned_cents = ?, actual_cents = ?
		WHERE id = ? AND user_id = ?`,
		b.Category, b.Planned.Cents, b.Actual.Cents, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteBudget(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) RecalculateBudgetActual(ctx context.Context, userID, category string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE budgets
		SET actual_cents = (
			SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
			WHERE user_id = ? AND category = ? AND kind = 'Expense'
		)
		WHERE user_id = ? AND category = ?`,
		userID, category, userID, category)
	if err != nil {
		return fmt.Errorf("recalculate budget actual: %w", err)
	}

	slog.InfoContext(ctx, "Budget actual recalculated", "user_id", userID, "category", category)
	return nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	if name == "" {
		return core.Category{}, core.ErrEmptyCategory
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	return core.Category{ID: id, Name: name}, nil
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var kind string
	err := row.Scan(&t.ID, &t.UserID, &t.Date, &kind, &t.Category, &t.Amount.Cents, &t.AttachmentPath, &t.AttachmentText)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Kind = core.TransactionKind(kind)
	return t, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var b core.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Planned.Cents, &b.Actual.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	return b, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
