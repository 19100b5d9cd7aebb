package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	date TIMESTAMPTZ NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('Income', 'Expense')),
	category TEXT NOT NULL DEFAULT '',
	amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
	attachment_path TEXT NOT NULL DEFAULT '',
	attachment_text TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date);

CREATE TABLE IF NOT EXISTS budgets (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	category TEXT NOT NULL,
	planned_cents BIGINT NOT NULL DEFAULT 0 CHECK (planned_cents >= 0),
	actual_cents BIGINT NOT NULL DEFAULT 0 CHECK (actual_cents >= 0),
	UNIQUE (user_id, category)
);
CREATE INDEX IF NOT EXISTS idx_budgets_user ON budgets (user_id);

CREATE TABLE IF NOT EXISTS categories (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply postgres schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, date, kind, category, amount_cents, attachment_path, attachment_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		t.UserID, t.Date, string(t.Kind), t.Category, t.Amount.Cents, t.AttachmentPath, t.AttachmentText).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"user_id", t.UserID,
		"kind", t.Kind,
		"amount_cents", t.Amount.Cents)
	return nil
}

func (s *PostgresStore) GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	var t core.Transaction
	var kind string
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, date, kind, category, amount_cents, attachment_path, attachment_text
		FROM transactions WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&t.ID, &t.UserID, &t.Date, &kind, &t.Category, &t.Amount.Cents, &t.AttachmentPath, &t.AttachmentText)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t.Kind = core.TransactionKind(kind)
	return t, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, date, kind, category, amount_cents, attachment_path, attachment_text
		FROM transactions WHERE user_id = $1 ORDER BY date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var kind string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &kind, &t.Category, &t.Amount.Cents, &t.AttachmentPath, &t.AttachmentText); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.TransactionKind(kind)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateTransaction(ctx context.Context, t *core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE transactions
		SET date = $1, kind = $2, category = $3, amount_cents = $4, attachment_path = $5, attachment_text = $6
		WHERE id = $7 AND user_id = $8`,
		t.Date, string(t.Kind), t.Category, t.Amount.Cents, t.AttachmentPath, t.AttachmentText, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTransaction(ctx context.Context, userID string, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateBudget(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category, planned_cents, actual_cents)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		b.UserID, b.Category, b.Planned.Cents, b.Actual.Cents).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetBudget(ctx context.Context, userID string, id int64) (core.Budget, error) {
	var b core.Budget
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, category, planned_cents, actual_cents
		FROM budgets WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&b.ID, &b.UserID, &b.Category, &b.Planned.Cents, &b.Actual.Cents)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, category, planned_cents, actual_cents
		FROM budgets WHERE user_id = $1 ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Planned.Cents, &b.Actual.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateBudget(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE budgets SET category = $1, planned_cents = $2, actual_cents = $3
		WHERE id = $4 AND user_id = $5`,
		b.Category, b.Planned.Cents, b.Actual.Cents, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteBudget(ctx context.Context, userID string, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RecalculateBudgetActual(ctx context.Context, userID, category string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE budgets
		SET actual_cents = (
			SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
			WHERE user_id = $1 AND category = $2 AND kind = 'Expense'
		)
		WHERE user_id = $1 AND category = $2`,
		userID, category)
	if err != nil {
		return fmt.Errorf("recalculate budget actual: %w", err)
	}

	slog.InfoContext(ctx, "Budget actual recalculated", "user_id", userID, "category", category)
	return nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
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

func (s *PostgresStore) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	if name == "" {
		return core.Category{}, core.ErrEmptyCategory
	}

	var c core.Category
	err := s.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.Name = name
	return c, nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
