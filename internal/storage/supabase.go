package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/supabase-community/supabase-go"

	"fintrack/internal/core"
)

// SupabaseStore persists records through the Supabase REST API. Row types
// mirror the remote table columns; cents travel as integers.
type SupabaseStore struct {
	client *supabase.Client
}

type transactionRow struct {
	ID             int64     `json:"id,omitempty"`
	UserID         string    `json:"user_id"`
	Date           time.Time `json:"date"`
	Kind           string    `json:"kind"`
	Category       string    `json:"category"`
	AmountCents    int64     `json:"amount_cents"`
	AttachmentPath string    `json:"attachment_path"`
	AttachmentText string    `json:"attachment_text"`
}

type budgetRow struct {
	ID           int64  `json:"id,omitempty"`
	UserID       string `json:"user_id"`
	Category     string `json:"category"`
	PlannedCents int64  `json:"planned_cents"`
	ActualCents  int64  `json:"actual_cents"`
}

type categoryRow struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

func (s *SupabaseStore) Close() error {
	return nil
}

func (s *SupabaseStore) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	row := transactionRow{
		UserID:         t.UserID,
		Date:           t.Date,
		Kind:           string(t.Kind),
		Category:       t.Category,
		AmountCents:    t.Amount.Cents,
		AttachmentPath: t.AttachmentPath,
		AttachmentText: t.AttachmentText,
	}
	data, _, err := s.client.From("transactions").Insert(row, true, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	var created []transactionRow
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("parse created transaction: %w", err)
	}
	if len(created) > 0 {
		t.ID = created[0].ID
	}
	return nil
}

func (s *SupabaseStore) GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	data, _, err := s.client.From("transactions").
		Select("*", "", false).
		Eq("id", strconv.FormatInt(id, 10)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	var rows []transactionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction: %w", err)
	}
	if len(rows) == 0 {
		return core.Transaction{}, ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func (s *SupabaseStore) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	data, _, err := s.client.From("transactions").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("date.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var rows []transactionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse transactions: %w", err)
	}

	out := make([]core.Transaction, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *SupabaseStore) UpdateTransaction(ctx context.Context, t *core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	row := transactionRow{
		UserID:         t.UserID,
		Date:           t.Date,
		Kind:           string(t.Kind),
		Category:       t.Category,
		AmountCents:    t.Amount.Cents,
		AttachmentPath: t.AttachmentPath,
		AttachmentText: t.AttachmentText,
	}
	data, _, err := s.client.From("transactions").
		Update(row, "", "").
		Eq("id", strconv.FormatInt(t.ID, 10)).
		Eq("user_id", t.UserID).
		Execute()
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRows(data)
}

func (s *SupabaseStore) DeleteTransaction(ctx context.Context, userID string, id int64) error {
	data, _, err := s.client.From("transactions").
		Delete("", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRows(data)
}

func (s *SupabaseStore) CreateBudget(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	row := budgetRow{
		UserID:       b.UserID,
		Category:     b.Category,
		PlannedCents: b.Planned.Cents,
		ActualCents:  b.Actual.Cents,
	}
	data, _, err := s.client.From("budgets").Insert(row, true, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}

	var created []budgetRow
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("parse created budget: %w", err)
	}
	if len(created) > 0 {
		b.ID = created[0].ID
	}
	return nil
}

func (s *SupabaseStore) GetBudget(ctx context.Context, userID string, id int64) (core.Budget, error) {
	data, _, err := s.client.From("budgets").
		Select("*", "", false).
		Eq("id", strconv.FormatInt(id, 10)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}

	var rows []budgetRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return core.Budget{}, fmt.Errorf("parse budget: %w", err)
	}
	if len(rows) == 0 {
		return core.Budget{}, ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func (s *SupabaseStore) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	data, _, err := s.client.From("budgets").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("category.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	var rows []budgetRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse budgets: %w", err)
	}

	out := make([]core.Budget, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *SupabaseStore) UpdateBudget(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	row := budgetRow{
		UserID:       b.UserID,
		Category:     b.Category,
		PlannedCents: b.Planned.Cents,
		ActualCents:  b.Actual.Cents,
	}
	data, _, err := s.client.From("budgets").
		Update(row, "", "").
		Eq("id", strconv.FormatInt(b.ID, 10)).
		Eq("user_id", b.UserID).
		Execute()
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRows(data)
}

func (s *SupabaseStore) DeleteBudget(ctx context.Context, userID string, id int64) error {
	data, _, err := s.client.From("budgets").
		Delete("", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRows(data)
}

func (s *SupabaseStore) RecalculateBudgetActual(ctx context.Context, userID, category string) error {
	transactions, err := s.ListTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("recalculate budget actual: %w", err)
	}

	var total int64
	for _, t := range transactions {
		if t.Kind == core.Expense && t.Category == category {
			total += t.Amount.Cents
		}
	}

	_, _, err = s.client.From("budgets").
		Update(map[string]any{"actual_cents": total}, "", "").
		Eq("user_id", userID).
		Eq("category", category).
		Execute()
	if err != nil {
		return fmt.Errorf("recalculate budget actual: %w", err)
	}
	return nil
}

func (s *SupabaseStore) ListCategories(ctx context.Context) ([]core.Category, error) {
	data, _, err := s.client.From("categories").
		Select("*", "", false).
		Order("name.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var rows []categoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}

	out := make([]core.Category, len(rows))
	for i, r := range rows {
		out[i] = core.Category{ID: r.ID, Name: r.Name}
	}
	return out, nil
}

func (s *SupabaseStore) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	if name == "" {
		return core.Category{}, core.ErrEmptyCategory
	}

	data, _, err := s.client.From("categories").Insert(categoryRow{Name: name}, true, "", "", "").Execute()
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	var created []categoryRow
	if err := json.Unmarshal(data, &created); err != nil {
		return core.Category{}, fmt.Errorf("parse created category: %w", err)
	}
	if len(created) == 0 {
		return core.Category{}, fmt.Errorf("insert category: empty response")
	}
	return core.Category{ID: created[0].ID, Name: name}, nil
}

func (s *SupabaseStore) DeleteCategory(ctx context.Context, id int64) error {
	data, _, err := s.client.From("categories").
		Delete("", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRows(data)
}

func (r transactionRow) toDomain() core.Transaction {
	return core.Transaction{
		ID:             r.ID,
		UserID:         r.UserID,
		Date:           r.Date,
		Kind:           core.TransactionKind(r.Kind),
		Category:       r.Category,
		Amount:         core.Money{Cents: r.AmountCents},
		AttachmentPath: r.AttachmentPath,
		AttachmentText: r.AttachmentText,
	}
}

func (r budgetRow) toDomain() core.Budget {
	return core.Budget{
		ID:       r.ID,
		UserID:   r.UserID,
		Category: r.Category,
		Planned:  core.Money{Cents: r.PlannedCents},
		Actual:   core.Money{Cents: r.ActualCents},
	}
}

// requireRows maps an empty PostgREST response body to ErrNotFound.
func requireRows(data []byte) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}
