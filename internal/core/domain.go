package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionKind = "Income"
	Expense TransactionKind = "Expense"
)

type (
	TransactionKind string

	Money struct {
		Cents int64
	}

	// Transaction is a single dated income or expense record owned by one user.
	Transaction struct {
		ID             int64
		UserID         string
		Date           time.Time
		Kind           TransactionKind
		Category       string // optional
		Amount         Money
		AttachmentPath string // optional, set by the upload handler
		AttachmentText string // optional, extracted from PDF receipts
	}

	// Budget carries a user's planned and actual spending for one category.
	// Budgets are not date-scoped.
	Budget struct {
		ID       int64
		UserID   string
		Category string
		Planned  Money
		Actual   Money
	}

	Category struct {
		ID   int64
		Name string
	}

	// ChatExchange is a single question/answer pair. It is never persisted.
	ChatExchange struct {
		UserMessage string
		Reply       string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrZeroDate      = errors.New("date cannot be zero")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyOwner    = errors.New("empty user id")
)

// MonthWindow is a calendar month used to scope transaction aggregation.
type MonthWindow struct {
	Year  int
	Month time.Month
}

// MonthOf returns the window containing t.
func MonthOf(t time.Time) MonthWindow {
	return MonthWindow{Year: t.Year(), Month: t.Month()}
}

// Start returns the first instant of the window in UTC.
func (w MonthWindow) Start() time.Time {
	return time.Date(w.Year, w.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month.
func (w MonthWindow) End() time.Time {
	return w.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the calendar month. The comparison
// looks at year and month only, so records stored with a wall-clock zone still
// land in the month the user wrote them.
func (w MonthWindow) Contains(t time.Time) bool {
	return t.Year() == w.Year && t.Month() == w.Month
}

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyOwner
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Planned.Validate(); err != nil {
		return err
	}
	return b.Actual.Validate()
}
