package bot

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/ai"
	"fintrack/internal/chat"
	"fintrack/internal/core"
)

func TestReplyText(t *testing.T) {
	cases := []struct {
		name     string
		exchange core.ChatExchange
		err      error
		want     string
	}{
		{
			name:     "success",
			exchange: core.ChatExchange{Reply: "Your current balance this month is $10.00."},
			want:     "Your current balance this month is $10.00.",
		},
		{
			name: "empty message",
			err:  chat.ErrEmptyMessage,
			want: "Please send me a question about your finances.",
		},
		{
			name: "upstream failure",
			err:  &ai.UpstreamError{Status: 503},
			want: "The assistant is unavailable right now. Please try again later.",
		},
		{
			name: "other failure",
			err:  errors.New("db down"),
			want: "Something went wrong. Please try again.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := replyText(tc.exchange, tc.err); got != tc.want {
				t.Errorf("replyText() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatSummary(t *testing.T) {
	s := core.MonthlySummary{
		Window:        core.MonthWindow{Year: 2026, Month: time.March},
		IncomeTotal:   core.Money{Cents: 100000},
		ExpenseTotal:  core.Money{Cents: 120000},
		Balance:       core.Money{Cents: -20000},
		PlannedBudget: core.Money{Cents: 50000},
		ActualBudget:  core.Money{Cents: 60000},
		Overspend:     core.Money{Cents: 10000},
	}

	got := formatSummary(s)

	for _, want := range []string{
		"March 2026",
		"Income: $1,000.00",
		"Expenses: $1,200.00",
		"Balance: -$200.00",
		"Planned budget: $500.00",
		"Actual budget: $600.00",
		"Your balance this month is -$200.00.",
		"You are over budget by $100.00.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatSummary() missing %q:\n%s", want, got)
		}
	}
}
