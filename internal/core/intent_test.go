package core

import "testing"

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"empty", "", IntentNone},
		{"whitespace only", "   ", IntentNone},
		{"greeting", "hello", IntentNone},
		{"balance question", "what is my balance", IntentBalance},
		{"balance uppercase", "WHAT IS MY BALANCE", IntentBalance},
		{"balance contraction", "what's my balance?", IntentBalance},
		{"remaining synonym", "how much do I have remaining", IntentBalance},
		{"net synonym", "what is my net this month", IntentBalance},
		{"income question", "how much income did I get", IntentIncome},
		{"salary synonym", "what is my salary total", IntentIncome},
		{"expense question", "how much did I spend", IntentExpenses},
		{"spent past tense", "total spent this month", IntentExpenses},
		{"cost synonym", "what is the cost so far", IntentExpenses},
		{"budget question", "what is my budget", IntentBudget},
		{"planned synonym", "how much have I planned", IntentBudget},
		{"explanation beats topic", "why is my balance low", IntentNone},
		{"explain trigger", "explain my expenses", IntentNone},
		{"how come trigger", "how come my total budget is gone", IntentNone},
		{"reason trigger", "what is the reason my balance dropped", IntentNone},
		{"topic without amount trigger", "my balance", IntentNone},
		{"amount trigger without topic", "how much did I walk today", IntentNone},
		{"word boundary plan", "what is my planning doc", IntentNone},
		{"word boundary cost", "what is the costume total", IntentNone},
		{"balance wins over budget", "what is my balance versus budget", IntentBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntent(tt.message); got != tt.want {
				t.Errorf("ClassifyIntent(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestIntentString(t *testing.T) {
	tests := []struct {
		intent Intent
		want   string
	}{
		{IntentNone, "none"},
		{IntentBalance, "balance"},
		{IntentIncome, "income"},
		{IntentExpenses, "expenses"},
		{IntentBudget, "budget"},
		{Intent(99), "none"},
	}

	for _, tt := range tests {
		if got := tt.intent.String(); got != tt.want {
			t.Errorf("Intent(%d).String() = %q, want %q", tt.intent, got, tt.want)
		}
	}
}
