package core

import (
	"regexp"
	"strings"
)

// Intent classifies a financial question so the router can decide between a
// deterministic answer and delegation to the completion service. The set is
// closed: template selection switches exhaustively over it.
type Intent int

const (
	IntentNone Intent = iota
	IntentBalance
	IntentIncome
	IntentExpenses
	IntentBudget
)

func (i Intent) String() string {
	switch i {
	case IntentBalance:
		return "balance"
	case IntentIncome:
		return "income"
	case IntentExpenses:
		return "expenses"
	case IntentBudget:
		return "budget"
	default:
		return "none"
	}
}

// Explanation questions always go to the completion service: they need
// reasoning, not a number lookup.
var explanationTriggers = []string{"why", "explain", "reason", "how come"}

// A message must ask for an amount before any topic keyword is considered.
var amountTriggers = []string{"how much", "total", "what is", "what's"}

// Topic patterns use word boundaries so "planning" does not match "plan" and
// "costume" does not match "cost". Checked in priority order.
var topicPatterns = []struct {
	re     *regexp.Regexp
	intent Intent
}{
	{regexp.MustCompile(`\b(balance|remaining|left|net)\b`), IntentBalance},
	{regexp.MustCompile(`\b(income|earnings|salary|earned)\b`), IntentIncome},
	{regexp.MustCompile(`\b(expense|expenses|spend|spent|cost|costs)\b`), IntentExpenses},
	{regexp.MustCompile(`\b(budget|planned|plan)\b`), IntentBudget},
}

// ClassifyIntent maps a free-text question to an Intent. Case-insensitive,
// deterministic, first match wins. IntentNone signals "delegate to the
// completion service".
func ClassifyIntent(message string) Intent {
	message = strings.ToLower(strings.TrimSpace(message))
	if message == "" {
		return IntentNone
	}

	for _, t := range explanationTriggers {
		if strings.Contains(message, t) {
			return IntentNone
		}
	}

	asksAmount := false
	for _, t := range amountTriggers {
		if strings.Contains(message, t) {
			asksAmount = true
			break
		}
	}
	if !asksAmount {
		return IntentNone
	}

	for _, p := range topicPatterns {
		if p.re.MatchString(message) {
			return p.intent
		}
	}
	return IntentNone
}
