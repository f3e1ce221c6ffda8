package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/model"
)

// Rule names a ledger invariant.
type Rule string

const (
	RuleAmount      Rule = "amount"
	RuleCategory    Rule = "category"
	RuleType        Rule = "type"
	RuleID          Rule = "id"
	RuleDescription Rule = "description"
	RuleDate        Rule = "date"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Rule          Rule
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.TransactionID, e.Description)
}

// ValidationErrors joins several violations into one error.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, ve := range v {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var hundred = decimal.NewFromInt(100)

// Validate checks every transaction of a collection before it is saved.
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(txns))

	for _, t := range txns {
		add := func(rule Rule, format string, args ...any) {
			errs = append(errs, ValidationError{Rule: rule, TransactionID: t.ID, Description: fmt.Sprintf(format, args...)})
		}

		if strings.TrimSpace(t.ID) == "" {
			add(RuleID, "missing id")
		} else if seen[t.ID] {
			add(RuleID, "duplicate id")
		}
		seen[t.ID] = true

		if t.Amount.IsNegative() {
			add(RuleAmount, "amount %s is negative", t.Amount)
		} else if t.Amount.IsZero() {
			add(RuleAmount, "amount is zero")
		}
		if scaled := t.Amount.Mul(hundred); !scaled.Equal(scaled.Floor()) {
			add(RuleAmount, "amount %s has more than 2 decimal places", t.Amount)
		}

		if _, ok := model.LookupCategory(string(t.Category)); !ok {
			add(RuleCategory, "unknown category %q", t.Category)
		}
		if !t.Type.Valid() {
			add(RuleType, "unknown type %q", t.Type)
		}
		if strings.TrimSpace(t.Description) == "" {
			add(RuleDescription, "missing description")
		}
		if t.Date.IsZero() {
			add(RuleDate, "missing date")
		}
	}
	return errs
}
