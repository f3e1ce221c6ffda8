package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/model"
)

// Totals are the aggregates shown on the dashboard and in reports.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	// Monthly maps "YYYY-MM" to expenses in that month.
	Monthly map[string]decimal.Decimal
	// ByCategory maps a category to its expenses. Income is not counted.
	ByCategory map[model.Category]decimal.Decimal
	Count      int
}

// Net is income minus expenses.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expenses)
}

// SavingsRate is net over income as a percentage, zero without income.
func (t Totals) SavingsRate() decimal.Decimal {
	if !t.Income.IsPositive() {
		return decimal.Zero
	}
	return t.Net().Div(t.Income).Mul(hundred)
}

// Months returns the keys of Monthly in ascending order.
func (t Totals) Months() []string {
	out := make([]string, 0, len(t.Monthly))
	for m := range t.Monthly {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Compute aggregates txns.
func Compute(txns []model.Transaction) Totals {
	t := Totals{
		Income:     decimal.Zero,
		Expenses:   decimal.Zero,
		Monthly:    make(map[string]decimal.Decimal),
		ByCategory: make(map[model.Category]decimal.Decimal),
		Count:      len(txns),
	}
	for _, txn := range txns {
		switch txn.Type {
		case model.TypeIncome:
			t.Income = t.Income.Add(txn.Amount)
		case model.TypeExpense:
			t.Expenses = t.Expenses.Add(txn.Amount)
			m := txn.Month()
			t.Monthly[m] = t.Monthly[m].Add(txn.Amount)
			t.ByCategory[txn.Category] = t.ByCategory[txn.Category].Add(txn.Amount)
		}
	}
	return t
}
