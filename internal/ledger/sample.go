package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/model"
)

// SampleTransactions returns the starter data written for a new user.
func SampleTransactions() []model.Transaction {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return []model.Transaction{
		{ID: "1", Date: day(15), Description: "Salary Payment", Amount: decimal.NewFromInt(5000), Category: model.CategorySalary, Type: model.TypeIncome},
		{ID: "2", Date: day(16), Description: "Grocery Shopping", Amount: decimal.RequireFromString("125.50"), Category: model.CategoryFood, Type: model.TypeExpense},
		{ID: "3", Date: day(17), Description: "Gas Station", Amount: decimal.RequireFromString("65.00"), Category: model.CategoryTransport, Type: model.TypeExpense},
		{ID: "4", Date: day(18), Description: "Netflix Subscription", Amount: decimal.RequireFromString("15.99"), Category: model.CategoryEntertainment, Type: model.TypeExpense},
	}
}
