package payoff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/model"
)

// Strategy decides which debt to attack first.
type Strategy string

const (
	// Snowball pays the smallest balance first.
	Snowball Strategy = "snowball"
	// Avalanche pays the highest interest rate first.
	Avalanche Strategy = "avalanche"
)

// ParseStrategy accepts "snowball" or "avalanche" in any case.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case Snowball:
		return Snowball, nil
	case Avalanche:
		return Avalanche, nil
	default:
		return "", fmt.Errorf("unknown payoff strategy %q", s)
	}
}

// Order returns a new slice of debts in payoff order. Ties keep input order.
func Order(debts []model.Debt, strategy Strategy) []model.Debt {
	out := make([]model.Debt, len(debts))
	copy(out, debts)

	sort.SliceStable(out, func(i, j int) bool {
		if strategy == Snowball {
			return out[i].Balance.LessThan(out[j].Balance)
		}
		return out[i].InterestRate.GreaterThan(out[j].InterestRate)
	})
	return out
}

// Summary aggregates a debt list.
type Summary struct {
	Count               int
	TotalBalance        decimal.Decimal
	TotalMinimumPayment decimal.Decimal
	AverageRate         decimal.Decimal // plain mean of annual rates, zero for no debts
}

// Summarize totals balances, minimum payments and the average rate.
func Summarize(debts []model.Debt) Summary {
	s := Summary{
		Count:               len(debts),
		TotalBalance:        decimal.Zero,
		TotalMinimumPayment: decimal.Zero,
		AverageRate:         decimal.Zero,
	}
	if len(debts) == 0 {
		return s
	}

	rates := decimal.Zero
	for _, d := range debts {
		s.TotalBalance = s.TotalBalance.Add(d.Balance)
		s.TotalMinimumPayment = s.TotalMinimumPayment.Add(d.MinimumPayment)
		rates = rates.Add(d.InterestRate)
	}
	s.AverageRate = rates.Div(decimal.NewFromInt(int64(len(debts))))
	return s
}
