package payoff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetflow/budgetflow/internal/model"
)

func sampleDebts() []model.Debt {
	return []model.Debt{
		{ID: "card", Balance: decimal.NewFromInt(3200), InterestRate: decimal.RequireFromString("18.99"), MinimumPayment: decimal.NewFromInt(95)},
		{ID: "student", Balance: decimal.NewFromInt(12500), InterestRate: decimal.RequireFromString("4.5"), MinimumPayment: decimal.NewFromInt(150)},
		{ID: "store", Balance: decimal.NewFromInt(800), InterestRate: decimal.RequireFromString("24.99"), MinimumPayment: decimal.NewFromInt(40)},
		{ID: "car", Balance: decimal.NewFromInt(800), InterestRate: decimal.RequireFromString("6"), MinimumPayment: decimal.NewFromInt(120)},
	}
}

func ids(debts []model.Debt) []string {
	out := make([]string, len(debts))
	for i, d := range debts {
		out[i] = d.ID
	}
	return out
}

func TestOrder_Snowball(t *testing.T) {
	debts := sampleDebts()
	got := Order(debts, Snowball)
	assert.Equal(t, []string{"store", "car", "card", "student"}, ids(got))
	// Input untouched.
	assert.Equal(t, []string{"card", "student", "store", "car"}, ids(debts))
}

func TestOrder_Avalanche(t *testing.T) {
	got := Order(sampleDebts(), Avalanche)
	assert.Equal(t, []string{"store", "card", "car", "student"}, ids(got))
}

func TestOrder_Empty(t *testing.T) {
	assert.Empty(t, Order(nil, Snowball))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("Snowball")
	require.NoError(t, err)
	assert.Equal(t, Snowball, s)

	s, err = ParseStrategy("AVALANCHE")
	require.NoError(t, err)
	assert.Equal(t, Avalanche, s)

	_, err = ParseStrategy("fastest")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleDebts())
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, "17300.00", s.TotalBalance.StringFixed(2))
	assert.Equal(t, "405.00", s.TotalMinimumPayment.StringFixed(2))
	// (18.99 + 4.5 + 24.99 + 6) / 4 = 13.62
	assert.Equal(t, "13.62", s.AverageRate.StringFixed(2))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.True(t, s.TotalBalance.IsZero())
	assert.True(t, s.AverageRate.IsZero())
}
