// Package report builds the period summary exported as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/ledger"
	"github.com/budgetflow/budgetflow/internal/model"
	"github.com/budgetflow/budgetflow/internal/payoff"
)

// Period selects which transactions a report covers.
type Period string

const (
	PeriodAll    Period = "all"
	PeriodYTD    Period = "ytd"
	PeriodLast12 Period = "last12"
	PeriodLast30 Period = "last30"
)

// Periods returns the accepted periods.
func Periods() []Period {
	return []Period{PeriodAll, PeriodYTD, PeriodLast12, PeriodLast30}
}

// ParsePeriod accepts a period name in any case.
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods() {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown report period %q", s)
}

// Cutoff returns the first calendar day included in the period, or the zero
// time for PeriodAll.
func (p Period) Cutoff(now time.Time) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch p {
	case PeriodYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case PeriodLast12:
		return today.AddDate(0, -12, 0)
	case PeriodLast30:
		return today.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// Report is the exported summary.
type Report struct {
	Period            Period                             `json:"period"`
	DateGenerated     time.Time                          `json:"dateGenerated"`
	Summary           Summary                            `json:"summary"`
	Goals             Goals                              `json:"goals"`
	Debts             Debts                              `json:"debts"`
	CategoryBreakdown map[model.Category]decimal.Decimal `json:"categoryBreakdown"`
}

type Summary struct {
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	NetIncome         decimal.Decimal `json:"netIncome"`
	SavingsRate       decimal.Decimal `json:"savingsRate"`
	TotalTransactions int             `json:"totalTransactions"`
}

type Goals struct {
	TotalGoals         int             `json:"totalGoals"`
	TotalTarget        decimal.Decimal `json:"totalTarget"`
	TotalProgress      decimal.Decimal `json:"totalProgress"`
	ProgressPercentage decimal.Decimal `json:"progressPercentage"`
}

type Debts struct {
	TotalDebts           int             `json:"totalDebts"`
	TotalBalance         decimal.Decimal `json:"totalBalance"`
	TotalMinimumPayments decimal.Decimal `json:"totalMinimumPayments"`
}

var hundred = decimal.NewFromInt(100)

// Build summarizes the transactions inside period together with every goal
// and debt. Goals and debts are not filtered by period.
func Build(period Period, now time.Time, txns []model.Transaction, goals []model.Goal, debts []model.Debt) Report {
	totals := ledger.Compute(ledger.Filter{Start: period.Cutoff(now)}.Apply(txns))

	r := Report{
		Period:        period,
		DateGenerated: now.UTC(),
		Summary: Summary{
			TotalIncome:       totals.Income,
			TotalExpenses:     totals.Expenses,
			NetIncome:         totals.Net(),
			SavingsRate:       totals.SavingsRate().Round(2),
			TotalTransactions: totals.Count,
		},
		CategoryBreakdown: totals.ByCategory,
	}

	r.Goals = Goals{
		TotalGoals:         len(goals),
		TotalTarget:        decimal.Zero,
		TotalProgress:      decimal.Zero,
		ProgressPercentage: decimal.Zero,
	}
	for _, g := range goals {
		r.Goals.TotalTarget = r.Goals.TotalTarget.Add(g.TargetAmount)
		r.Goals.TotalProgress = r.Goals.TotalProgress.Add(g.CurrentAmount)
	}
	if r.Goals.TotalTarget.IsPositive() {
		r.Goals.ProgressPercentage = r.Goals.TotalProgress.Div(r.Goals.TotalTarget).Mul(hundred).Round(2)
	}

	sum := payoff.Summarize(debts)
	r.Debts = Debts{
		TotalDebts:           sum.Count,
		TotalBalance:         sum.TotalBalance,
		TotalMinimumPayments: sum.TotalMinimumPayment,
	}
	return r
}

// FileName is the default export name, e.g. "budget-report-ytd-2024-05-01.json".
func FileName(period Period, now time.Time) string {
	return fmt.Sprintf("budget-report-%s-%s.json", period, now.UTC().Format(model.DateFormat))
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
