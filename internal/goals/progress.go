package goals

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Progress describes how far a goal is from its target.
type Progress struct {
	Percent       decimal.Decimal // 0..100
	Remaining     decimal.Decimal // never negative
	DaysRemaining int             // negative once the target date has passed
	Completed     bool
	Overdue       bool
}

// ProgressOf computes g's progress as of now.
func ProgressOf(g model.Goal, now time.Time) Progress {
	p := Progress{Percent: decimal.Zero, Remaining: decimal.Zero}

	if g.TargetAmount.IsPositive() {
		p.Percent = decimal.Min(g.CurrentAmount.Div(g.TargetAmount).Mul(hundred), hundred)
	} else {
		p.Percent = hundred
	}
	if left := g.TargetAmount.Sub(g.CurrentAmount); left.IsPositive() {
		p.Remaining = left
	}

	p.DaysRemaining = model.DaysUntil(g.TargetDate, now)
	p.Completed = p.Percent.GreaterThanOrEqual(hundred)
	p.Overdue = p.DaysRemaining < 0 && !p.Completed
	return p
}
