// Package payoff computes how long a fixed monthly payment takes to clear a
// balance under monthly-compounded interest.
package payoff

import (
	"fmt"
	"math"

	"github.com/budgetflow/budgetflow/internal/model"
)

// Result is either Finite or Unreachable.
type Result interface {
	isResult()
}

// Finite is a payoff that completes after Months payments.
type Finite struct {
	Months        int
	TotalInterest float64
	TotalPayment  float64
}

// Unreachable means the payment never clears the balance.
type Unreachable struct {
	Reason string
}

func (Finite) isResult()      {}
func (Unreachable) isResult() {}

func (u Unreachable) String() string {
	return "never: " + u.Reason
}

func (f Finite) String() string {
	return fmt.Sprintf("%d months, %.2f interest, %.2f total", f.Months, f.TotalInterest, f.TotalPayment)
}

// Reasons reported by Unreachable.
const (
	ReasonNoPayment     = "monthly payment is not positive"
	ReasonBelowInterest = "monthly payment does not cover interest"
	ReasonTooLong       = "payoff takes longer than can be counted"
)

// maxMonths bounds Finite.Months.
const maxMonths = math.MaxInt32

// Calculate returns the payoff for balance at annualRatePercent with a fixed
// monthlyPayment. Months is the smallest n with the amortized balance <= 0.
// A balance of zero or less is already paid off and yields a zero Finite.
func Calculate(balance, annualRatePercent, monthlyPayment float64) Result {
	monthlyRate := annualRatePercent / 100 / 12

	if monthlyPayment <= 0 {
		return Unreachable{Reason: ReasonNoPayment}
	}
	if balance <= 0 {
		return Finite{}
	}

	if monthlyRate == 0 {
		return finite(balance, monthlyPayment, math.Ceil(balance/monthlyPayment))
	}

	if monthlyPayment <= balance*monthlyRate {
		return Unreachable{Reason: ReasonBelowInterest}
	}

	monthsExact := -math.Log(1-monthlyRate*balance/monthlyPayment) / math.Log(1+monthlyRate)
	return finite(balance, monthlyPayment, math.Ceil(monthsExact))
}

func finite(balance, payment, months float64) Result {
	if !(months <= maxMonths) {
		return Unreachable{Reason: ReasonTooLong}
	}
	total := months * payment
	return Finite{
		Months:        int(months),
		TotalInterest: math.Max(0, total-balance),
		TotalPayment:  total,
	}
}

// ForDebt computes the payoff of d at its minimum payment.
func ForDebt(d model.Debt) Result {
	return Calculate(
		d.Balance.InexactFloat64(),
		d.InterestRate.InexactFloat64(),
		d.MinimumPayment.InexactFloat64(),
	)
}
