package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtType classifies debts.
type DebtType string

const (
	DebtCreditCard   DebtType = "Credit Card"
	DebtPersonalLoan DebtType = "Personal Loan"
	DebtStudentLoan  DebtType = "Student Loan"
	DebtMortgage     DebtType = "Mortgage"
	DebtOther        DebtType = "Other"
)

// DebtTypes returns the debt types in display order.
func DebtTypes() []DebtType {
	return []DebtType{DebtCreditCard, DebtPersonalLoan, DebtStudentLoan, DebtMortgage, DebtOther}
}

// Debt is an outstanding balance repaid with a fixed monthly payment.
type Debt struct {
	ID             string          `yaml:"id"`
	Creditor       string          `yaml:"creditor"`
	Balance        decimal.Decimal `yaml:"balance"`
	InterestRate   decimal.Decimal `yaml:"interest_rate"` // annual percent, 0-100
	MinimumPayment decimal.Decimal `yaml:"minimum_payment"`
	DueDate        time.Time       `yaml:"due_date"`
	Type           DebtType        `yaml:"type"`
	CreatedAt      time.Time       `yaml:"created_at"`
}
