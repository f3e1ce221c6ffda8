package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalCategory classifies savings goals.
type GoalCategory string

const (
	GoalEmergencyFund GoalCategory = "Emergency Fund"
	GoalVacation      GoalCategory = "Vacation"
	GoalInvestment    GoalCategory = "Investment"
	GoalPurchase      GoalCategory = "Purchase"
	GoalOther         GoalCategory = "Other"
)

// GoalCategories returns the goal categories in display order.
func GoalCategories() []GoalCategory {
	return []GoalCategory{GoalEmergencyFund, GoalVacation, GoalInvestment, GoalPurchase, GoalOther}
}

// Goal is a savings target.
type Goal struct {
	ID            string          `yaml:"id"`
	Title         string          `yaml:"title"`
	Description   string          `yaml:"description,omitempty"`
	TargetAmount  decimal.Decimal `yaml:"target_amount"`
	CurrentAmount decimal.Decimal `yaml:"current_amount"`
	TargetDate    time.Time       `yaml:"target_date"`
	Category      GoalCategory    `yaml:"category"`
	CreatedAt     time.Time       `yaml:"created_at"`
}
