package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/model"
)

// TransactionInput is a manually entered transaction as typed by the user.
type TransactionInput struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required,max=200"`
	Amount      string `json:"amount" validate:"required,money_positive"`
	Category    string `json:"category" validate:"required,category"`
	Type        string `json:"type" validate:"required,txn_type"`
}

// Transaction validates in and converts it. The id is left empty.
func (v *Validator) Transaction(in TransactionInput) (model.Transaction, error) {
	if err := v.Struct(in); err != nil {
		return model.Transaction{}, err
	}
	return model.Transaction{
		Date:        mustDate(in.Date),
		Description: strings.TrimSpace(in.Description),
		Amount:      mustMoney(in.Amount),
		Category:    model.ValidateCategory(in.Category),
		Type:        model.TransactionType(strings.ToLower(in.Type)),
	}, nil
}

// GoalInput is a new savings goal.
type GoalInput struct {
	Title         string `json:"title" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=500"`
	TargetAmount  string `json:"target_amount" validate:"required,money_positive"`
	CurrentAmount string `json:"current_amount" validate:"omitempty,money_nonneg"`
	TargetDate    string `json:"target_date" validate:"required,datetime=2006-01-02"`
	Category      string `json:"category" validate:"required,goal_category"`
}

// Goal validates in and converts it.
func (v *Validator) Goal(in GoalInput) (model.Goal, error) {
	if err := v.Struct(in); err != nil {
		return model.Goal{}, err
	}
	current := decimal.Zero
	if in.CurrentAmount != "" {
		current = mustMoney(in.CurrentAmount)
	}
	return model.Goal{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		TargetAmount:  mustMoney(in.TargetAmount),
		CurrentAmount: current,
		TargetDate:    mustDate(in.TargetDate),
		Category:      goalCategory(in.Category),
	}, nil
}

// DebtInput is a new debt.
type DebtInput struct {
	Creditor       string `json:"creditor" validate:"required,max=100"`
	Balance        string `json:"balance" validate:"required,money_positive"`
	InterestRate   string `json:"interest_rate" validate:"required,percent"`
	MinimumPayment string `json:"minimum_payment" validate:"required,money_nonneg"`
	DueDate        string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Type           string `json:"type" validate:"required,debt_type"`
}

// Debt validates in and converts it.
func (v *Validator) Debt(in DebtInput) (model.Debt, error) {
	if err := v.Struct(in); err != nil {
		return model.Debt{}, err
	}
	return model.Debt{
		Creditor:       strings.TrimSpace(in.Creditor),
		Balance:        mustMoney(in.Balance),
		InterestRate:   decimal.RequireFromString(strings.TrimSpace(in.InterestRate)),
		MinimumPayment: mustMoney(in.MinimumPayment),
		DueDate:        mustDate(in.DueDate),
		Type:           debtType(in.Type),
	}, nil
}

// PayoffInput is a one-off payoff calculation.
type PayoffInput struct {
	Balance        string `json:"balance" validate:"required,money_positive"`
	InterestRate   string `json:"rate" validate:"required,percent"`
	MonthlyPayment string `json:"payment" validate:"required,money_nonneg"`
}

// Payoff validates in under the same rules as a debt and returns it as one,
// with the payment as its minimum payment.
func (v *Validator) Payoff(in PayoffInput) (model.Debt, error) {
	if err := v.Struct(in); err != nil {
		return model.Debt{}, err
	}
	return model.Debt{
		Balance:        mustMoney(in.Balance),
		InterestRate:   decimal.RequireFromString(strings.TrimSpace(in.InterestRate)),
		MinimumPayment: mustMoney(in.MonthlyPayment),
	}, nil
}

// Amount validates a standalone amount such as a payment or contribution.
func (v *Validator) Amount(field, s string) (decimal.Decimal, error) {
	d, ok := parseMoney(s)
	if !ok || !d.IsPositive() {
		return decimal.Zero, Errors{{Field: field, Message: "must be an amount greater than zero"}}
	}
	return d, nil
}

// The must helpers run only after Struct accepted the value.

func mustDate(s string) time.Time {
	t, _ := time.Parse(model.DateFormat, s)
	return t
}

func mustMoney(s string) decimal.Decimal {
	d, _ := parseMoney(s)
	return d
}

func goalCategory(s string) model.GoalCategory {
	for _, c := range model.GoalCategories() {
		if strings.EqualFold(string(c), s) {
			return c
		}
	}
	return model.GoalOther
}

func debtType(s string) model.DebtType {
	for _, t := range model.DebtTypes() {
		if strings.EqualFold(string(t), s) {
			return t
		}
	}
	return model.DebtOther
}
