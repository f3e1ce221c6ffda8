// Package validation checks user-supplied transactions, goals and debts
// before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/model"
)

// Validator wraps the go-playground validator with budgetflow rules.
type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// Get returns the shared validator.
func Get() *Validator {
	once.Do(func() { instance = New() })
	return instance
}

// New creates a validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("goal_category", validateGoalCategory)
	_ = v.RegisterValidation("debt_type", validateDebtType)
	_ = v.RegisterValidation("txn_type", validateTxnType)
	_ = v.RegisterValidation("money_positive", validateMoneyPositive)
	_ = v.RegisterValidation("money_nonneg", validateMoneyNonNeg)
	_ = v.RegisterValidation("percent", validatePercent)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// FieldError is one rejected field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is returned by Struct when any field is rejected.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Struct validates s and translates failures into Errors.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, len(verrs))
	for i, fe := range verrs {
		out[i] = FieldError{Field: fe.Field(), Message: message(fe)}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return fmt.Sprintf("%q is not a YYYY-MM-DD date", fe.Value())
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "category":
		return fmt.Sprintf("%q is not a known category", fe.Value())
	case "goal_category":
		return fmt.Sprintf("%q is not a known goal category", fe.Value())
	case "debt_type":
		return fmt.Sprintf("%q is not a known debt type", fe.Value())
	case "txn_type":
		return "must be income or expense"
	case "money_positive":
		return "must be an amount greater than zero"
	case "money_nonneg":
		return "must be an amount of zero or more"
	case "percent":
		return "must be a rate between 0 and 100"
	default:
		return "failed " + fe.Tag()
	}
}

func validateCategory(fl validator.FieldLevel) bool {
	_, ok := model.LookupCategory(fl.Field().String())
	return ok
}

func validateGoalCategory(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, c := range model.GoalCategories() {
		if strings.EqualFold(string(c), s) {
			return true
		}
	}
	return false
}

func validateDebtType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, t := range model.DebtTypes() {
		if strings.EqualFold(string(t), s) {
			return true
		}
	}
	return false
}

func validateTxnType(fl validator.FieldLevel) bool {
	return model.TransactionType(strings.ToLower(fl.Field().String())).Valid()
}

// parseMoney accepts an amount with at most two decimal places.
func parseMoney(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, false
	}
	return d, true
}

func validateMoneyPositive(fl validator.FieldLevel) bool {
	d, ok := parseMoney(fl.Field().String())
	return ok && d.IsPositive()
}

func validateMoneyNonNeg(fl validator.FieldLevel) bool {
	d, ok := parseMoney(fl.Field().String())
	return ok && !d.IsNegative()
}

func validatePercent(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
}
