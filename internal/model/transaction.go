package model

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the ISO-8601 calendar date layout used for every stored date.
const DateFormat = "2006-01-02"

// DaysUntil returns the whole days from now to t, rounded up. It is negative
// once t has passed by a full day.
func DaysUntil(t, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// TransactionType tells income from expense. Amounts are always non-negative;
// the sign of a transaction lives here.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category is one of the fixed transaction category labels.
type Category string

const (
	CategoryFood          Category = "Food & Dining"
	CategoryTransport     Category = "Transportation"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills & Utilities"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEducation     Category = "Education"
	CategoryTravel        Category = "Travel"
	CategoryInvestment    Category = "Investment"
	CategorySalary        Category = "Salary"
	CategoryFreelance     Category = "Freelance"
	CategoryBusiness      Category = "Business"
	CategoryOther         Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategoryInvestment,
	CategorySalary,
	CategoryFreelance,
	CategoryBusiness,
	CategoryOther,
}

// Categories returns the 13 category labels in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory matches s against the category labels ignoring case.
func LookupCategory(s string) (Category, bool) {
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// ValidateCategory returns the matching label for s, or CategoryOther.
func ValidateCategory(s string) Category {
	if c, ok := LookupCategory(s); ok {
		return c
	}
	return CategoryOther
}

// Transaction is a single income or expense record.
type Transaction struct {
	ID          string
	Date        time.Time
	Description string
	Amount      decimal.Decimal // always >= 0, see Type
	Category    Category
	Type        TransactionType
}

// Signed returns the amount with the sign implied by Type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Month returns the "YYYY-MM" bucket of the transaction date.
func (t Transaction) Month() string {
	return t.Date.Format("2006-01")
}
