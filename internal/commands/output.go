package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/budgetflow/budgetflow/internal/model"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// money formats d as US dollars, e.g. "$1,234.50" or "-$12.00".
func money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + printer.Sprintf("$%.2f", d.Abs().Round(2).InexactFloat64())
}

// percent formats d with one decimal, e.g. "53.0%".
func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func parseDateFlag(name, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %q is not a YYYY-MM-DD date", name, s)
	}
	return t, nil
}

func moneyFloat(f float64) string {
	return money(decimal.NewFromFloat(f))
}
