package importer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotANumber is returned by ParseCurrency when no number can be read.
var ErrNotANumber = errors.New("not a number")

// ParseCurrency reads a bank-formatted money string such as "$1,234.56",
// "(12.00)" or "-4.5 USD". Parentheses around the whole value mean negative.
func ParseCurrency(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || strings.ContainsRune(".,()-", r) {
			return r
		}
		return -1
	}, s)
	cleaned = stripThousands(cleaned)

	negative := len(cleaned) >= 2 && cleaned[0] == '(' && cleaned[len(cleaned)-1] == ')'
	cleaned = strings.NewReplacer("(", "", ")", "", ",", "").Replace(cleaned)

	num, ok := leadingNumber(cleaned)
	if !ok {
		return decimal.Zero, ErrNotANumber
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// stripThousands drops every comma followed by exactly three digits and then a
// non-digit or the end of the string.
func stripThousands(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && isThousandsGroup(s[i+1:]) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isThousandsGroup(rest string) bool {
	if len(rest) < 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if !isDigit(rest[i]) {
			return false
		}
	}
	return len(rest) == 3 || !isDigit(rest[3])
}

// leadingNumber returns the longest decimal prefix of s ("-12.5" out of
// "-12.5-3"), normalized so decimal.NewFromString accepts it.
func leadingNumber(s string) (string, bool) {
	i := 0
	sign := ""
	if i < len(s) && s[i] == '-' {
		sign = "-"
		i++
	}

	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intPart := s[start:i]

	fracPart := ""
	if i < len(s) && s[i] == '.' {
		i++
		fs := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		fracPart = s[fs:i]
	}

	if intPart == "" && fracPart == "" {
		return "", false
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" {
		return sign + intPart, true
	}
	return sign + intPart + "." + fracPart, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
