package importer

import "strings"

// Canonical header names produced by NormalizeHeader.
const (
	colDate        = "date"
	colDescription = "description"
	colAmount      = "amount"
	colDebit       = "debit"
	colCredit      = "credit"
	colOutflow     = "outflow"
	colInflow      = "inflow"
	colCategory    = "category"
	colType        = "type"
)

// Raw header spellings looked up when the normalized date column is empty.
var rawDateFallbacks = []string{"transaction date", "posted date"}

type headerRule struct {
	canonical string
	matches   func(h string) bool
}

// headerRules are evaluated in order; the first match wins. The order decides
// headers that hit several rules ("credit/debit" is a debit column), and
// outflow is aliased to debit after the credit rule has had its chance.
var headerRules = []headerRule{
	{colDate, containsAny("date")},
	{colDescription, containsAny("descr", "details", "memo", "payee")},
	{colAmount, containsAny("amount")},
	{colDebit, containsAny("debit", "withdraw")},
	{colCredit, containsAny("credit", "deposit", "inflow")},
	{colDebit, containsAny("outflow")},
	{colCategory, equals("category")},
	{colType, equals("type")},
}

func containsAny(subs ...string) func(string) bool {
	return func(h string) bool {
		for _, s := range subs {
			if strings.Contains(h, s) {
				return true
			}
		}
		return false
	}
}

func equals(want string) func(string) bool {
	return func(h string) bool { return h == want }
}

// collapseHeader lower-cases h and collapses runs of whitespace to one space.
func collapseHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// NormalizeHeader maps a source column name onto the canonical vocabulary.
// Headers matching no rule are returned lower-cased and collapsed.
func NormalizeHeader(h string) string {
	header := collapseHeader(h)
	for _, r := range headerRules {
		if r.matches(header) {
			return r.canonical
		}
	}
	return header
}
