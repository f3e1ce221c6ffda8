package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/id"
	"github.com/budgetflow/budgetflow/internal/logger"
	"github.com/budgetflow/budgetflow/internal/model"
)

// DefaultDescription is used for rows without a description column or value.
const DefaultDescription = "Imported Transaction"

// ErrNoValidRows is returned when an import yields no transactions at all.
var ErrNoValidRows = errors.New("no valid rows")

// RowError describes a data row that was skipped.
type RowError struct {
	Line   int // 1-based line number among non-blank lines, header is line 1
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Batch is the result of parsing one CSV document.
type Batch struct {
	ID           string
	Transactions []model.Transaction
	Skipped      []RowError
}

// CSVParser is the heuristic parser for arbitrary bank exports: it detects the
// delimiter and maps header names onto the canonical columns.
type CSVParser struct {
	// NewBatch returns the batch token used in transaction IDs. Defaults to id.NewBatch.
	NewBatch func() string
}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV document and returns its transactions. Skipped rows are
// logged and reported in the Batch; ErrNoValidRows is returned when nothing
// could be imported.
func (p *CSVParser) Parse(ctx context.Context, r io.Reader) (Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Batch{}, fmt.Errorf("reading CSV: %w", err)
	}

	batchID := p.batchID()
	batch, lines := parseText(string(data), batchID)

	log := logger.FromContext(ctx)
	for _, skipped := range batch.Skipped {
		log.Warn().Str("batch", batchID).Int("line", skipped.Line).Str("reason", skipped.Reason).Msg("skipping row")
	}

	if lines < 2 {
		return batch, fmt.Errorf("%w: need a header and at least one data row", ErrNoValidRows)
	}
	if len(batch.Transactions) == 0 {
		return batch, fmt.Errorf("%w: all %d data rows were skipped", ErrNoValidRows, len(batch.Skipped))
	}
	return batch, nil
}

func (p *CSVParser) batchID() string {
	if p.NewBatch != nil {
		return p.NewBatch()
	}
	return id.NewBatch()
}

// ParseText parses CSV text into transactions without ever failing. An input
// with fewer than two non-blank lines yields an empty batch.
func ParseText(text string) Batch {
	batch, _ := parseText(text, id.NewBatch())
	return batch
}

// parseText returns the batch and the number of non-blank lines seen.
func parseText(text, batchID string) (Batch, int) {
	batch := Batch{ID: batchID}

	lines := splitLines(text)
	if len(lines) < 2 {
		return batch, len(lines)
	}

	delim := DetectDelimiter(lines[0])
	rawHeaders := SplitLine(lines[0], delim)
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		rawHeaders[i] = collapseHeader(h)
		headers[i] = NormalizeHeader(h)
	}

	for i := 1; i < len(lines); i++ {
		values := SplitLine(lines[i], delim)
		row := make(map[string]string, len(headers))
		raw := make(map[string]string, len(headers))
		for j, h := range headers {
			v := ""
			if j < len(values) {
				v = strings.TrimSpace(values[j])
			}
			// Later duplicate columns overwrite earlier ones.
			row[h] = v
			raw[rawHeaders[j]] = v
		}

		txn, err := extractRow(row, raw)
		if err != nil {
			batch.Skipped = append(batch.Skipped, RowError{Line: i + 1, Reason: err.Error()})
			continue
		}
		txn.ID = id.FormatImportID(batchID, i)
		batch.Transactions = append(batch.Transactions, txn)
	}
	return batch, len(lines)
}

// splitLines trims the document and returns its non-blank lines.
func splitLines(text string) []string {
	text = strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	if text == "" {
		return nil
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

func extractRow(row, raw map[string]string) (model.Transaction, error) {
	dateStr := row[colDate]
	for _, key := range rawDateFallbacks {
		if dateStr != "" {
			break
		}
		dateStr = raw[key]
	}

	description := row[colDescription]
	if description == "" {
		description = DefaultDescription
	}

	amount, ok := resolveAmount(row)
	if !ok {
		return model.Transaction{}, errors.New("invalid amount")
	}
	if amount.IsZero() {
		return model.Transaction{}, errors.New("zero amount")
	}

	var txnType model.TransactionType
	if rawType := strings.ToLower(row[colType]); rawType != "" {
		txnType = model.TypeIncome
		if strings.Contains(rawType, "debit") || strings.Contains(rawType, "expense") || strings.Contains(rawType, "outflow") {
			txnType = model.TypeExpense
		}
	} else if amount.IsNegative() {
		txnType = model.TypeExpense
	} else {
		txnType = model.TypeIncome
	}

	date, err := ParseDate(dateStr)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid date: %w", err)
	}

	return model.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount.Abs(),
		Category:    model.ValidateCategory(row[colCategory]),
		Type:        txnType,
	}, nil
}

// resolveAmount reads the amount column, falling back to credit minus debit
// and then inflow minus outflow. ok is false when nothing parsed.
func resolveAmount(row map[string]string) (decimal.Decimal, bool) {
	if v := row[colAmount]; v != "" {
		if d, err := ParseCurrency(v); err == nil {
			return d, true
		}
	}

	if d, ok := net(row, colCredit, colDebit); ok {
		return d, true
	}
	return net(row, colInflow, colOutflow)
}

// net returns plus minus minus, treating an unparseable side as zero. ok is
// false when neither side parsed.
func net(row map[string]string, plusCol, minusCol string) (decimal.Decimal, bool) {
	plus, plusErr := ParseCurrency(row[plusCol])
	minus, minusErr := ParseCurrency(row[minusCol])
	if plusErr != nil && minusErr != nil {
		return decimal.Zero, false
	}
	if plusErr != nil {
		plus = decimal.Zero
	}
	if minusErr != nil {
		minus = decimal.Zero
	}
	return plus.Sub(minus), true
}
