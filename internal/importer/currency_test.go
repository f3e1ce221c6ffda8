package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"$1,234.56", "1234.56"},
		{"(1,234.56)", "-1234.56"},
		{"-50.00", "-50"},
		{"50", "50"},
		{"1,234,567.89", "1234567.89"},
		{"USD -4.50", "-4.5"},
		{"($12.00)", "-12"},
		{".5", "0.5"},
		{"5.", "5"},
		{"-.25", "-0.25"},
		{"12-3", "12"},
		{"1.2.3", "1.2"},
		{" 3 500 ", "3500"},
		{"+42", "42"},
	}
	for _, tt := range tests {
		got, err := ParseCurrency(tt.input)
		require.NoError(t, err, "ParseCurrency(%q)", tt.input)
		assert.Equal(t, tt.want, got.String(), "ParseCurrency(%q)", tt.input)
	}
}

func TestParseCurrency_NotANumber(t *testing.T) {
	badInputs := []string{"", "abc", "-", ".", "()", "--5", "$", "N/A"}
	for _, input := range badInputs {
		_, err := ParseCurrency(input)
		assert.ErrorIs(t, err, ErrNotANumber, "input: %q", input)
	}
}

func TestStripThousands(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1,234", "1234"},
		{"1,234.56", "1234.56"},
		{"12,34", "12,34"},
		{"1,2345", "1,2345"},
		{"1,234,567", "1234567"},
		{",123", "123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripThousands(tt.input), "stripThousands(%q)", tt.input)
	}
}
