package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	inputs := []string{
		"2024-01-15",
		"2024-1-15",
		"2024/01/15",
		"01/15/2024",
		"1/15/2024",
		"1/15/24",
		"01-15-2024",
		"Jan 15, 2024",
		"January 15, 2024",
		"Jan 15 2024",
		"15 Jan 2024",
		"15-Jan-2024",
		"2024-01-15T23:30:00Z",
		"2024-01-15 08:00:00",
		" 2024-01-15 ",
	}
	for _, input := range inputs {
		got, err := ParseDate(input)
		require.NoError(t, err, "ParseDate(%q)", input)
		assert.Equal(t, "2024-01-15", got.Format("2006-01-02"), "ParseDate(%q)", input)
		assert.Zero(t, got.Hour())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	badInputs := []string{"", "not-a-date", "15/01/2024", "2024-13-01", "2024-02-30", "yesterday"}
	for _, input := range badInputs {
		_, err := ParseDate(input)
		assert.Error(t, err, "expected error for input: %q", input)
	}
}
