package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// importPrefix marks transactions created by the CSV importer.
const importPrefix = "csv"

// New returns a random identifier for manually created records.
func New() string {
	return uuid.NewString()
}

// NewBatch returns a short token shared by every row of one import batch.
func NewBatch() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// FormatImportID returns an import ID like "csv-3f9a1c2b7d4e-12".
// row is the 1-based line index of the source row within the file.
func FormatImportID(batch string, row int) string {
	return fmt.Sprintf("%s-%s-%d", importPrefix, batch, row)
}

// ParseImportID splits "csv-<batch>-<row>" into batch and row.
func ParseImportID(id string) (batch string, row int, err error) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 || parts[0] != importPrefix {
		return "", 0, fmt.Errorf("invalid import ID format: %q", id)
	}
	if parts[1] == "" {
		return "", 0, fmt.Errorf("missing batch in import ID %q", id)
	}

	row, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, fmt.Errorf("invalid row in import ID %q: %w", id, err)
	}
	return parts[1], row, nil
}

// IsImportID reports whether id was produced by FormatImportID.
func IsImportID(id string) bool {
	_, _, err := ParseImportID(id)
	return err == nil
}
