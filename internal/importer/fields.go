package importer

import "strings"

// delimiterCandidates are tried in order against the header line.
var delimiterCandidates = []rune{'\t', ';', ','}

// DetectDelimiter picks the candidate that splits line into the most fields.
// Comma is the starting best and is only replaced by a strictly larger count,
// so among tab and semicolon the earlier one wins a tie.
func DetectDelimiter(line string) rune {
	best := ','
	bestCount := countFields(line, best)
	for _, cand := range delimiterCandidates {
		if n := countFields(line, cand); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

func countFields(line string, delim rune) int {
	return strings.Count(line, string(delim)) + 1
}

// SplitLine splits a delimited line, honoring double quotes. A doubled quote
// inside a quoted field is a literal quote; delimiters inside quotes are kept.
// Every field is trimmed and loses one leading and one trailing quote if
// present.
func SplitLine(line string, delim rune) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == delim && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	return append(fields, cleanField(current.String()))
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
