package extract

import (
	"strconv"
	"strings"
	"unicode"
)

// parseDecimal parses a numeric token from running text, treating a comma
// as the decimal separator. It reports false for anything unparseable.
func parseDecimal(token string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Replace(token, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseCell parses a table cell after stripping thousands separators and
// all whitespace, including non-breaking spaces.
func parseCell(cell string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cell)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
