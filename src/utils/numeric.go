// backend/src/utils/numeric.go
package utils

import (
	"strconv"
	"strings"
)

// spreadsheetErrorTokens are cell values exported by Excel/Sheets when a
// formula failed. They parse to zero rather than poisoning the batch.
var spreadsheetErrorTokens = map[string]bool{
	"#DIV/0!": true,
	"#N/A":    true,
	"#NAME?":  true,
	"#NULL!":  true,
	"#NUM!":   true,
	"#REF!":   true,
	"#VALUE!": true,
}

// ParseAmount converts a broker-exported numeric cell into a float64.
// It tolerates currency symbols, thousands separators, parentheses
// negatives and spreadsheet error tokens. Anything unparseable yields 0;
// a malformed cell never aborts the batch.
func ParseAmount(s string) float64 {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"")
	if cleaned == "" {
		return 0
	}

	if spreadsheetErrorTokens[strings.ToUpper(cleaned)] {
		return 0
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	// Strip currency markers and grouping characters.
	cleaned = strings.NewReplacer(
		"₹", "",
		"$", "",
		"€", "",
		"Rs.", "",
		"Rs", "",
		"INR", "",
		",", "",
		" ", "",
		" ", "",
	).Replace(cleaned)

	if strings.HasPrefix(cleaned, "-") {
		negative = !negative
		cleaned = cleaned[1:]
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -value
	}
	return value
}
