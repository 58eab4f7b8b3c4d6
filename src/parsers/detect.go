// backend/src/parsers/detect.go
package parsers

import (
	"errors"
	"strings"

	"github.com/username/tradefolio/backend/src/parsers/dhan"
	"github.com/username/tradefolio/backend/src/parsers/upstox"
	"github.com/username/tradefolio/backend/src/parsers/zerodha"
)

// ErrUnrecognizedFormat means no broker signature scored above threshold.
// Callers fall back to manual column mapping.
var ErrUnrecognizedFormat = errors.New("unrecognized file format")

// formatSignature scores a header row against one broker's vocabulary.
// A format is accepted only when both the unique-token and required-token
// counts clear their independent thresholds.
type formatSignature struct {
	source      string
	unique      []string // tokens no other supported format uses
	required    []string // tokens the format cannot function without
	minUnique   int
	minRequired int
}

var signatures = []formatSignature{
	{
		source:      zerodha.Source,
		unique:      []string{"trade_id", "isin", "series", "order_execution_time"},
		required:    []string{"symbol", "quantity", "price", "trade_type", "trade_date"},
		minUnique:   2,
		minRequired: 3,
	},
	{
		source:      dhan.Source,
		unique:      []string{"buy/sell", "quantity/lot", "trade value", "status"},
		required:    []string{"name", "date", "trade price"},
		minUnique:   2,
		minRequired: 3,
	},
	{
		source:      upstox.Source,
		unique:      []string{"company", "trade time", "side", "amount"},
		required:    []string{"date", "quantity", "price"},
		minUnique:   2,
		minRequired: 3,
	},
}

// DetectionResult carries the winning source tag and its score for hosts
// that want to show confidence.
type DetectionResult struct {
	Source        string `json:"source"`
	UniqueHits    int    `json:"unique_hits"`
	RequiredHits  int    `json:"required_hits"`
}

// DetectFormat classifies a header row. It is a pure function: no state is
// mutated and the same headers always yield the same result.
func DetectFormat(headers []string) (DetectionResult, error) {
	headerSet := make(map[string]bool, len(headers))
	for _, h := range headers {
		headerSet[strings.ToLower(strings.TrimSpace(h))] = true
	}

	best := DetectionResult{}
	bestScore := -1
	for _, sig := range signatures {
		uniqueHits := countHits(headerSet, sig.unique)
		requiredHits := countHits(headerSet, sig.required)
		if uniqueHits < sig.minUnique || requiredHits < sig.minRequired {
			continue
		}
		score := uniqueHits*2 + requiredHits
		if score > bestScore {
			bestScore = score
			best = DetectionResult{Source: sig.source, UniqueHits: uniqueHits, RequiredHits: requiredHits}
		}
	}
	if bestScore < 0 {
		return DetectionResult{}, ErrUnrecognizedFormat
	}
	return best, nil
}

func countHits(headerSet map[string]bool, tokens []string) int {
	hits := 0
	for _, tok := range tokens {
		if headerSet[tok] {
			hits++
		}
	}
	return hits
}
