// backend/src/parsers/parsers.go
package parsers

import (
	"fmt"

	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/parsers/dhan"
	"github.com/username/tradefolio/backend/src/parsers/upstox"
	"github.com/username/tradefolio/backend/src/parsers/zerodha"
)

// Parser converts one broker's header/row pairs into RawTransactions.
// Malformed rows are dropped silently; an error is returned only when the
// input is structurally unusable (e.g., required columns missing entirely).
type Parser interface {
	Parse(headers []string, rows [][]string) ([]models.RawTransaction, error)
}

// GetParser returns the parser registered for a broker source tag.
// The generic CSV parser is not registered here because it needs an
// explicit column mapping; see the generic package.
func GetParser(source string) (Parser, error) {
	switch source {
	case zerodha.Source:
		return zerodha.NewParser(), nil
	case dhan.Source:
		return dhan.NewParser(), nil
	case upstox.Source:
		return upstox.NewParser(), nil
	default:
		return nil, fmt.Errorf("unsupported broker source: %q", source)
	}
}
