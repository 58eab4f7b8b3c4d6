// backend/src/parsers/generic/parser.go
package generic

import (
	"fmt"
	"strings"

	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/utils"
)

// Source is the broker tag this parser registers under.
const Source = "generic"

// ColumnMapping names the source headers that carry each canonical field.
// It is supplied by the host's column-mapping step when format detection
// fails. Time is optional; everything else is required.
type ColumnMapping struct {
	Symbol   string `json:"symbol"`
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
	Side     string `json:"side"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// GenericParser converts arbitrary CSVs into RawTransactions using an
// explicit column mapping.
type GenericParser struct {
	mapping ColumnMapping
}

// NewParser creates a GenericParser bound to one column mapping.
func NewParser(mapping ColumnMapping) *GenericParser {
	return &GenericParser{mapping: mapping}
}

func (p *GenericParser) Parse(headers []string, rows [][]string) ([]models.RawTransaction, error) {
	col := buildColumnIndex(headers)

	lookup := func(header, field string) (int, error) {
		idx := colIdx(col, strings.ToLower(strings.TrimSpace(header)))
		if idx < 0 {
			return 0, fmt.Errorf("generic parser: mapped column %q for field %s not found", header, field)
		}
		return idx, nil
	}

	symbolIdx, err := lookup(p.mapping.Symbol, "symbol")
	if err != nil {
		return nil, err
	}
	dateIdx, err := lookup(p.mapping.Date, "date")
	if err != nil {
		return nil, err
	}
	sideIdx, err := lookup(p.mapping.Side, "side")
	if err != nil {
		return nil, err
	}
	qtyIdx, err := lookup(p.mapping.Quantity, "quantity")
	if err != nil {
		return nil, err
	}
	priceIdx, err := lookup(p.mapping.Price, "price")
	if err != nil {
		return nil, err
	}
	timeIdx := -1
	if p.mapping.Time != "" {
		timeIdx = colIdx(col, strings.ToLower(strings.TrimSpace(p.mapping.Time)))
	}

	var txs []models.RawTransaction
	dropped := 0
	for _, row := range rows {
		symbol := cell(row, symbolIdx)
		quantity := utils.ParseAmount(cell(row, qtyIdx))
		price := utils.ParseAmount(cell(row, priceIdx))
		side := parseSide(cell(row, sideIdx))
		if symbol == "" || quantity <= 0 || price <= 0 || side == "" {
			dropped++
			continue
		}

		date, ambiguous, err := utils.ParseFlexibleDate(cell(row, dateIdx))
		if err != nil {
			dropped++
			continue
		}

		txs = append(txs, models.RawTransaction{
			Source:        Source,
			Symbol:        symbol,
			Date:          date,
			Time:          cell(row, timeIdx),
			Side:          side,
			Quantity:      quantity,
			Price:         price,
			RawText:       strings.Join(row, ","),
			AmbiguousDate: ambiguous,
		})
	}
	if dropped > 0 {
		logger.L.Debug("Generic parser dropped malformed rows", "dropped", dropped, "kept", len(txs))
	}
	return txs, nil
}

func parseSide(s string) models.Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "b":
		return models.SideBuy
	case "sell", "s":
		return models.SideSell
	default:
		return ""
	}
}

// buildColumnIndex maps normalized header names to their positions.
// Currency-suffixed headers collapse to their base name; for duplicated
// headers the first occurrence wins.
func buildColumnIndex(headers []string) map[string]int {
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if idx := strings.Index(name, "("); idx > 0 {
			name = strings.TrimSpace(name[:idx])
		}
		if _, exists := col[name]; !exists {
			col[name] = i
		}
	}
	return col
}

// colIdx looks up an optional column, returning -1 when absent.
func colIdx(col map[string]int, name string) int {
	if i, ok := col[name]; ok {
		return i
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
