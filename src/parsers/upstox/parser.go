// backend/src/parsers/upstox/parser.go
package upstox

import (
	"fmt"
	"strings"

	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/utils"
)

// Source is the broker tag this parser registers under.
const Source = "upstox"

// UpstoxParser converts Upstox trade exports into RawTransactions.
// Expected columns: Company, Date, Trade Time, Side, Quantity, Price,
// Amount, Exchange, Segment. The Date column may be a string date or an
// Excel serial number depending on how the sheet was saved.
type UpstoxParser struct{}

// NewParser creates a new instance of the UpstoxParser.
func NewParser() *UpstoxParser {
	return &UpstoxParser{}
}

func (p *UpstoxParser) Parse(headers []string, rows [][]string) ([]models.RawTransaction, error) {
	col := buildColumnIndex(headers)

	symbolIdx, ok := col["company"]
	if !ok {
		return nil, fmt.Errorf("upstox parser: required column 'company' not found")
	}
	dateIdx, ok := col["date"]
	if !ok {
		return nil, fmt.Errorf("upstox parser: required column 'date' not found")
	}
	sideIdx, ok := col["side"]
	if !ok {
		return nil, fmt.Errorf("upstox parser: required column 'side' not found")
	}
	qtyIdx, ok := col["quantity"]
	if !ok {
		return nil, fmt.Errorf("upstox parser: required column 'quantity' not found")
	}
	priceIdx, ok := col["price"]
	if !ok {
		return nil, fmt.Errorf("upstox parser: required column 'price' not found")
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

		// Handles both "15/03/2024" style strings and Excel serials.
		date, ambiguous, err := utils.ParseFlexibleDate(cell(row, dateIdx))
		if err != nil {
			dropped++
			continue
		}

		txs = append(txs, models.RawTransaction{
			Source:        Source,
			Symbol:        symbol,
			Date:          date,
			Time:          cell(row, colIdx(col, "trade time")),
			Side:          side,
			Quantity:      quantity,
			Price:         price,
			Exchange:      cell(row, colIdx(col, "exchange")),
			Segment:       cell(row, colIdx(col, "segment")),
			RawText:       strings.Join(row, ","),
			AmbiguousDate: ambiguous,
		})
	}
	if dropped > 0 {
		logger.L.Debug("Upstox parser dropped malformed rows", "dropped", dropped, "kept", len(txs))
	}
	return txs, nil
}

func parseSide(s string) models.Side {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return models.SideBuy
	case "SELL":
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
