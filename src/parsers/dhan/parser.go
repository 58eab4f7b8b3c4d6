// backend/src/parsers/dhan/parser.go
package dhan

import (
	"fmt"
	"strings"

	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/utils"
)

// Source is the broker tag this parser registers under.
const Source = "dhan"

// DhanParser converts Dhan trade exports into RawTransactions.
// Expected columns: Name, Date, Time, Buy/Sell, Quantity/Lot, Trade Price,
// Trade Value, Status. Only rows with Status "Traded" are executed trades;
// everything else (cancelled, rejected, pending) is dropped.
type DhanParser struct{}

// NewParser creates a new instance of the DhanParser.
func NewParser() *DhanParser {
	return &DhanParser{}
}

func (p *DhanParser) Parse(headers []string, rows [][]string) ([]models.RawTransaction, error) {
	col := buildColumnIndex(headers)

	nameIdx, ok := col["name"]
	if !ok {
		return nil, fmt.Errorf("dhan parser: required column 'name' not found")
	}
	dateIdx, ok := col["date"]
	if !ok {
		return nil, fmt.Errorf("dhan parser: required column 'date' not found")
	}
	sideIdx, ok := col["buy/sell"]
	if !ok {
		return nil, fmt.Errorf("dhan parser: required column 'buy/sell' not found")
	}
	qtyIdx, ok := col["quantity/lot"]
	if !ok {
		return nil, fmt.Errorf("dhan parser: required column 'quantity/lot' not found")
	}
	priceIdx, ok := col["trade price"]
	if !ok {
		return nil, fmt.Errorf("dhan parser: required column 'trade price' not found")
	}
	statusIdx := colIdx(col, "status")

	var txs []models.RawTransaction
	dropped := 0
	for _, row := range rows {
		// Non-executed rows carry statuses like "Cancelled" or "Rejected".
		if statusIdx >= 0 && !strings.EqualFold(cell(row, statusIdx), "Traded") {
			dropped++
			continue
		}

		symbol := cell(row, nameIdx)
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
			Time:          cell(row, colIdx(col, "time")),
			Side:          side,
			Quantity:      quantity,
			Price:         price,
			RawText:       strings.Join(row, ","),
			AmbiguousDate: ambiguous,
		})
	}
	if dropped > 0 {
		logger.L.Debug("Dhan parser dropped non-executed or malformed rows", "dropped", dropped, "kept", len(txs))
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
