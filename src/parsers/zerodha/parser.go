// backend/src/parsers/zerodha/parser.go
package zerodha

import (
	"fmt"
	"strings"

	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/utils"
)

// Source is the broker tag this parser registers under.
const Source = "zerodha"

// ZerodhaParser converts Zerodha tradebook exports into RawTransactions.
// Expected columns: symbol, isin, trade_date, exchange, segment, series,
// trade_type, quantity, price, trade_id, order_id, order_execution_time.
type ZerodhaParser struct{}

// NewParser creates a new instance of the ZerodhaParser.
func NewParser() *ZerodhaParser {
	return &ZerodhaParser{}
}

func (p *ZerodhaParser) Parse(headers []string, rows [][]string) ([]models.RawTransaction, error) {
	col := buildColumnIndex(headers)

	symbolIdx, ok := col["symbol"]
	if !ok {
		return nil, fmt.Errorf("zerodha parser: required column 'symbol' not found")
	}
	qtyIdx, ok := col["quantity"]
	if !ok {
		return nil, fmt.Errorf("zerodha parser: required column 'quantity' not found")
	}
	priceIdx, ok := col["price"]
	if !ok {
		return nil, fmt.Errorf("zerodha parser: required column 'price' not found")
	}
	dateIdx, hasDate := col["trade_date"]
	typeIdx, hasType := col["trade_type"]
	if !hasDate || !hasType {
		return nil, fmt.Errorf("zerodha parser: required columns 'trade_date'/'trade_type' not found")
	}

	var txs []models.RawTransaction
	dropped := 0
	for _, row := range rows {
		symbol := cell(row, symbolIdx)
		quantity := utils.ParseAmount(cell(row, qtyIdx))
		price := utils.ParseAmount(cell(row, priceIdx))
		side := parseSide(cell(row, typeIdx))
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
			Time:          executionTime(cell(row, colIdx(col, "order_execution_time"))),
			Side:          side,
			Quantity:      quantity,
			Price:         price,
			TradeID:       cell(row, colIdx(col, "trade_id")),
			OrderID:       cell(row, colIdx(col, "order_id")),
			Exchange:      cell(row, colIdx(col, "exchange")),
			Segment:       cell(row, colIdx(col, "segment")),
			RawText:       strings.Join(row, ","),
			AmbiguousDate: ambiguous,
		})
	}
	if dropped > 0 {
		logger.L.Debug("Zerodha parser dropped malformed rows", "dropped", dropped, "kept", len(txs))
	}
	return txs, nil
}

func parseSide(s string) models.Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return models.SideBuy
	case "sell":
		return models.SideSell
	default:
		return ""
	}
}

// executionTime extracts the HH:MM:SS part of order_execution_time, which
// Zerodha exports either as a bare time or as an ISO timestamp.
func executionTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if idx := strings.IndexAny(s, "T "); idx >= 0 && strings.Contains(s, "-") {
		s = s[idx+1:]
	}
	if len(s) >= 8 {
		s = s[:8]
	}
	return s
}

// buildColumnIndex maps normalized header names to their positions.
// Currency-suffixed headers like "price (₹)" collapse to their base name;
// for duplicated headers the first occurrence wins.
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
