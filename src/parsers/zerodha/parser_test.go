package zerodha

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

var headers = []string{"symbol", "isin", "trade_date", "exchange", "segment", "series", "trade_type", "quantity", "price", "trade_id", "order_id", "order_execution_time"}

func TestParseTradebook(t *testing.T) {
	rows := [][]string{
		{"RELIANCE", "INE002A01018", "2024-03-15", "NSE", "EQ", "EQ", "buy", "10", "2950.50", "T001", "O001", "2024-03-15T09:30:01"},
		{"RELIANCE", "INE002A01018", "2024-03-18", "NSE", "EQ", "EQ", "sell", "10", "3010.00", "T002", "O002", "2024-03-18T14:05:45"},
	}
	txs, err := NewParser().Parse(headers, rows)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "RELIANCE", txs[0].Symbol)
	assert.Equal(t, models.SideBuy, txs[0].Side)
	assert.Equal(t, 10.0, txs[0].Quantity)
	assert.Equal(t, 2950.50, txs[0].Price)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "09:30:01", txs[0].Time)
	assert.Equal(t, "T001", txs[0].TradeID)
	assert.Equal(t, models.SideSell, txs[1].Side)
}

func TestParseRejectsMalformedRows(t *testing.T) {
	rows := [][]string{
		{"", "isin", "2024-03-15", "NSE", "EQ", "EQ", "buy", "10", "100", "T1", "O1", ""},          // empty symbol
		{"TCS", "isin", "2024-03-15", "NSE", "EQ", "EQ", "buy", "0", "100", "T2", "O2", ""},        // zero qty
		{"TCS", "isin", "2024-03-15", "NSE", "EQ", "EQ", "buy", "10", "#N/A", "T3", "O3", ""},      // error token price
		{"TCS", "isin", "2024-03-15", "NSE", "EQ", "EQ", "hold", "10", "100", "T4", "O4", ""},      // invalid side
		{"TCS", "isin", "not-a-date", "NSE", "EQ", "EQ", "buy", "10", "100", "T5", "O5", ""},       // bad date
		{"TCS", "isin", "2024-03-15", "NSE", "EQ", "EQ", "sell", "5", "₹3,900.25", "T6", "O6", ""}, // valid
	}
	txs, err := NewParser().Parse(headers, rows)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 3900.25, txs[0].Price)
}

func TestParseMissingRequiredColumn(t *testing.T) {
	_, err := NewParser().Parse([]string{"isin", "trade_date"}, nil)
	assert.Error(t, err)
}

func TestParseCurrencySuffixedHeaders(t *testing.T) {
	suffixed := []string{"symbol", "isin", "trade_date", "exchange", "segment", "series", "trade_type", "quantity", "price (₹)", "trade_id", "order_id", "order_execution_time"}
	rows := [][]string{
		{"INFY", "INE009A01021", "2024-04-01", "NSE", "EQ", "EQ", "buy", "20", "1500", "T1", "O1", "10:00:00"},
	}
	txs, err := NewParser().Parse(suffixed, rows)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 1500.0, txs[0].Price)
}
