package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradefolio/backend/src/models"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func tx(symbol string, d int, side models.Side, qty, price float64) models.RawTransaction {
	return models.RawTransaction{Symbol: symbol, Date: day(d), Side: side, Quantity: qty, Price: price}
}

func TestDetectClosedCycle(t *testing.T) {
	txs := []models.RawTransaction{
		tx("RELIANCE", 1, models.SideBuy, 100, 10),
		tx("RELIANCE", 2, models.SideSell, 60, 15),
		tx("RELIANCE", 3, models.SideSell, 40, 12),
	}
	cycles := NewCycleDetector().Process(txs)
	require.Len(t, cycles, 1)
	assert.True(t, cycles[0].Closed)
	assert.Len(t, cycles[0].Transactions, 3)
	// Position conservation for a closed cycle.
	assert.Equal(t, cycles[0].BuyQty(), cycles[0].SellQty())
}

func TestDetectMultipleCyclesPerSymbol(t *testing.T) {
	txs := []models.RawTransaction{
		tx("TCS", 1, models.SideBuy, 10, 100),
		tx("TCS", 2, models.SideSell, 10, 110),
		tx("TCS", 5, models.SideBuy, 20, 105),
		tx("TCS", 6, models.SideSell, 20, 95),
	}
	cycles := NewCycleDetector().Process(txs)
	require.Len(t, cycles, 2)
	assert.True(t, cycles[0].Closed)
	assert.True(t, cycles[1].Closed)
	assert.Equal(t, 10.0, cycles[0].BuyQty())
	assert.Equal(t, 20.0, cycles[1].BuyQty())
}

func TestDetectOpenCycleAtEndOfStream(t *testing.T) {
	txs := []models.RawTransaction{
		tx("INFY", 1, models.SideBuy, 50, 1500),
		tx("INFY", 2, models.SideSell, 20, 1550),
	}
	cycles := NewCycleDetector().Process(txs)
	require.Len(t, cycles, 1)
	assert.False(t, cycles[0].Closed)
	// Open cycle: buys strictly exceed sells.
	assert.Greater(t, cycles[0].BuyQty(), cycles[0].SellQty())
}

func TestDiscardBareSellCycle(t *testing.T) {
	txs := []models.RawTransaction{
		tx("SBIN", 1, models.SideSell, 30, 700),
	}
	cycles := NewCycleDetector().Process(txs)
	assert.Empty(t, cycles)
}

func TestSymbolsAreIsolated(t *testing.T) {
	txs := []models.RawTransaction{
		tx("A", 1, models.SideBuy, 10, 5),
		tx("B", 1, models.SideBuy, 7, 3),
		tx("A", 2, models.SideSell, 10, 6),
		tx("B", 3, models.SideSell, 7, 4),
	}
	cycles := NewCycleDetector().Process(txs)
	require.Len(t, cycles, 2)
	assert.Equal(t, "A", cycles[0].Symbol)
	assert.Equal(t, "B", cycles[1].Symbol)
}

func TestUnsortedInputIsOrderedByTimestamp(t *testing.T) {
	txs := []models.RawTransaction{
		tx("ITC", 3, models.SideSell, 10, 450),
		tx("ITC", 1, models.SideBuy, 10, 430),
	}
	cycles := NewCycleDetector().Process(txs)
	require.Len(t, cycles, 1)
	assert.True(t, cycles[0].Closed)
	assert.Equal(t, models.SideBuy, cycles[0].Transactions[0].Side)
}

func TestIntradayTimeBreaksTies(t *testing.T) {
	buy := tx("HDFC", 1, models.SideBuy, 10, 1450)
	buy.Time = "09:15:00"
	sell := tx("HDFC", 1, models.SideSell, 10, 1460)
	sell.Time = "14:30:00"
	cycles := NewCycleDetector().Process([]models.RawTransaction{sell, buy})
	require.Len(t, cycles, 1)
	assert.Equal(t, models.SideBuy, cycles[0].Transactions[0].Side)
	assert.True(t, cycles[0].Closed)
}
