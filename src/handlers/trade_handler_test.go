package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradefolio/backend/src/models"
)

func TestTradeExportRecords(t *testing.T) {
	trades := []models.Trade{
		{
			ID: "t1", TradeNo: 1, Symbol: "RELIANCE", Source: "zerodha",
			Direction: models.SideBuy, Status: models.StatusClosed,
			TotalQty: 100, ExitedQty: 100, AvgEntry: 2500, AvgExitPrice: 2600,
			RealizedPL: 10000, HoldingDays: 12,
		},
	}

	records := tradeExportRecords(trades)
	require.Len(t, records, 2)
	assert.Equal(t, tradeExportHeader, records[0])

	row := records[1]
	require.Len(t, row, len(tradeExportHeader))
	assert.Equal(t, "1", row[0])
	assert.Equal(t, "RELIANCE", row[1])
	assert.Equal(t, "zerodha", row[2])
	assert.Equal(t, "Closed", row[4])
	assert.Equal(t, "2500", row[8])
	assert.Equal(t, "10000", row[10])
	assert.Equal(t, "12", row[13])
}

func TestTradeExportNeutralizesFormulaCells(t *testing.T) {
	// A malicious symbol in a broker file must not survive as a live
	// spreadsheet formula in the exported CSV.
	trades := []models.Trade{
		{ID: "t1", TradeNo: 1, Symbol: "=HYPERLINK(\"http://evil\")", Source: "+cmd"},
	}

	records := tradeExportRecords(trades)
	require.Len(t, records, 2)
	assert.Equal(t, "'=HYPERLINK(\"http://evil\")", records[1][1])
	assert.Equal(t, "'+cmd", records[1][2])
}

func TestTradeExportEmptyJournal(t *testing.T) {
	records := tradeExportRecords(nil)
	require.Len(t, records, 1)
	assert.Equal(t, tradeExportHeader, records[0])
}
