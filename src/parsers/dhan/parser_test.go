package dhan

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

var headers = []string{"Name", "Date", "Time", "Buy/Sell", "Quantity/Lot", "Trade Price", "Trade Value", "Status"}

func TestParseTradedRowsOnly(t *testing.T) {
	rows := [][]string{
		{"HDFCBANK", "15/03/2024", "09:45:12", "Buy", "25", "1450.00", "36250.00", "Traded"},
		{"HDFCBANK", "15/03/2024", "09:46:00", "Buy", "25", "1450.00", "36250.00", "Cancelled"},
		{"HDFCBANK", "18/03/2024", "11:02:30", "Sell", "25", "1490.00", "37250.00", "Traded"},
		{"HDFCBANK", "18/03/2024", "11:05:00", "Sell", "25", "1490.00", "37250.00", "Rejected"},
	}
	txs, err := NewParser().Parse(headers, rows)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "HDFCBANK", txs[0].Symbol)
	assert.Equal(t, models.SideBuy, txs[0].Side)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "09:45:12", txs[0].Time)
	assert.Equal(t, models.SideSell, txs[1].Side)
	assert.Equal(t, 1490.0, txs[1].Price)
}

func TestParseDayFirstDates(t *testing.T) {
	rows := [][]string{
		{"SBIN", "25/03/2024", "10:00:00", "Buy", "50", "750", "37500", "Traded"},
	}
	txs, err := NewParser().Parse(headers, rows)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, time.March, txs[0].Date.Month())
	assert.Equal(t, 25, txs[0].Date.Day())
}

func TestParseMissingRequiredColumn(t *testing.T) {
	_, err := NewParser().Parse([]string{"Name", "Date"}, nil)
	assert.Error(t, err)
}
