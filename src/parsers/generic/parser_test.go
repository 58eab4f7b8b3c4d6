package generic

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestParseWithMapping(t *testing.T) {
	mapping := ColumnMapping{
		Symbol:   "Scrip",
		Date:     "Txn Date",
		Side:     "Type",
		Quantity: "Qty",
		Price:    "Rate",
	}
	headers := []string{"Scrip", "Txn Date", "Type", "Qty", "Rate", "Notes"}
	rows := [][]string{
		{"ITC", "2024-05-02", "buy", "100", "430.10", "swing"},
		{"ITC", "2024-05-20", "sell", "100", "452.00", ""},
		{"ITC", "2024-05-21", "sell", "0", "452.00", "bad qty"},
	}
	txs, err := NewParser(mapping).Parse(headers, rows)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "ITC", txs[0].Symbol)
	assert.Equal(t, models.SideBuy, txs[0].Side)
	assert.Equal(t, 430.10, txs[0].Price)
	assert.Equal(t, "generic", txs[0].Source)
}

func TestParseUnmappedColumn(t *testing.T) {
	mapping := ColumnMapping{Symbol: "Scrip", Date: "Missing", Side: "Type", Quantity: "Qty", Price: "Rate"}
	_, err := NewParser(mapping).Parse([]string{"Scrip", "Type", "Qty", "Rate"}, nil)
	assert.Error(t, err)
}
