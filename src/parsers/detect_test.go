package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormatZerodha(t *testing.T) {
	headers := []string{"symbol", "isin", "trade_date", "exchange", "segment", "series", "trade_type", "quantity", "price", "trade_id", "order_id", "order_execution_time"}
	res, err := DetectFormat(headers)
	require.NoError(t, err)
	assert.Equal(t, "zerodha", res.Source)
	assert.GreaterOrEqual(t, res.UniqueHits, 2)
	assert.GreaterOrEqual(t, res.RequiredHits, 3)
}

func TestDetectFormatDhan(t *testing.T) {
	headers := []string{"Name", "Date", "Time", "Buy/Sell", "Quantity/Lot", "Trade Price", "Trade Value", "Status"}
	res, err := DetectFormat(headers)
	require.NoError(t, err)
	assert.Equal(t, "dhan", res.Source)
}

func TestDetectFormatUpstox(t *testing.T) {
	headers := []string{"Company", "Date", "Trade Time", "Side", "Quantity", "Price", "Amount", "Exchange", "Segment"}
	res, err := DetectFormat(headers)
	require.NoError(t, err)
	assert.Equal(t, "upstox", res.Source)
}

func TestDetectFormatUnrecognized(t *testing.T) {
	_, err := DetectFormat([]string{"foo", "bar", "baz"})
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)

	// Partial overlap below threshold must not match either.
	_, err = DetectFormat([]string{"symbol", "quantity", "price"})
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestDetectFormatIsPure(t *testing.T) {
	headers := []string{"Name", "Date", "Buy/Sell", "Quantity/Lot", "Trade Price", "Status"}
	first, err := DetectFormat(headers)
	require.NoError(t, err)
	second, err := DetectFormat(headers)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetParser(t *testing.T) {
	for _, source := range []string{"zerodha", "dhan", "upstox"} {
		p, err := GetParser(source)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
	_, err := GetParser("robinhood")
	assert.Error(t, err)
}
