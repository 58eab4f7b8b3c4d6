package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradefolio/backend/src/models"
)

func lot(qty, price float64) models.Lot {
	return models.Lot{Qty: qty, Price: price}
}

func TestFIFOSingleEntryTwoExits(t *testing.T) {
	entries := []models.Lot{lot(100, 10)}
	exits := []models.Lot{lot(60, 15), lot(40, 12)}

	total, matches := ComputeFIFO(entries, exits, models.SideBuy)

	// 60*(15-10) + 40*(12-10) = 300 + 80 = 380.
	assert.InDelta(t, 380.0, total, 1e-9)
	require.Len(t, matches, 2)
	assert.InDelta(t, 300.0, matches[0].PL, 1e-9)
	assert.InDelta(t, 80.0, matches[1].PL, 1e-9)
}

func TestFIFOEntrySplitsAcrossExit(t *testing.T) {
	entries := []models.Lot{lot(30, 100), lot(70, 110)}
	exits := []models.Lot{lot(50, 120)}

	total, matches := ComputeFIFO(entries, exits, models.SideBuy)

	// 30 from the first lot at 100, then 20 from the second at 110.
	require.Len(t, matches, 2)
	assert.Equal(t, 30.0, matches[0].Qty)
	assert.Equal(t, 0, matches[0].EntrySlot)
	assert.Equal(t, 20.0, matches[1].Qty)
	assert.Equal(t, 1, matches[1].EntrySlot)
	assert.InDelta(t, 30*(120-100.0)+20*(120-110.0), total, 1e-9)
}

func TestFIFOShortDirectionInvertsSign(t *testing.T) {
	entries := []models.Lot{lot(10, 100)}
	exits := []models.Lot{lot(10, 90)}

	total, _ := ComputeFIFO(entries, exits, models.SideSell)
	assert.InDelta(t, 100.0, total, 1e-9)

	total, _ = ComputeFIFO(entries, exits, models.SideBuy)
	assert.InDelta(t, -100.0, total, 1e-9)
}

func TestFIFOPartialExitLeavesRemainderUntouched(t *testing.T) {
	entries := []models.Lot{lot(100, 50)}
	exits := []models.Lot{lot(25, 60)}

	total, matches := ComputeFIFO(entries, exits, models.SideBuy)
	assert.InDelta(t, 250.0, total, 1e-9)
	require.Len(t, matches, 1)
	assert.Equal(t, 25.0, matches[0].Qty)
}

func TestFIFOSkipsZeroLots(t *testing.T) {
	entries := []models.Lot{lot(0, 0), lot(10, 10)}
	exits := []models.Lot{lot(10, 12), lot(0, 0)}

	total, matches := ComputeFIFO(entries, exits, models.SideBuy)
	assert.InDelta(t, 20.0, total, 1e-9)
	require.Len(t, matches, 1)
}

func TestFIFOTotalEqualsSumOfMatches(t *testing.T) {
	entries := []models.Lot{lot(12, 101.5), lot(8, 99.25), lot(5, 103)}
	exits := []models.Lot{lot(9, 104), lot(9, 98.5), lot(7, 102.75)}

	total, matches := ComputeFIFO(entries, exits, models.SideBuy)
	var sum float64
	for _, m := range matches {
		sum += m.PL
	}
	assert.InDelta(t, total, sum, 1e-9)
}

func TestFIFOEmptyInputs(t *testing.T) {
	total, matches := ComputeFIFO(nil, nil, models.SideBuy)
	assert.Zero(t, total)
	assert.Empty(t, matches)

	total, matches = ComputeFIFO([]models.Lot{lot(10, 5)}, nil, models.SideBuy)
	assert.Zero(t, total)
	assert.Empty(t, matches)
}
