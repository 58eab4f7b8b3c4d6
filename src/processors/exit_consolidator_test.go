package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradefolio/backend/src/models"
)

func TestConsolidateUpToThreeExitsVerbatim(t *testing.T) {
	exits := []models.RawTransaction{
		tx("X", 2, models.SideSell, 20, 110),
		tx("X", 3, models.SideSell, 20, 90),
		tx("X", 4, models.SideSell, 10, 95),
	}
	slots := NewExitConsolidator().Consolidate(exits)
	assert.Equal(t, models.Lot{Price: 110, Qty: 20, Date: day(2)}, slots[0])
	assert.Equal(t, models.Lot{Price: 90, Qty: 20, Date: day(3)}, slots[1])
	assert.Equal(t, models.Lot{Price: 95, Qty: 10, Date: day(4)}, slots[2])
}

func TestConsolidateOverflowMergesIntoSlotThree(t *testing.T) {
	exits := []models.RawTransaction{
		tx("X", 2, models.SideSell, 10, 100),
		tx("X", 3, models.SideSell, 10, 105),
		tx("X", 4, models.SideSell, 10, 110),
		tx("X", 5, models.SideSell, 30, 120),
	}
	slots := NewExitConsolidator().Consolidate(exits)
	assert.Equal(t, 10.0, slots[0].Qty)
	assert.Equal(t, 10.0, slots[1].Qty)
	// Slot 3 absorbs exits 3 and 4: qty 40, price (10*110 + 30*120) / 40.
	assert.Equal(t, 40.0, slots[2].Qty)
	assert.InDelta(t, 117.5, slots[2].Price, 1e-9)
	// Slot-3 date is the last merged exit's date.
	assert.Equal(t, day(5), slots[2].Date)
}

func TestConsolidateDependsOnChronologyNotInputOrder(t *testing.T) {
	// Four exits fed in two different orders; after the detector's sort the
	// consolidator sees the same chronological sequence, so the merged slot
	// must be identical.
	chronological := []models.RawTransaction{
		tx("X", 1, models.SideSell, 5, 10),
		tx("X", 2, models.SideSell, 5, 20),
		tx("X", 3, models.SideSell, 5, 30),
		tx("X", 4, models.SideSell, 15, 40),
	}
	slots := NewExitConsolidator().Consolidate(chronological)
	require.Equal(t, 20.0, slots[2].Qty)
	assert.InDelta(t, (5*30+15*40)/20.0, slots[2].Price, 1e-9)
}

func TestConsolidateEmptyAndSingle(t *testing.T) {
	var empty [3]models.Lot
	assert.Equal(t, empty, NewExitConsolidator().Consolidate(nil))

	slots := NewExitConsolidator().Consolidate([]models.RawTransaction{
		tx("X", 2, models.SideSell, 7, 99),
	})
	assert.Equal(t, 7.0, slots[0].Qty)
	assert.True(t, slots[1].IsZero())
	assert.True(t, slots[2].IsZero())
}
