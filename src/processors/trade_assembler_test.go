package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradefolio/backend/src/models"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
}

func newTestAssembler(lookup PortfolioSizeLookup) *tradeAssemblerImpl {
	return &tradeAssemblerImpl{
		getPortfolioSize: lookup,
		consolidator:     NewExitConsolidator(),
		now:              fixedClock,
	}
}

func cycleOf(txs ...models.RawTransaction) models.TradeCycle {
	c := models.TradeCycle{Symbol: txs[0].Symbol, Transactions: txs}
	c.Closed = c.BuyQty() > 0 && c.BuyQty() == c.SellQty()
	return c
}

func TestAssembleClosedLongTrade(t *testing.T) {
	lookup := func(month string, year int) float64 { return 100000 }
	asm := newTestAssembler(lookup)

	cycle := cycleOf(
		tx("RELIANCE", 1, models.SideBuy, 100, 10),
		tx("RELIANCE", 2, models.SideSell, 60, 15),
		tx("RELIANCE", 3, models.SideSell, 40, 12),
	)
	trade := asm.Assemble(cycle, 1, 0)

	assert.Equal(t, models.StatusClosed, trade.Status)
	assert.Equal(t, 100.0, trade.TotalQty)
	assert.Equal(t, 100.0, trade.ExitedQty)
	assert.Zero(t, trade.OpenQty)
	assert.InDelta(t, 10.0, trade.AvgEntry, 1e-9)
	assert.InDelta(t, 380.0, trade.RealizedPL, 1e-9)
	assert.InDelta(t, 1000.0, trade.PositionSize, 1e-9)
	assert.InDelta(t, 1.0, trade.Allocation, 1e-9)
	assert.InDelta(t, 0.38, trade.PFImpact, 1e-9)
	assert.Zero(t, trade.UnrealizedPL)
}

func TestAssembleClampsOversoldExits(t *testing.T) {
	asm := newTestAssembler(nil)

	// 50 bought, 60 sold across three exits. The third exit is clamped so
	// exited quantity equals entered quantity.
	cycle := cycleOf(
		tx("SBIN", 1, models.SideBuy, 50, 100),
		tx("SBIN", 2, models.SideSell, 20, 110),
		tx("SBIN", 3, models.SideSell, 20, 90),
		tx("SBIN", 4, models.SideSell, 20, 95),
	)
	trade := asm.Assemble(cycle, 1, 0)

	assert.Equal(t, 20.0, trade.Exits[0].Qty)
	assert.Equal(t, 110.0, trade.Exits[0].Price)
	assert.Equal(t, 20.0, trade.Exits[1].Qty)
	assert.Equal(t, 90.0, trade.Exits[1].Price)
	assert.Equal(t, 10.0, trade.Exits[2].Qty)
	assert.Equal(t, 95.0, trade.Exits[2].Price)
	assert.Equal(t, 50.0, trade.ExitedQty)
	assert.Equal(t, models.StatusClosed, trade.Status)
}

func TestAssemblePartialTradeUnrealized(t *testing.T) {
	asm := newTestAssembler(nil)

	cycle := cycleOf(
		tx("INFY", 1, models.SideBuy, 50, 1500),
		tx("INFY", 2, models.SideSell, 20, 1550),
	)
	trade := asm.Assemble(cycle, 1, 1600)

	assert.Equal(t, models.StatusPartial, trade.Status)
	assert.Equal(t, 30.0, trade.OpenQty)
	assert.InDelta(t, 20*(1550-1500.0), trade.RealizedPL, 1e-9)
	assert.InDelta(t, 30*(1600-1500.0), trade.UnrealizedPL, 1e-9)
}

func TestAssembleOpenTrade(t *testing.T) {
	asm := newTestAssembler(nil)

	cycle := cycleOf(tx("TCS", 1, models.SideBuy, 10, 3500))
	trade := asm.Assemble(cycle, 1, 0)

	assert.Equal(t, models.StatusOpen, trade.Status)
	assert.Zero(t, trade.RealizedPL)
	// No CMP supplied: unrealized degrades to 0 instead of erroring.
	assert.Zero(t, trade.UnrealizedPL)
	assert.Zero(t, trade.StockMove)
}

func TestAssembleShortTrade(t *testing.T) {
	asm := newTestAssembler(nil)

	cycle := cycleOf(
		tx("NIFTYBEES", 1, models.SideSell, 100, 250),
		tx("NIFTYBEES", 2, models.SideBuy, 100, 240),
	)
	trade := asm.Assemble(cycle, 1, 0)

	assert.Equal(t, models.SideSell, trade.Direction)
	assert.Equal(t, models.StatusClosed, trade.Status)
	assert.InDelta(t, 1000.0, trade.RealizedPL, 1e-9)
	// Price fell 4%; for a short that is a +4% favorable move.
	assert.InDelta(t, 4.0, trade.StockMove, 1e-9)
}

func TestAssembleMissingPortfolioSizeDegradesToZero(t *testing.T) {
	asm := newTestAssembler(nil)

	cycle := cycleOf(
		tx("ITC", 1, models.SideBuy, 10, 450),
		tx("ITC", 2, models.SideSell, 10, 460),
	)
	trade := asm.Assemble(cycle, 1, 0)

	assert.Zero(t, trade.Allocation)
	assert.Zero(t, trade.PFImpact)
	assert.InDelta(t, 100.0, trade.RealizedPL, 1e-9)
}

func TestRecomputeAfterStopEdit(t *testing.T) {
	asm := newTestAssembler(nil)

	cycle := cycleOf(
		tx("HDFC", 1, models.SideBuy, 10, 100),
		tx("HDFC", 5, models.SideSell, 10, 120),
	)
	trade := asm.Assemble(cycle, 1, 0)
	assert.Zero(t, trade.RewardRisk)

	trade.SL = 95
	trade = asm.Recompute(trade)
	// Reward 20 over risk 5.
	assert.InDelta(t, 4.0, trade.RewardRisk, 1e-9)

	// Trailing stop takes precedence over the initial stop when set. A
	// trailing stop above entry leaves no risk, so the ratio degrades to 0.
	trade.TSL = 110
	trade = asm.Recompute(trade)
	assert.Zero(t, trade.RewardRisk)
}

func TestHoldingDaysClosedVsOpen(t *testing.T) {
	asm := newTestAssembler(nil)

	closed := asm.Assemble(cycleOf(
		tx("A", 1, models.SideBuy, 10, 5),
		tx("A", 11, models.SideSell, 10, 6),
	), 1, 0)
	assert.Equal(t, 10, closed.HoldingDays)

	open := asm.Assemble(cycleOf(tx("A", 1, models.SideBuy, 10, 5)), 1, 0)
	// Open trade measured against the clock (2024-03-01).
	assert.Equal(t, 60, open.HoldingDays)
}

func TestAssembleEntryPyramidsIntoSlots(t *testing.T) {
	asm := newTestAssembler(nil)

	cycle := cycleOf(
		tx("B", 1, models.SideBuy, 10, 100),
		tx("B", 2, models.SideBuy, 10, 105),
		tx("B", 3, models.SideBuy, 10, 110),
		tx("B", 4, models.SideBuy, 10, 115),
		tx("B", 5, models.SideSell, 40, 120),
	)
	trade := asm.Assemble(cycle, 1, 0)

	require.Equal(t, 40.0, trade.TotalQty)
	assert.Equal(t, 10.0, trade.Entries[0].Qty)
	assert.Equal(t, 10.0, trade.Entries[1].Qty)
	// Third and fourth buys merge into the last entry slot.
	assert.Equal(t, 20.0, trade.Entries[2].Qty)
	assert.InDelta(t, 112.5, trade.Entries[2].Price, 1e-9)
	assert.InDelta(t, 107.5, trade.AvgEntry, 1e-9)
}
