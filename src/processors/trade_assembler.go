// backend/src/processors/trade_assembler.go
package processors

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/utils"
)

type tradeAssemblerImpl struct {
	getPortfolioSize PortfolioSizeLookup
	consolidator     ExitConsolidator
	now              func() time.Time
}

// NewTradeAssembler creates a TradeAssembler bound to a portfolio-size
// lookup. A nil lookup degrades allocation and PF-impact to 0.
func NewTradeAssembler(getPortfolioSize PortfolioSizeLookup) TradeAssembler {
	return &tradeAssemblerImpl{
		getPortfolioSize: getPortfolioSize,
		consolidator:     NewExitConsolidator(),
		now:              time.Now,
	}
}

// Assemble builds the canonical Trade from one cycle. Every derived field
// is computed from scratch; trades are never patched incrementally.
// Missing context (zero portfolio size, zero prices) degrades the
// dependent fields to 0 rather than failing the trade.
func (p *tradeAssemblerImpl) Assemble(cycle models.TradeCycle, tradeNo int, cmp float64) models.Trade {
	direction := models.SideBuy
	if len(cycle.Transactions) > 0 && cycle.Transactions[0].Side == models.SideSell {
		direction = models.SideSell
	}
	exitSide := models.SideSell
	if direction == models.SideSell {
		exitSide = models.SideBuy
	}

	entryTxs := cycle.BySide(direction)
	exitTxs := cycle.BySide(exitSide)

	trade := models.Trade{
		ID:        tradeID(cycle, tradeNo),
		TradeNo:   tradeNo,
		Symbol:    cycle.Symbol,
		Direction: direction,
		CMP:       cmp,
	}
	if len(entryTxs) > 0 {
		trade.Source = entryTxs[0].Source
	}

	// Entry lots follow the same fixed-slot contract as exits: primary in
	// slot 1, pyramids in slots 2 and 3, overflow merged into slot 3.
	trade.Entries = ConsolidateIntoSlots(entryTxs)
	trade.Exits = p.consolidator.Consolidate(exitTxs)

	return p.Recompute(trade)
}

// Recompute rebuilds all derived fields from the trade's entry/exit lots
// and the host-supplied CMP, SL and TSL. Identity fields are preserved.
func (p *tradeAssemblerImpl) Recompute(trade models.Trade) models.Trade {
	direction := trade.Direction

	var totalQty, entryNotional float64
	for _, lot := range trade.Entries {
		totalQty += lot.Qty
		entryNotional += lot.Qty * lot.Price
	}
	// Exit quantity can never exceed what was entered; oversold rows (data
	// glitches, split exports) are clamped slot by slot in order.
	remaining := totalQty
	for i := range trade.Exits {
		if trade.Exits[i].Qty > remaining {
			trade.Exits[i].Qty = remaining
		}
		remaining -= trade.Exits[i].Qty
	}

	var exitedQty, exitNotional float64
	for _, lot := range trade.Exits {
		exitedQty += lot.Qty
		exitNotional += lot.Qty * lot.Price
	}

	trade.TotalQty = totalQty
	trade.ExitedQty = exitedQty
	trade.OpenQty = totalQty - exitedQty
	if trade.OpenQty < 0 {
		trade.OpenQty = 0
	}
	trade.AvgEntry = utils.SafeDivide(entryNotional, totalQty)
	trade.AvgExitPrice = utils.SafeDivide(exitNotional, exitedQty)
	trade.PositionSize = trade.AvgEntry * totalQty

	switch {
	case exitedQty == 0:
		trade.Status = models.StatusOpen
	case exitedQty >= totalQty:
		trade.Status = models.StatusClosed
	default:
		trade.Status = models.StatusPartial
	}

	entries := trade.Entries[:]
	exits := trade.Exits[:]
	trade.RealizedPL, _ = ComputeFIFO(nonZeroLots(entries), nonZeroLots(exits), direction)
	trade.UnrealizedPL = p.unrealizedPL(trade)
	trade.StockMove = p.stockMove(trade)
	trade.HoldingDays = p.holdingDays(trade)
	trade.RewardRisk = p.rewardRisk(trade)

	portfolioSize := p.portfolioSizeFor(trade.EntryDate())
	trade.Allocation = utils.SafePercent(trade.PositionSize, portfolioSize)
	trade.PFImpact = utils.SafePercent(trade.RealizedPL, portfolioSize)

	return trade
}

func (p *tradeAssemblerImpl) portfolioSizeFor(date time.Time) float64 {
	if p.getPortfolioSize == nil || date.IsZero() {
		return 0
	}
	return p.getPortfolioSize(date.Month().String(), date.Year())
}

func (p *tradeAssemblerImpl) unrealizedPL(t models.Trade) float64 {
	if t.OpenQty <= 0 || t.CMP <= 0 || t.AvgEntry <= 0 {
		return 0
	}
	if t.Direction == models.SideSell {
		return (t.AvgEntry - t.CMP) * t.OpenQty
	}
	return (t.CMP - t.AvgEntry) * t.OpenQty
}

// stockMove is the percentage move from average entry to the average exit
// price for closed trades, or to the current market price otherwise,
// signed by trade direction.
func (p *tradeAssemblerImpl) stockMove(t models.Trade) float64 {
	if t.AvgEntry == 0 {
		return 0
	}
	reference := t.CMP
	if t.Status == models.StatusClosed {
		reference = t.AvgExitPrice
	}
	if reference == 0 {
		return 0
	}
	move := utils.SafePercent(reference-t.AvgEntry, t.AvgEntry)
	if t.Direction == models.SideSell {
		return -move
	}
	return move
}

func (p *tradeAssemblerImpl) holdingDays(t models.Trade) int {
	entry := t.EntryDate()
	if entry.IsZero() {
		return 0
	}
	end := p.now().UTC()
	if t.Status == models.StatusClosed {
		if last := t.LastExitDate(); !last.IsZero() {
			end = last
		}
	}
	days := int(end.Sub(entry).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// rewardRisk uses the effective stop: the trailing stop when set, else the
// initial stop-loss. Which label the host shows for it is cosmetic.
func (p *tradeAssemblerImpl) rewardRisk(t models.Trade) float64 {
	stop := t.SL
	if t.TSL > 0 {
		stop = t.TSL
	}
	if stop <= 0 || t.AvgEntry == 0 {
		return 0
	}

	reference := t.CMP
	if t.Status == models.StatusClosed {
		reference = t.AvgExitPrice
	}
	if reference == 0 {
		return 0
	}

	var reward, risk float64
	if t.Direction == models.SideSell {
		reward = t.AvgEntry - reference
		risk = stop - t.AvgEntry
	} else {
		reward = reference - t.AvgEntry
		risk = t.AvgEntry - stop
	}
	if risk <= 0 {
		return 0
	}
	return utils.SafeDivide(reward, risk)
}

// tradeID is content-derived so rebuilding the journal from the same
// transactions yields the same trades, IDs included.
func tradeID(cycle models.TradeCycle, tradeNo int) string {
	seed := fmt.Sprintf("%d|%s", tradeNo, cycle.Symbol)
	if len(cycle.Transactions) > 0 {
		seed += "|" + cycle.Transactions[0].Timestamp().Format(time.RFC3339)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

func nonZeroLots(lots []models.Lot) []models.Lot {
	var out []models.Lot
	for _, l := range lots {
		if !l.IsZero() {
			out = append(out, l)
		}
	}
	return out
}
