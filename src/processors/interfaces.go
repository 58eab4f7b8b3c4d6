// backend/src/processors/interfaces.go
package processors

import (
	"github.com/username/tradefolio/backend/src/models"
)

// PortfolioSizeLookup returns the starting capital for a month ("January"
// .. "December") and year. Supplied by the portfolio-sizing collaborator;
// a zero return degrades the dependent percentage fields to 0.
type PortfolioSizeLookup func(month string, year int) float64

// CycleDetector groups raw transactions into discrete position cycles.
type CycleDetector interface {
	Process(txs []models.RawTransaction) []models.TradeCycle
}

// ExitConsolidator collapses an arbitrary number of exit transactions into
// the trade's three fixed exit slots.
type ExitConsolidator interface {
	Consolidate(exits []models.RawTransaction) [3]models.Lot
}

// TradeAssembler builds the canonical Trade from one cycle. Recompute
// rebuilds every derived field from the trade's lots and host inputs
// (CMP, SL/TSL); trades are never patched incrementally.
type TradeAssembler interface {
	Assemble(cycle models.TradeCycle, tradeNo int, cmp float64) models.Trade
	Recompute(trade models.Trade) models.Trade
}

// BasisProjector produces the accrual- or cash-basis ledger view of a
// trade list, and the exposure deduplication over cash-basis records.
type BasisProjector interface {
	Project(trades []models.Trade, useCashBasis bool) []models.CashBasisExit
	DedupeForExposure(records []models.CashBasisExit) []models.CashBasisExit
}

// AnalyticsProcessor rolls a chronologically ordered trade stream up into
// cumulative-PF / drawdown / monthly P&L analytics.
type AnalyticsProcessor interface {
	Analyze(trades []models.Trade, ledger []models.CashBasisExit, taxesByMonth map[string]float64) models.PortfolioAnalyticsResult
}
