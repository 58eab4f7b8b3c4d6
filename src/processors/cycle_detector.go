// backend/src/processors/cycle_detector.go
package processors

import (
	"sort"

	"github.com/username/tradefolio/backend/src/models"
)

type cycleDetectorImpl struct{}

// NewCycleDetector creates a new instance of CycleDetector.
func NewCycleDetector() CycleDetector {
	return &cycleDetectorImpl{}
}

// Process splits the input into per-symbol streams, orders each stream by
// timestamp (stable, so file order breaks ties) and reduces it into
// cycles. Each symbol is processed in isolation with no shared state.
func (p *cycleDetectorImpl) Process(txs []models.RawTransaction) []models.TradeCycle {
	bySymbol := make(map[string][]models.RawTransaction)
	var symbolOrder []string
	for _, tx := range txs {
		if _, seen := bySymbol[tx.Symbol]; !seen {
			symbolOrder = append(symbolOrder, tx.Symbol)
		}
		bySymbol[tx.Symbol] = append(bySymbol[tx.Symbol], tx)
	}

	var cycles []models.TradeCycle
	for _, symbol := range symbolOrder {
		stream := bySymbol[symbol]
		sort.SliceStable(stream, func(i, j int) bool {
			return stream[i].Timestamp().Before(stream[j].Timestamp())
		})
		cycles = append(cycles, detectSymbolCycles(symbol, stream)...)
	}
	return cycles
}

// detectSymbolCycles is the running-position reducer: a pure left-to-right
// scan, O(n), no backtracking. State is the signed position plus the
// current cycle buffer; a return to exactly zero closes the cycle.
func detectSymbolCycles(symbol string, stream []models.RawTransaction) []models.TradeCycle {
	var cycles []models.TradeCycle
	var current []models.RawTransaction
	runningPosition := 0.0

	emit := func(closed bool) {
		if len(current) == 0 {
			return
		}
		cycle := models.TradeCycle{Symbol: symbol, Transactions: current, Closed: closed}
		// A cycle with no buys cannot originate a trade (bare sells are
		// orphans from data that starts mid-position).
		if cycle.BuyQty() > 0 {
			cycles = append(cycles, cycle)
		}
		current = nil
	}

	for _, tx := range stream {
		current = append(current, tx)
		if tx.Side == models.SideBuy {
			runningPosition += tx.Quantity
		} else {
			runningPosition -= tx.Quantity
		}
		if runningPosition == 0 {
			emit(true)
		}
	}
	// Whatever remains is one final open cycle.
	emit(false)

	return cycles
}
