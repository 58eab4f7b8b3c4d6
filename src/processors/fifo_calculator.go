// backend/src/processors/fifo_calculator.go
package processors

import (
	"github.com/username/tradefolio/backend/src/models"
)

// LotMatch is one entry/exit pairing produced by FIFO matching.
type LotMatch struct {
	EntrySlot  int     `json:"entry_slot"`
	ExitSlot   int     `json:"exit_slot"`
	Qty        float64 `json:"qty"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	PL         float64 `json:"pl"`
}

// ComputeFIFO matches entry lots against exit lots in arrival order and
// returns the realized P&L over the exited quantity, plus the individual
// matches. Long trades realize (exit − entry) × qty per match; short
// trades realize (entry − exit) × qty. The open remainder contributes
// nothing here; unrealized P&L is a separate field computed against the
// current market price.
func ComputeFIFO(entries, exits []models.Lot, direction models.Side) (float64, []LotMatch) {
	var total float64
	var matches []LotMatch

	entryIdx, exitIdx := 0, 0
	entryRemaining, exitRemaining := 0.0, 0.0

	advanceEntry := func() bool {
		for entryIdx < len(entries) && entryRemaining == 0 {
			entryRemaining = entries[entryIdx].Qty
			if entryRemaining == 0 {
				entryIdx++
			}
		}
		return entryIdx < len(entries)
	}
	advanceExit := func() bool {
		for exitIdx < len(exits) && exitRemaining == 0 {
			exitRemaining = exits[exitIdx].Qty
			if exitRemaining == 0 {
				exitIdx++
			}
		}
		return exitIdx < len(exits)
	}

	for advanceEntry() && advanceExit() {
		matched := entryRemaining
		if exitRemaining < matched {
			matched = exitRemaining
		}

		entryPrice := entries[entryIdx].Price
		exitPrice := exits[exitIdx].Price
		var pl float64
		if direction == models.SideSell {
			pl = (entryPrice - exitPrice) * matched
		} else {
			pl = (exitPrice - entryPrice) * matched
		}
		matches = append(matches, LotMatch{
			EntrySlot:  entryIdx,
			ExitSlot:   exitIdx,
			Qty:        matched,
			EntryPrice: entryPrice,
			ExitPrice:  exitPrice,
			PL:         pl,
		})
		total += pl

		entryRemaining -= matched
		exitRemaining -= matched
		if entryRemaining == 0 {
			entryIdx++
		}
		if exitRemaining == 0 {
			exitIdx++
		}
	}
	return total, matches
}
