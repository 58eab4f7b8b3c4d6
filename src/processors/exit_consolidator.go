// backend/src/processors/exit_consolidator.go
package processors

import (
	"github.com/username/tradefolio/backend/src/models"
)

type exitConsolidatorImpl struct{}

// NewExitConsolidator creates a new instance of ExitConsolidator.
func NewExitConsolidator() ExitConsolidator {
	return &exitConsolidatorImpl{}
}

// Consolidate maps exit transactions (already in timestamp order) onto the
// three fixed exit slots. The first two exits land verbatim in slots 1 and
// 2; every further exit is merged into slot 3 with a quantity-weighted
// average price, dated by the last merged exit. The merge is lossy on
// purpose: the canonical trade shape has exactly three exit slots.
func (p *exitConsolidatorImpl) Consolidate(exits []models.RawTransaction) [3]models.Lot {
	return ConsolidateIntoSlots(exits)
}

// ConsolidateIntoSlots implements the 3-slot merge. It is shared with the
// trade assembler, which applies the same overflow policy to entry lots.
func ConsolidateIntoSlots(txs []models.RawTransaction) [3]models.Lot {
	var slots [3]models.Lot
	if len(txs) == 0 {
		return slots
	}

	for i := 0; i < len(txs) && i < 2; i++ {
		slots[i] = models.Lot{Price: txs[i].Price, Qty: txs[i].Quantity, Date: txs[i].Date}
	}
	if len(txs) <= 2 {
		return slots
	}
	if len(txs) == 3 {
		slots[2] = models.Lot{Price: txs[2].Price, Qty: txs[2].Quantity, Date: txs[2].Date}
		return slots
	}

	// Overflow: merge txs[2:] with avgPrice = Σ(qty·price) / Σqty.
	var sumQty, sumNotional float64
	for _, tx := range txs[2:] {
		sumQty += tx.Quantity
		sumNotional += tx.Quantity * tx.Price
	}
	merged := models.Lot{Qty: sumQty, Date: txs[len(txs)-1].Date}
	if sumQty > 0 {
		merged.Price = sumNotional / sumQty
	}
	slots[2] = merged
	return slots
}
