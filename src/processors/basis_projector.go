// backend/src/processors/basis_projector.go
package processors

import (
	"fmt"
	"strings"

	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/utils"
)

const exitIDSeparator = "_exit_"

type basisProjectorImpl struct{}

// NewBasisProjector creates a new instance of BasisProjector.
func NewBasisProjector() BasisProjector {
	return &basisProjectorImpl{}
}

// Project produces the ledger view of the trade list.
//
// Accrual basis (default): one record per trade, dated by the entry, with
// the trade's full realized P&L attributed to the entry month.
//
// Cash basis: every Partial/Closed trade with at least one exit expands
// into one child record per non-empty exit slot, dated by that exit and
// carrying only that slot's FIFO share of the P&L. Open trades pass
// through unchanged. Records are regenerated on every pass, never stored.
func (p *basisProjectorImpl) Project(trades []models.Trade, useCashBasis bool) []models.CashBasisExit {
	var records []models.CashBasisExit
	for _, t := range trades {
		if !useCashBasis || t.Status == models.StatusOpen || t.ExitedQty == 0 {
			records = append(records, passThroughRecord(t, useCashBasis))
			continue
		}
		records = append(records, expandTrade(t)...)
	}
	return records
}

func passThroughRecord(t models.Trade, useCashBasis bool) models.CashBasisExit {
	record := models.CashBasisExit{
		ID:         t.ID,
		TradeID:    t.ID,
		Symbol:     t.Symbol,
		Date:       t.EntryDate(),
		Qty:        t.TotalQty,
		Price:      t.AvgEntry,
		RealizedPL: t.RealizedPL,
		PFImpact:   t.PFImpact,
		Status:     t.Status,
	}
	if useCashBasis {
		// Open trade in cash view: nothing realized yet.
		record.RealizedPL = 0
		record.PFImpact = 0
	}
	return record
}

// expandTrade re-runs the FIFO match to attribute P&L per exit slot; the
// match cursor consumes exits in slot order, so grouping matches by exit
// index recovers each slot's share exactly (FIFO additivity).
func expandTrade(t models.Trade) []models.CashBasisExit {
	exits := nonZeroLots(t.Exits[:])
	_, matches := ComputeFIFO(nonZeroLots(t.Entries[:]), exits, t.Direction)

	plBySlot := make([]float64, len(exits))
	for _, m := range matches {
		plBySlot[m.ExitSlot] += m.PL
	}

	records := make([]models.CashBasisExit, 0, len(exits))
	for i, exit := range exits {
		share := utils.SafeDivide(plBySlot[i], t.RealizedPL)
		records = append(records, models.CashBasisExit{
			ID:         fmt.Sprintf("%s%s%d", t.ID, exitIDSeparator, i+1),
			TradeID:    t.ID,
			Symbol:     t.Symbol,
			Date:       exit.Date,
			Qty:        exit.Qty,
			Price:      exit.Price,
			RealizedPL: plBySlot[i],
			PFImpact:   t.PFImpact * share,
			Status:     t.Status,
		})
	}
	return records
}

// DedupeForExposure collapses cash-basis-expanded records back to one per
// original trade by stripping the synthetic id suffix and keeping only the
// first occurrence. Exposure metrics would otherwise count the same open
// risk once per exit slot.
func (p *basisProjectorImpl) DedupeForExposure(records []models.CashBasisExit) []models.CashBasisExit {
	seen := make(map[string]bool, len(records))
	var out []models.CashBasisExit
	for _, r := range records {
		parentID := r.ID
		if idx := strings.Index(parentID, exitIDSeparator); idx >= 0 {
			parentID = parentID[:idx]
		}
		if seen[parentID] {
			continue
		}
		seen[parentID] = true
		out = append(out, r)
	}
	return out
}
