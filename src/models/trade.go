package models

import "time"

// PositionStatus classifies how much of a trade has been exited.
type PositionStatus string

const (
	StatusOpen    PositionStatus = "Open"
	StatusPartial PositionStatus = "Partial"
	StatusClosed  PositionStatus = "Closed"
)

// Lot is one priced parcel of a trade: an entry (primary or pyramid) or a
// consolidated exit slot. A zero-quantity lot means the slot is unused.
type Lot struct {
	Price float64   `json:"price"`
	Qty   float64   `json:"qty"`
	Date  time.Time `json:"date"`
}

// IsZero reports whether the slot is unused.
func (l Lot) IsZero() bool { return l.Qty == 0 }

// Trade is the canonical journal entity built from one TradeCycle.
// Entry and exit lots are fixed-size by design: the consolidators merge
// overflow into the last slot with a quantity-weighted average, and the
// array type keeps that lossy contract visible.
type Trade struct {
	ID      string `json:"id"`
	TradeNo int    `json:"trade_no"`
	Symbol  string `json:"symbol"`
	Source  string `json:"source,omitempty"`

	Direction Side   `json:"direction"` // Buy for long, Sell for short
	Entries   [3]Lot `json:"entries"`   // primary + up to 2 pyramids
	Exits     [3]Lot `json:"exits"`

	// Inputs supplied by the host, not derived.
	CMP float64 `json:"cmp,omitempty"` // current market price, 0 when unknown
	SL  float64 `json:"sl,omitempty"`
	TSL float64 `json:"tsl,omitempty"`

	// Derived fields; recomputed wholesale whenever any input changes.
	AvgEntry     float64        `json:"avg_entry"`
	AvgExitPrice float64        `json:"avg_exit_price"`
	PositionSize float64        `json:"position_size"`
	Allocation   float64        `json:"allocation_pct"`
	TotalQty     float64        `json:"total_qty"`
	ExitedQty    float64        `json:"exited_qty"`
	OpenQty      float64        `json:"open_qty"`
	RealizedPL   float64        `json:"realized_pl"`
	UnrealizedPL float64        `json:"unrealized_pl"`
	StockMove    float64        `json:"stock_move_pct"`
	HoldingDays  int            `json:"holding_days"`
	Status       PositionStatus `json:"position_status"`
	RewardRisk   float64        `json:"reward_risk"`
	PFImpact     float64        `json:"pf_impact_pct"`
	CumPF        float64        `json:"cum_pf_pct"`
}

// EntryDate is the date of the primary entry lot.
func (t Trade) EntryDate() time.Time { return t.Entries[0].Date }

// LastExitDate is the date of the latest non-empty exit slot.
func (t Trade) LastExitDate() time.Time {
	var last time.Time
	for _, e := range t.Exits {
		if !e.IsZero() && e.Date.After(last) {
			last = e.Date
		}
	}
	return last
}

// CashBasisExit is the synthetic per-exit record used by the cash-basis
// projection: one per non-empty exit slot of a Partial/Closed trade, dated
// by the exit rather than the entry. It is derived on every projection pass
// and never persisted.
type CashBasisExit struct {
	ID         string    `json:"id"` // "<tradeID>_exit_<n>", or the bare tradeID for pass-through
	TradeID    string    `json:"trade_id"`
	Symbol     string    `json:"symbol"`
	Date       time.Time `json:"date"`
	Qty        float64   `json:"qty"`
	Price      float64   `json:"price"`
	RealizedPL float64   `json:"realized_pl"`
	PFImpact   float64   `json:"pf_impact_pct"`
	Status     PositionStatus `json:"position_status"`
}
