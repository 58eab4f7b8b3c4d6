package models

import "time"

// Side is the direction of a single broker transaction.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// RawTransaction is the unified representation of one executed broker
// transaction. Each parser populates it directly from the source rows.
// It is immutable once produced; downstream stages never mutate it.
type RawTransaction struct {
	Source        string    `json:"source"` // e.g., "zerodha", "dhan", "upstox", "generic"
	Symbol        string    `json:"symbol"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time,omitempty"` // optional HH:MM:SS from the broker file
	Side          Side      `json:"side"`
	Quantity      float64   `json:"quantity"` // always > 0; direction lives in Side
	Price         float64   `json:"price"`    // always > 0
	TradeID       string    `json:"trade_id,omitempty"`
	OrderID       string    `json:"order_id,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
	Segment       string    `json:"segment,omitempty"`
	RawText       string    `json:"raw_text,omitempty"`
	AmbiguousDate bool      `json:"ambiguous_date,omitempty"` // DD/MM vs MM/DD could not be decided from the data
}

// Timestamp combines Date and the optional Time into a sortable instant.
// Rows without a time component sort at midnight, preserving file order
// among themselves via the stable sort upstream.
func (t RawTransaction) Timestamp() time.Time {
	if t.Time == "" {
		return t.Date
	}
	parsed, err := time.Parse("15:04:05", t.Time)
	if err != nil {
		return t.Date
	}
	return t.Date.Add(time.Duration(parsed.Hour())*time.Hour +
		time.Duration(parsed.Minute())*time.Minute +
		time.Duration(parsed.Second())*time.Second)
}

// TradeCycle is an ordered run of one symbol's transactions whose signed
// running position starts at zero, is nonzero throughout the interior, and
// returns to zero at the last element, or is left open if the stream ends
// first. Invariant: BuyQty() >= SellQty(), with equality iff Closed.
type TradeCycle struct {
	Symbol       string           `json:"symbol"`
	Transactions []RawTransaction `json:"transactions"`
	Closed       bool             `json:"closed"`
}

// BuyQty returns the total bought quantity in the cycle.
func (c TradeCycle) BuyQty() float64 {
	var total float64
	for _, tx := range c.Transactions {
		if tx.Side == SideBuy {
			total += tx.Quantity
		}
	}
	return total
}

// SellQty returns the total sold quantity in the cycle.
func (c TradeCycle) SellQty() float64 {
	var total float64
	for _, tx := range c.Transactions {
		if tx.Side == SideSell {
			total += tx.Quantity
		}
	}
	return total
}

// BySide splits the cycle's transactions preserving order.
func (c TradeCycle) BySide(side Side) []RawTransaction {
	var out []RawTransaction
	for _, tx := range c.Transactions {
		if tx.Side == side {
			out = append(out, tx)
		}
	}
	return out
}
