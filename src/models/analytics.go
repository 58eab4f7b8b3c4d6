package models

import (
	"fmt"
	"time"
)

// MonthYearKey keys per-month figures by month name and year, so the same
// calendar month in different years never aliases.
func MonthYearKey(month string, year int) string {
	return fmt.Sprintf("%s %d", month, year)
}

// DrawdownPoint is one trade's position in the cumulative-PF series.
type DrawdownPoint struct {
	TradeID          string    `json:"trade_id"`
	Symbol           string    `json:"symbol"`
	Date             time.Time `json:"date"`
	CumPF            float64   `json:"cum_pf_pct"`
	RunningMax       float64   `json:"running_max"`
	DrawdownFromPeak float64   `json:"drawdown_from_peak"`
	IsNewPeak        bool      `json:"is_new_peak"`
	IsRecovery       bool      `json:"is_recovery"`
	Commentary       string    `json:"commentary"`
}

// MonthlyPL is one month's gross/net result within the analyzed period.
type MonthlyPL struct {
	Month   string  `json:"month"` // "January" .. "December"
	Year    int     `json:"year"`
	GrossPL float64 `json:"gross_pl"`
	Taxes   float64 `json:"taxes"`
	NetPL   float64 `json:"net_pl"`
}

// PortfolioAnalyticsResult is the full output of the analytics engine for
// one period and accounting basis.
type PortfolioAnalyticsResult struct {
	DrawdownBreakdown []DrawdownPoint `json:"drawdown_breakdown"`
	MaxCumPF          float64         `json:"max_cum_pf"`
	MinCumPF          float64         `json:"min_cum_pf"`
	MaxDrawdown       float64         `json:"max_drawdown"`
	CurrentDrawdown   float64         `json:"current_drawdown"`
	Monthly           []MonthlyPL     `json:"monthly"`
	TotalGrossPL      float64         `json:"total_gross_pl"`
	TotalTaxes        float64         `json:"total_taxes"`
	TotalNetPL        float64         `json:"total_net_pl"`
	OpenPositions     int             `json:"open_positions"`
	OpenExposure      float64         `json:"open_exposure"`
}

// PortfolioSnapshot is one (month, year) capital record supplied by the
// portfolio-sizing collaborator. The engine only reads StartingCapital via
// the portfolio-size lookup.
type PortfolioSnapshot struct {
	ID              int64   `json:"id,omitempty"`
	Month           string  `json:"month"`
	Year            int     `json:"year"`
	StartingCapital float64 `json:"starting_capital"`
	CapitalChanges  float64 `json:"capital_changes"`
	GrossPL         float64 `json:"gross_pl"`
	ClosingCapital  float64 `json:"closing_capital"`
	Taxes           float64 `json:"taxes"`
}
