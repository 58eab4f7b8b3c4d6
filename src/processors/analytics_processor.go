// backend/src/processors/analytics_processor.go
package processors

import (
	"math"
	"sort"
	"time"

	"github.com/username/tradefolio/backend/src/models"
)

// Drawdown commentary thresholds, in cumulative-PF percentage points.
const (
	ddMild     = 2.0
	ddModerate = 5.0
	ddDeep     = 10.0
)

type analyticsProcessorImpl struct{}

// NewAnalyticsProcessor creates a new instance of AnalyticsProcessor.
func NewAnalyticsProcessor() AnalyticsProcessor {
	return &analyticsProcessorImpl{}
}

// Analyze rolls a chronologically sorted stream of Closed/Partial trades
// (each carrying its cumulative-PF value) into peak/drawdown analytics,
// and the basis-projected ledger into per-month gross/net P&L.
// taxesByMonth is keyed by models.MonthYearKey.
// One forward pass over each input; no state survives the call.
func (p *analyticsProcessorImpl) Analyze(trades []models.Trade, ledger []models.CashBasisExit, taxesByMonth map[string]float64) models.PortfolioAnalyticsResult {
	result := models.PortfolioAnalyticsResult{}
	p.analyzeDrawdown(trades, &result)
	p.analyzeMonthly(ledger, taxesByMonth, &result)
	return result
}

func (p *analyticsProcessorImpl) analyzeDrawdown(trades []models.Trade, result *models.PortfolioAnalyticsResult) {
	if len(trades) == 0 {
		return
	}

	// Peak for drawdown-from-peak never starts below zero; a losing first
	// trade is already a drawdown from flat.
	runningMax := math.Max(0, trades[0].CumPF)

	// Second, unclamped running pair tracks the all-time max drawdown over
	// raw cumulative values.
	rawPeak := trades[0].CumPF
	maxDrawdown := 0.0

	maxCumPF := trades[0].CumPF
	minCumPF := trades[0].CumPF
	prevDrawdown := 0.0

	points := make([]models.DrawdownPoint, 0, len(trades))
	for i, t := range trades {
		isNewPeak := false
		if t.CumPF > runningMax {
			runningMax = t.CumPF
			isNewPeak = true
		}
		drawdown := runningMax - t.CumPF
		if drawdown < 0 {
			drawdown = 0
		}

		if t.CumPF > rawPeak {
			rawPeak = t.CumPF
		}
		var rawDrawdown float64
		if rawPeak <= 0 {
			// Peak never got above water: measure the trough itself.
			rawDrawdown = math.Abs(math.Min(t.CumPF, 0))
		} else {
			rawDrawdown = rawPeak - t.CumPF
		}
		if rawDrawdown > maxDrawdown {
			maxDrawdown = rawDrawdown
		}

		maxCumPF = math.Max(maxCumPF, t.CumPF)
		minCumPF = math.Min(minCumPF, t.CumPF)

		isRecovery := i > 0 && drawdown == 0 && prevDrawdown > 0
		points = append(points, models.DrawdownPoint{
			TradeID:          t.ID,
			Symbol:           t.Symbol,
			Date:             t.EntryDate(),
			CumPF:            t.CumPF,
			RunningMax:       runningMax,
			DrawdownFromPeak: drawdown,
			IsNewPeak:        isNewPeak,
			IsRecovery:       isRecovery,
			Commentary:       commentaryFor(drawdown, isRecovery),
		})
		prevDrawdown = drawdown
	}

	result.DrawdownBreakdown = points
	result.MaxCumPF = maxCumPF
	result.MinCumPF = minCumPF
	result.MaxDrawdown = maxDrawdown
	result.CurrentDrawdown = points[len(points)-1].DrawdownFromPeak
}

func commentaryFor(drawdown float64, isRecovery bool) string {
	switch {
	case isRecovery:
		return "Recovered to peak"
	case drawdown == 0:
		return "At peak"
	case drawdown <= ddMild:
		return "Mild pullback"
	case drawdown <= ddModerate:
		return "Moderate drawdown"
	case drawdown <= ddDeep:
		return "Deep drawdown"
	default:
		return "Severe drawdown"
	}
}

func (p *analyticsProcessorImpl) analyzeMonthly(ledger []models.CashBasisExit, taxesByMonth map[string]float64, result *models.PortfolioAnalyticsResult) {
	type monthKey struct {
		year  int
		month time.Month
	}
	gross := make(map[monthKey]float64)
	for _, r := range ledger {
		if r.Date.IsZero() {
			continue
		}
		gross[monthKey{r.Date.Year(), r.Date.Month()}] += r.RealizedPL
	}

	keys := make([]monthKey, 0, len(gross))
	for k := range gross {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	for _, k := range keys {
		taxes := taxesByMonth[models.MonthYearKey(k.month.String(), k.year)]
		monthly := models.MonthlyPL{
			Month:   k.month.String(),
			Year:    k.year,
			GrossPL: gross[k],
			Taxes:   taxes,
			NetPL:   gross[k] - taxes,
		}
		result.Monthly = append(result.Monthly, monthly)
		result.TotalGrossPL += monthly.GrossPL
		result.TotalTaxes += monthly.Taxes
		result.TotalNetPL += monthly.NetPL
	}
}
