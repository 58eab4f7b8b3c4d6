// backend/src/handlers/trade_handler.go
package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/security/validation"
	"github.com/username/tradefolio/backend/src/services"
	"github.com/username/tradefolio/backend/src/utils"
)

type TradeHandler struct {
	journalService services.JournalService
}

func NewTradeHandler(service services.JournalService) *TradeHandler {
	return &TradeHandler{
		journalService: service,
	}
}

// useCashBasis reads the accounting basis from the query string. Accrual is
// the default; only an explicit "cash" switches.
func useCashBasis(r *http.Request) bool {
	return r.URL.Query().Get("basis") == "cash"
}

func (h *TradeHandler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	trades, err := h.journalService.GetTrades(userID)
	if err != nil {
		logger.L.Error("Error retrieving trades", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve trades", http.StatusInternalServerError)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trades)
}

func (h *TradeHandler) HandleGetLedger(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	ledger, err := h.journalService.GetLedger(userID, useCashBasis(r))
	if err != nil {
		logger.L.Error("Error retrieving ledger", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve ledger", http.StatusInternalServerError)
		return
	}
	if ledger == nil {
		ledger = []models.CashBasisExit{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ledger)
}

// HandleExportTrades streams the journal as a CSV download.
func (h *TradeHandler) HandleExportTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	trades, err := h.journalService.GetTrades(userID)
	if err != nil {
		logger.L.Error("Error retrieving trades for export", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to export trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trades.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(tradeExportRecords(trades)); err != nil {
		logger.L.Error("Error writing trade export", "userID", userID, "error", err)
	}
}

var tradeExportHeader = []string{
	"trade_no", "symbol", "source", "direction", "status",
	"total_qty", "exited_qty", "open_qty", "avg_entry", "avg_exit",
	"realized_pl", "unrealized_pl", "stock_move_pct", "holding_days",
	"allocation_pct", "pf_impact_pct", "cum_pf_pct",
}

// tradeExportRecords renders trades as CSV rows. Text cells that came in
// from broker files are neutralized against spreadsheet formula injection
// before they go back out to a spreadsheet.
func tradeExportRecords(trades []models.Trade) [][]string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	records := make([][]string, 0, len(trades)+1)
	records = append(records, tradeExportHeader)
	for _, t := range trades {
		records = append(records, []string{
			strconv.Itoa(t.TradeNo),
			validation.SanitizeForFormulaInjection(t.Symbol),
			validation.SanitizeForFormulaInjection(t.Source),
			string(t.Direction),
			string(t.Status),
			num(t.TotalQty),
			num(t.ExitedQty),
			num(t.OpenQty),
			num(t.AvgEntry),
			num(t.AvgExitPrice),
			num(t.RealizedPL),
			num(t.UnrealizedPL),
			num(t.StockMove),
			strconv.Itoa(t.HoldingDays),
			num(t.Allocation),
			num(t.PFImpact),
			num(t.CumPF),
		})
	}
	return records
}

func (h *TradeHandler) HandleUpdateTradeInputs(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	tradeID := chi.URLParam(r, "tradeID")
	if tradeID == "" {
		utils.SendJSONError(w, "Trade ID is required", http.StatusBadRequest)
		return
	}

	var input services.TradeInputs
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := h.journalService.UpdateTradeInputs(userID, tradeID, input)
	if err != nil {
		if errors.Is(err, services.ErrTradeNotFound) {
			utils.SendJSONError(w, "Trade not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error updating trade inputs", "userID", userID, "tradeID", tradeID, "error", err)
		utils.SendJSONError(w, "Failed to update trade", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trade)
}

func (h *TradeHandler) HandleDeleteAllTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.journalService.DeleteAllTrades(userID); err != nil {
		logger.L.Error("Error deleting journal data", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to delete journal data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "all journal data deleted"})
}
