// backend/src/handlers/analytics_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/services"
	"github.com/username/tradefolio/backend/src/utils"
)

type AnalyticsHandler struct {
	journalService services.JournalService
}

func NewAnalyticsHandler(service services.JournalService) *AnalyticsHandler {
	return &AnalyticsHandler{
		journalService: service,
	}
}

// HandleGetAnalytics returns the drawdown and monthly P&L rollup for the
// requested accounting basis (?basis=cash|accrual), optionally restricted
// to one calendar year (?year=2024).
func (h *AnalyticsHandler) HandleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1900 || parsed > 2200 {
			utils.SendJSONError(w, "Invalid year", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	result, err := h.journalService.GetAnalytics(userID, useCashBasis(r), year)
	if err != nil {
		logger.L.Error("Error computing analytics", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to compute analytics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
