// backend/src/handlers/snapshot_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/tradefolio/backend/src/database"
	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/model"
	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/services"
	"github.com/username/tradefolio/backend/src/utils"
)

type SnapshotHandler struct {
	journalService services.JournalService
}

func NewSnapshotHandler(service services.JournalService) *SnapshotHandler {
	return &SnapshotHandler{
		journalService: service,
	}
}

func (h *SnapshotHandler) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	snapshots, err := model.ListSnapshots(database.DB, userID)
	if err != nil {
		logger.L.Error("Error listing portfolio snapshots", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve snapshots", http.StatusInternalServerError)
		return
	}
	if snapshots == nil {
		snapshots = []models.PortfolioSnapshot{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshots)
}

// HandleSaveSnapshot upserts one (month, year) capital record. Allocation
// and PF-impact percentages depend on starting capital, so every saved
// snapshot triggers a trade recalculation.
func (h *SnapshotHandler) HandleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var snapshot models.PortfolioSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validMonth(snapshot.Month) {
		utils.SendJSONError(w, "Invalid month name", http.StatusBadRequest)
		return
	}
	if snapshot.Year < 1900 || snapshot.Year > 2200 {
		utils.SendJSONError(w, "Invalid year", http.StatusBadRequest)
		return
	}
	if snapshot.StartingCapital < 0 {
		utils.SendJSONError(w, "Starting capital cannot be negative", http.StatusBadRequest)
		return
	}

	if err := model.SaveSnapshot(database.DB, userID, &snapshot); err != nil {
		logger.L.Error("Error saving portfolio snapshot", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to save snapshot", http.StatusInternalServerError)
		return
	}

	if err := h.journalService.RecalculateTrades(userID); err != nil {
		logger.L.Error("Error recalculating trades after snapshot save", "userID", userID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

func (h *SnapshotHandler) HandleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid snapshot ID", http.StatusBadRequest)
		return
	}

	if err := model.DeleteSnapshot(database.DB, userID, id); err != nil {
		logger.L.Error("Error deleting portfolio snapshot", "userID", userID, "snapshotID", id, "error", err)
		utils.SendJSONError(w, "Failed to delete snapshot", http.StatusInternalServerError)
		return
	}

	if err := h.journalService.RecalculateTrades(userID); err != nil {
		logger.L.Error("Error recalculating trades after snapshot delete", "userID", userID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "snapshot deleted"})
}

func validMonth(month string) bool {
	for m := time.January; m <= time.December; m++ {
		if m.String() == month {
			return true
		}
	}
	return false
}
