// filepath: internal/api/handlers/retention_handler.go
package handlers

import (
	"errors"
	"net/http"

	"aiopro/internal/logging"
	"aiopro/internal/services"
)

// @Summary Trigger a retention sweep
// @Description Immediately deletes crawl reports older than the configured maximum age.
// @Tags admin
// @Produce json
// @Success 200 {object} models.RetentionReport
// @Failure 400 {object} ErrorResponse "Retention is disabled"
// @Failure 403 {object} ErrorResponse "Admin key required"
// @Security BearerAuth
// @Router /api/retention [post]
func (h *Handlers) TriggerRetention(w http.ResponseWriter, r *http.Request) {
	report, err := h.Retention.TriggerRetention(r.Context(), actorName(r))
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		logging.Log.Errorf("TriggerRetention: sweep failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to run retention sweep.")
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}
