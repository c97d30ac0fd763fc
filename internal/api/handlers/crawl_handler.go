// filepath: internal/api/handlers/crawl_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"aiopro/internal/logging"
	"aiopro/internal/models"
	"aiopro/internal/services"
	"aiopro/internal/services/auth"
)

// @Summary Crawl a website
// @Description Crawls a site breadth-first starting at start_url, staying on the start host, and returns the discovered links (first 20) together with a persisted report ID.
// @Tags crawl
// @Accept json
// @Produce json
// @Param request body models.CrawlRequest true "Crawl parameters"
// @Success 200 {object} models.CrawlResult
// @Failure 400 {object} ErrorResponse "Invalid request or unreachable start page"
// @Failure 401 {object} ErrorResponse "Missing or invalid API key"
// @Security BearerAuth
// @Router /crawl_site [post]
func (h *Handlers) CrawlSite(w http.ResponseWriter, r *http.Request) {
	var req models.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.Log.Warnf("CrawlSite: failed to decode request body: %v", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.StartURL == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required field: start_url")
		return
	}

	result, err := h.Crawl.CrawlSite(r.Context(), actorName(r), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrFetchFailed):
			// Wire contract: "Fetch failed: <cause>"
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			logging.Log.Errorf("CrawlSite: crawl of %s failed: %v", req.StartURL, err)
			respondWithError(w, http.StatusInternalServerError, "Failed to run crawl.")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// actorName resolves the audit actor from the authenticated identity.
func actorName(r *http.Request) string {
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		return identity.Name
	}
	return "unknown"
}
