// filepath: internal/api/handlers/report_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"aiopro/internal/logging"
	"aiopro/internal/models"
	"aiopro/internal/services"
)

// @Summary Get a crawl report
// @Description Retrieves a full crawl report, including per-page results and all discovered links.
// @Tags reports
// @Produce json
// @Param id query string true "Report ID"
// @Success 200 {object} models.CrawlReport
// @Failure 400 {object} ErrorResponse "Missing id parameter"
// @Failure 404 {object} ErrorResponse "Report not found"
// @Security BearerAuth
// @Router /api/report [get]
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required query parameter: id")
		return
	}

	report, err := h.Report.GetReport(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Report not found.")
			return
		}
		logging.Log.Errorf("GetReport: failed to load report %s: %v", id, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load report.")
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// @Summary List crawl reports
// @Description Lists report summaries, newest first. Supports status, time range and pagination filters.
// @Tags reports
// @Produce json
// @Param status query string false "Filter by status (complete|failed)"
// @Param since query string false "Only reports created after this RFC3339 timestamp"
// @Param until query string false "Only reports created before this RFC3339 timestamp"
// @Param limit query int false "Page size (default 100, max 500)"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.CrawlReport
// @Failure 400 {object} ErrorResponse "Invalid filter parameter"
// @Security BearerAuth
// @Router /api/reports [get]
func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	filter, err := parseReportFilter(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	reports, err := h.Report.ListReports(filter)
	if err != nil {
		logging.Log.Errorf("ListReports: query failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list reports.")
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

// @Summary Delete a crawl report
// @Description Removes a stored crawl report and its pages.
// @Tags reports
// @Produce json
// @Param id query string true "Report ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Missing id parameter"
// @Failure 404 {object} ErrorResponse "Report not found"
// @Security BearerAuth
// @Router /api/report [delete]
func (h *Handlers) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required query parameter: id")
		return
	}

	if err := h.Report.DeleteReport(r.Context(), actorName(r), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Report not found.")
			return
		}
		logging.Log.Errorf("DeleteReport: failed to delete %s: %v", id, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete report.")
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Report deleted."})
}

func parseReportFilter(r *http.Request) (models.ReportFilter, error) {
	var filter models.ReportFilter
	q := r.URL.Query()

	filter.Status = q.Get("status")
	if filter.Status != "" &&
		filter.Status != models.ReportStatusComplete &&
		filter.Status != models.ReportStatusFailed {
		return filter, errors.New("invalid status filter")
	}

	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("invalid since timestamp, expected RFC3339")
		}
		filter.Since = t
	}
	if v := q.Get("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("invalid until timestamp, expected RFC3339")
		}
		filter.Until = t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.New("invalid offset")
		}
		filter.Offset = n
	}

	return filter, nil
}
