// filepath: internal/api/handlers/health_handler.go
package handlers

import (
	"net/http"

	"aiopro/internal/services"
)

// healthResponse is the fixed payload hosting infrastructure polls for.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthCheck is a simple public endpoint to confirm the server is running.
// @Summary Health check
// @Description Returns a static payload confirming the service process is alive.
// @Tags Info
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: services.ServiceName,
	})
}
