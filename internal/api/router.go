// filepath: internal/api/router.go
package api

import (
	"net/http"

	"aiopro/internal/api/handlers"
	"aiopro/internal/config"
	"aiopro/internal/services/auth"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter configures the main router and its sub-routers.
// It sets up public endpoints, the authenticated API, and admin routes.
func SetupRouter(h *handlers.Handlers, am *auth.Middleware, cfg *config.Config) http.Handler {
	r := mux.NewRouter()

	// Public Endpoints
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	r.HandleFunc("/api/info", h.GetInfo).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// The crawl endpoint lives at the root (it is the GPT action target),
	// but still requires a key.
	crawlRoute := r.PathPrefix("/crawl_site").Subrouter()
	crawlRoute.Use(am.RequireKey)
	crawlRoute.HandleFunc("", h.CrawlSite).Methods("POST")

	// Authenticated API Routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(am.RequireKey)

	apiRouter.HandleFunc("/token", h.GetToken).Methods("POST")
	addReportRoutes(apiRouter, h)
	addAdminRoutes(apiRouter, h, am)

	// CORS wraps the router itself so preflight requests get answered
	// even for routes that only register POST or DELETE.
	return corsMiddleware(cfg.Server.CORSOrigins)(r)
}

// addReportRoutes configures routes related to stored crawl reports.
func addReportRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/reports", h.ListReports).Methods("GET")
	r.HandleFunc("/report", h.GetReport).Methods("GET")
	r.HandleFunc("/report", h.DeleteReport).Methods("DELETE")
}

// addAdminRoutes configures routes requiring an admin key.
func addAdminRoutes(r *mux.Router, h *handlers.Handlers, am *auth.Middleware) {
	adminRouter := r.PathPrefix("").Subrouter()
	adminRouter.Use(am.RequireAdmin)
	adminRouter.HandleFunc("/keys", h.GetKeys).Methods("GET")
	adminRouter.HandleFunc("/key", h.CreateKey).Methods("POST")
	adminRouter.HandleFunc("/key", h.RevokeKey).Methods("DELETE")
	adminRouter.HandleFunc("/retention", h.TriggerRetention).Methods("POST")
}
