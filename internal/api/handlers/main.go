// filepath: internal/api/handlers/main.go
package handlers

import (
	"aiopro/internal/config"
	"aiopro/internal/services"
	"aiopro/internal/services/auth"
)

// Handlers provides a struct to hold shared dependencies for API handlers.
type Handlers struct {
	// --- Depend on interfaces, not concrete structs ---
	Info      services.InfoService
	Crawl     services.CrawlService
	Report    services.ReportService
	Key       services.KeyService
	Retention services.RetentionService
	Token     auth.TokenService

	Cfg *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	crawl services.CrawlService,
	report services.ReportService,
	key services.KeyService,
	retention services.RetentionService,
	token auth.TokenService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Info:      info,
		Crawl:     crawl,
		Report:    report,
		Key:       key,
		Retention: retention,
		Token:     token,
		Cfg:       cfg,
	}
}
