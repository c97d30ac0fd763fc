// filepath: internal/services/interfaces.go
package services

import (
	"context"

	"aiopro/internal/models"
)

// Auditor defines the interface for recording security-relevant events.
type Auditor interface {
	// Log records an event.
	// ctx: context to trace request IDs (if available)
	// action: what happened (e.g., "key.create", "crawl.run")
	// actor: who did it (key name or "master")
	// resource: what was affected (e.g., a report ID or a start URL)
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// CrawlService defines the interface for running site crawls.
type CrawlService interface {
	CrawlSite(ctx context.Context, actor string, req models.CrawlRequest) (*models.CrawlResult, error)
}

// ReportService defines the interface for accessing stored crawl reports.
type ReportService interface {
	GetReport(id string) (*models.CrawlReport, error)
	ListReports(filter models.ReportFilter) ([]models.CrawlReport, error)
	DeleteReport(ctx context.Context, actor string, id string) error
}

// KeyService defines the interface for API key management and authentication.
type KeyService interface {
	// CreateKey returns the stored record and the one-time plaintext key.
	CreateKey(ctx context.Context, actor string, name string, admin bool) (*models.APIKey, string, error)
	Authenticate(ctx context.Context, plaintext string) (*models.KeyIdentity, error)
	RevokeKey(ctx context.Context, actor string, id string) error
	GetKeys() ([]models.APIKey, error)
}

// RetentionService defines the interface for the report retention worker.
type RetentionService interface {
	Start()
	Stop()
	TriggerRetention(ctx context.Context, actor string) (*models.RetentionReport, error)
}
