// filepath: internal/models/models.go
package models

import "time"

// Info describes the running service. Returned by GET /api/info.
type Info struct {
	ServiceName string    `json:"service"`
	Version     string    `json:"version"`
	UptimeSince time.Time `json:"uptime_since"`
}

// CrawlRequest is the body of POST /crawl_site.
type CrawlRequest struct {
	StartURL string `json:"start_url"`
	MaxPages int    `json:"max_pages"`
}

// CrawlResult is the response of POST /crawl_site. The url, link_count and
// links fields form the contract consumed by the GPT action; links is capped
// at the first 20 discovered links.
type CrawlResult struct {
	URL          string   `json:"url"`
	LinkCount    int      `json:"link_count"`
	Links        []string `json:"links"`
	ReportID     string   `json:"report_id"`
	PagesCrawled int      `json:"pages_crawled"`
	DurationMS   int64    `json:"duration_ms"`
}

// Crawl report statuses.
const (
	ReportStatusComplete = "complete"
	ReportStatusFailed   = "failed"
)

// CrawlReport is a persisted crawl run.
type CrawlReport struct {
	ID           string      `json:"id"`
	StartURL     string      `json:"start_url"`
	Status       string      `json:"status"`
	PagesCrawled int         `json:"pages_crawled"`
	LinkCount    int         `json:"link_count"`
	Links        []string    `json:"links,omitempty"`
	Pages        []CrawlPage `json:"pages,omitempty"`
	Error        string      `json:"error,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	DurationMS   int64       `json:"duration_ms"`
}

// CrawlPage is a single fetched page within a report. A page that could not
// be fetched has StatusCode 0 and carries the failure in Error.
type CrawlPage struct {
	URL        string    `json:"url"`
	Title      string    `json:"title,omitempty"`
	StatusCode int       `json:"status_code"`
	LinkCount  int       `json:"link_count"`
	Error      string    `json:"error,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// ReportFilter narrows ListReports.
type ReportFilter struct {
	Status string
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// RetentionReport summarizes one retention sweep.
type RetentionReport struct {
	Deleted int64     `json:"deleted"`
	Cutoff  time.Time `json:"cutoff"`
	Message string    `json:"message"`
}

// APIKey is the stored metadata of an issued key. The plaintext secret is
// returned exactly once at creation time and only its bcrypt hash is kept.
type APIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	SecretHash string     `json:"-"`
	IsAdmin    bool       `json:"is_admin"`
	Revoked    bool       `json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// KeyIdentity is the authenticated caller attached to the request context.
// The configured master API_KEY authenticates as an implicit admin identity.
type KeyIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}
