// filepath: internal/services/crawl_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"aiopro/internal/config"
	"aiopro/internal/crawler"
	"aiopro/internal/logging"
	"aiopro/internal/models"
	"aiopro/internal/repository"
)

var _ CrawlService = (*crawlService)(nil)

// crawlService runs crawls and persists their reports.
type crawlService struct {
	Repo    repository.Store
	Crawler *crawler.Crawler
	Cfg     *config.Config
	Auditor Auditor
}

// NewCrawlService creates a new CrawlService.
func NewCrawlService(repo repository.Store, c *crawler.Crawler, cfg *config.Config, auditor Auditor) *crawlService {
	return &crawlService{
		Repo:    repo,
		Crawler: c,
		Cfg:     cfg,
		Auditor: auditor,
	}
}

// CrawlSite validates the request, runs the crawl and persists the report.
// A request with max_pages <= 0 gets the configured default; anything above
// the configured hard limit is clamped down to it.
func (s *crawlService) CrawlSite(ctx context.Context, actor string, req models.CrawlRequest) (*models.CrawlResult, error) {
	if _, err := crawler.ValidateURL(req.StartURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = s.Cfg.Crawler.MaxPages
	}
	if maxPages > s.Cfg.Crawler.MaxPagesLimit {
		maxPages = s.Cfg.Crawler.MaxPagesLimit
	}

	started := time.Now()
	crawlResult, err := s.Crawler.Crawl(ctx, req.StartURL, maxPages)
	if err != nil {
		// The entry point itself was unreachable. Keep a failed report
		// around so the run still shows up in history.
		s.storeFailedReport(req.StartURL, err, time.Since(started))
		s.Auditor.Log(ctx, "crawl.fail", actor, req.StartURL, map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	duration := time.Since(started)

	report := &models.CrawlReport{
		ID:           repository.NewID(),
		StartURL:     crawlResult.StartURL,
		Status:       models.ReportStatusComplete,
		PagesCrawled: crawlResult.PagesCrawled,
		LinkCount:    len(crawlResult.Links),
		Links:        crawlResult.Links,
		Pages:        crawlResult.Pages,
		CreatedAt:    time.Now().UTC(),
		DurationMS:   duration.Milliseconds(),
	}
	if err := s.Repo.CreateReport(report); err != nil {
		logging.Log.Errorf("CrawlService: failed to persist report for %s: %v", report.StartURL, err)
		return nil, fmt.Errorf("failed to persist crawl report: %w", err)
	}

	s.Auditor.Log(ctx, "crawl.run", actor, report.ID, map[string]interface{}{
		"start_url":     report.StartURL,
		"pages_crawled": report.PagesCrawled,
		"link_count":    report.LinkCount,
	})
	logging.Log.Infof("CrawlService: crawled %s (%d pages, %d links) in %v",
		report.StartURL, report.PagesCrawled, report.LinkCount, duration)

	links := report.Links
	if len(links) > 20 {
		links = links[:20]
	}
	return &models.CrawlResult{
		URL:          report.StartURL,
		LinkCount:    report.LinkCount,
		Links:        links,
		ReportID:     report.ID,
		PagesCrawled: report.PagesCrawled,
		DurationMS:   report.DurationMS,
	}, nil
}

func (s *crawlService) storeFailedReport(startURL string, cause error, duration time.Duration) {
	report := &models.CrawlReport{
		ID:         repository.NewID(),
		StartURL:   startURL,
		Status:     models.ReportStatusFailed,
		Links:      []string{},
		Error:      cause.Error(),
		CreatedAt:  time.Now().UTC(),
		DurationMS: duration.Milliseconds(),
	}
	if err := s.Repo.CreateReport(report); err != nil {
		logging.Log.Warnf("CrawlService: failed to persist failed report for %s: %v", startURL, err)
	}
}
