// filepath: internal/repository/report_repo.go
package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"aiopro/internal/logging"
	"aiopro/internal/models"

	"github.com/patrickmn/go-cache"
)

// ErrReportNotFound is returned when a report ID does not exist.
const ErrReportNotFound = Error("report not found")

// CreateReport stores a crawl report together with its per-page rows.
func (s *Repository) CreateReport(report *models.CrawlReport) error {
	linksJSON, err := json.Marshal(report.Links)
	if err != nil {
		return fmt.Errorf("failed to encode links: %w", err)
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() // Rollback on any error

	query := `
		INSERT INTO crawl_reports (
			id, start_url, status, pages_crawled, link_count, links, error, created_at, duration_ms
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = tx.Exec(query,
		report.ID, report.StartURL, report.Status,
		report.PagesCrawled, report.LinkCount, string(linksJSON),
		report.Error, report.CreatedAt.UTC(), report.DurationMS,
	)
	if err != nil {
		return err
	}

	pageQuery := `
		INSERT INTO crawl_pages (report_id, url, title, status_code, link_count, error, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	for _, page := range report.Pages {
		if _, err := tx.Exec(pageQuery,
			report.ID, page.URL, page.Title, page.StatusCode,
			page.LinkCount, page.Error, page.FetchedAt.UTC(),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetReport retrieves a single report, including its pages and links.
func (s *Repository) GetReport(id string) (*models.CrawlReport, error) {
	if cached, found := s.reportCache.Get(id); found {
		return cached.(*models.CrawlReport), nil
	}

	query := `
		SELECT id, start_url, status, pages_crawled, link_count, links, error, created_at, duration_ms
		FROM crawl_reports WHERE id = ?
	`
	row := s.DB.QueryRow(query, id)

	var report models.CrawlReport
	var linksJSON string
	err := row.Scan(
		&report.ID, &report.StartURL, &report.Status,
		&report.PagesCrawled, &report.LinkCount, &linksJSON,
		&report.Error, &report.CreatedAt, &report.DurationMS,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(linksJSON), &report.Links); err != nil {
		return nil, fmt.Errorf("failed to decode links for report %s: %w", id, err)
	}

	pages, err := s.getReportPages(id)
	if err != nil {
		return nil, err
	}
	report.Pages = pages

	s.reportCache.Set(id, &report, cache.DefaultExpiration)
	return &report, nil
}

func (s *Repository) getReportPages(reportID string) ([]models.CrawlPage, error) {
	query := `
		SELECT url, title, status_code, link_count, error, fetched_at
		FROM crawl_pages WHERE report_id = ? ORDER BY id ASC
	`
	rows, err := s.DB.Query(query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := make([]models.CrawlPage, 0)
	for rows.Next() {
		var page models.CrawlPage
		if err := rows.Scan(
			&page.URL, &page.Title, &page.StatusCode,
			&page.LinkCount, &page.Error, &page.FetchedAt,
		); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// ListReports returns report summaries (no pages or links), newest first.
func (s *Repository) ListReports(filter models.ReportFilter) ([]models.CrawlReport, error) {
	builder := s.Builder.
		Select("id", "start_url", "status", "pages_crawled", "link_count", "error", "created_at", "duration_ms").
		From("crawl_reports").
		OrderBy("created_at DESC")

	if filter.Status != "" {
		builder = builder.Where("status = ?", filter.Status)
	}
	if !filter.Since.IsZero() {
		builder = builder.Where("created_at >= ?", filter.Since.UTC())
	}
	if !filter.Until.IsZero() {
		builder = builder.Where("created_at <= ?", filter.Until.UTC())
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	logging.Log.Debugf("Generated SQL for ListReports: %s", query)

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.CrawlReport, 0)
	for rows.Next() {
		var report models.CrawlReport
		if err := rows.Scan(
			&report.ID, &report.StartURL, &report.Status,
			&report.PagesCrawled, &report.LinkCount,
			&report.Error, &report.CreatedAt, &report.DurationMS,
		); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// DeleteReport removes a report and (via cascade) its pages.
func (s *Repository) DeleteReport(id string) error {
	res, err := s.DB.Exec("DELETE FROM crawl_reports WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	s.reportCache.Delete(id)
	return nil
}

// DeleteReportsOlderThan removes reports created before the cutoff and
// returns how many were deleted.
func (s *Repository) DeleteReportsOlderThan(cutoff time.Time) (int64, error) {
	// Collect IDs first so the cache can be invalidated.
	rows, err := s.DB.Query("SELECT id FROM crawl_reports WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := s.DB.Exec("DELETE FROM crawl_reports WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.reportCache.Delete(id)
	}
	return res.RowsAffected()
}
