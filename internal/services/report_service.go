// filepath: internal/services/report_service.go
package services

import (
	"context"
	"errors"

	"aiopro/internal/logging"
	"aiopro/internal/models"
	"aiopro/internal/repository"
)

var _ ReportService = (*reportService)(nil)

type reportService struct {
	Repo    repository.Store
	Auditor Auditor
}

// NewReportService creates a new ReportService.
func NewReportService(repo repository.Store, auditor Auditor) *reportService {
	return &reportService{Repo: repo, Auditor: auditor}
}

// GetReport returns a full report, including its pages.
func (s *reportService) GetReport(id string) (*models.CrawlReport, error) {
	report, err := s.Repo.GetReport(id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

// ListReports returns report summaries matching the filter.
func (s *reportService) ListReports(filter models.ReportFilter) ([]models.CrawlReport, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.Repo.ListReports(filter)
}

// DeleteReport removes a stored report.
func (s *reportService) DeleteReport(ctx context.Context, actor string, id string) error {
	if err := s.Repo.DeleteReport(id); err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.Auditor.Log(ctx, "report.delete", actor, id, nil)
	logging.Log.Infof("ReportService: report %s deleted", id)
	return nil
}
