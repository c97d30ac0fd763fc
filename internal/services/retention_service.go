// filepath: internal/services/retention_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"aiopro/internal/config"
	"aiopro/internal/logging"
	"aiopro/internal/models"
	"aiopro/internal/repository"
)

var _ RetentionService = (*retentionService)(nil)

// retentionService deletes crawl reports older than the configured maximum
// age on a fixed interval.
type retentionService struct {
	Repo    repository.Store
	Cfg     *config.Config
	Auditor Auditor

	timer  *time.Timer
	stopCh chan struct{}
}

// NewRetentionService creates a new RetentionService.
func NewRetentionService(repo repository.Store, cfg *config.Config, auditor Auditor) *retentionService {
	return &retentionService{
		Repo:    repo,
		Cfg:     cfg,
		Auditor: auditor,
		stopCh:  make(chan struct{}),
	}
}

// Start kicks off the background retention worker. A zero report_max_age
// disables it.
func (s *retentionService) Start() {
	if s.Cfg.ReportMaxAge <= 0 {
		logging.Log.Info("Report retention disabled (report_max_age is 0).")
		return
	}

	logging.Log.Infof("Starting report retention worker (max age %v, interval %v).",
		s.Cfg.ReportMaxAge, s.Cfg.RetentionInterval)
	s.timer = time.NewTimer(0) // Fire immediately on start

	go func() {
		for {
			select {
			case <-s.timer.C:
				if _, err := s.sweep(); err != nil {
					logging.Log.Errorf("Retention sweep failed: %v", err)
				}
				s.timer.Reset(s.Cfg.RetentionInterval)
			case <-s.stopCh:
				s.timer.Stop()
				return
			}
		}
	}()
}

// Stop terminates the background retention worker.
func (s *retentionService) Stop() {
	logging.Log.Info("Stopping report retention worker.")
	close(s.stopCh)
}

// TriggerRetention runs one sweep on demand.
func (s *retentionService) TriggerRetention(ctx context.Context, actor string) (*models.RetentionReport, error) {
	if s.Cfg.ReportMaxAge <= 0 {
		return nil, fmt.Errorf("%w: retention is disabled", ErrValidation)
	}
	report, err := s.sweep()
	if err != nil {
		return nil, err
	}
	s.Auditor.Log(ctx, "retention.run", actor, "", map[string]interface{}{
		"deleted": report.Deleted,
		"cutoff":  report.Cutoff,
	})
	return report, nil
}

func (s *retentionService) sweep() (*models.RetentionReport, error) {
	cutoff := time.Now().UTC().Add(-s.Cfg.ReportMaxAge)
	deleted, err := s.Repo.DeleteReportsOlderThan(cutoff)
	if err != nil {
		return nil, err
	}
	if deleted > 0 {
		logging.Log.Infof("Retention: removed %d reports older than %v.", deleted, cutoff)
	}
	return &models.RetentionReport{
		Deleted: deleted,
		Cutoff:  cutoff,
		Message: fmt.Sprintf("removed %d reports", deleted),
	}, nil
}
