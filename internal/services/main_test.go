// filepath: internal/services/main_test.go
package services

import (
	"context"
	"time"

	"aiopro/internal/models"
	"aiopro/internal/repository"

	"github.com/stretchr/testify/mock"
)

// --- MOCK AUDITOR ---
type MockAuditor struct {
	mock.Mock
}

var _ Auditor = (*MockAuditor)(nil)

func (m *MockAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	m.Called(ctx, action, actor, resource, details)
}

// allowAnyAudit registers a catch-all expectation so tests that do not care
// about audit events still pass strict mock checking.
func allowAnyAudit(a *MockAuditor) {
	a.On("Log", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
}

// --- MOCK STORE ---
type MockStore struct {
	mock.Mock
}

var _ repository.Store = (*MockStore)(nil)

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStore) CreateReport(report *models.CrawlReport) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStore) GetReport(id string) (*models.CrawlReport, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CrawlReport), args.Error(1)
}

func (m *MockStore) ListReports(filter models.ReportFilter) ([]models.CrawlReport, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CrawlReport), args.Error(1)
}

func (m *MockStore) DeleteReport(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStore) DeleteReportsOlderThan(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) CreateKey(key *models.APIKey) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockStore) GetKey(id string) (*models.APIKey, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKey), args.Error(1)
}

func (m *MockStore) GetKeys() ([]models.APIKey, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.APIKey), args.Error(1)
}

func (m *MockStore) RevokeKey(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStore) TouchKey(id string, usedAt time.Time) error {
	args := m.Called(id, usedAt)
	return args.Error(0)
}
