// filepath: internal/api/handlers/main_test.go
package handlers

import (
	"context"

	"aiopro/internal/models"
	"aiopro/internal/services"
	"aiopro/internal/services/auth"

	"github.com/stretchr/testify/mock"
)

// --- MOCK INFO SERVICE ---
type MockInfoService struct {
	mock.Mock
}

var _ services.InfoService = (*MockInfoService)(nil)

func (m *MockInfoService) GetInfo() models.Info {
	args := m.Called()
	return args.Get(0).(models.Info)
}

// --- MOCK CRAWL SERVICE ---
type MockCrawlService struct {
	mock.Mock
}

var _ services.CrawlService = (*MockCrawlService)(nil)

func (m *MockCrawlService) CrawlSite(ctx context.Context, actor string, req models.CrawlRequest) (*models.CrawlResult, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CrawlResult), args.Error(1)
}

// --- MOCK REPORT SERVICE ---
type MockReportService struct {
	mock.Mock
}

var _ services.ReportService = (*MockReportService)(nil)

func (m *MockReportService) GetReport(id string) (*models.CrawlReport, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CrawlReport), args.Error(1)
}

func (m *MockReportService) ListReports(filter models.ReportFilter) ([]models.CrawlReport, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CrawlReport), args.Error(1)
}

func (m *MockReportService) DeleteReport(ctx context.Context, actor string, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

// --- MOCK KEY SERVICE ---
type MockKeyService struct {
	mock.Mock
}

var _ services.KeyService = (*MockKeyService)(nil)

func (m *MockKeyService) CreateKey(ctx context.Context, actor string, name string, admin bool) (*models.APIKey, string, error) {
	args := m.Called(ctx, actor, name, admin)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.APIKey), args.String(1), args.Error(2)
}

func (m *MockKeyService) Authenticate(ctx context.Context, plaintext string) (*models.KeyIdentity, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KeyIdentity), args.Error(1)
}

func (m *MockKeyService) RevokeKey(ctx context.Context, actor string, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockKeyService) GetKeys() ([]models.APIKey, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.APIKey), args.Error(1)
}

// --- MOCK RETENTION SERVICE ---
type MockRetentionService struct {
	mock.Mock
}

var _ services.RetentionService = (*MockRetentionService)(nil)

func (m *MockRetentionService) Start() {
	m.Called()
}
func (m *MockRetentionService) Stop() {
	m.Called()
}
func (m *MockRetentionService) TriggerRetention(ctx context.Context, actor string) (*models.RetentionReport, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RetentionReport), args.Error(1)
}

// --- MOCK TOKEN SERVICE ---
type MockTokenService struct {
	mock.Mock
}

var _ auth.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) IssueToken(identity *models.KeyIdentity) (string, int64, error) {
	args := m.Called(identity)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*models.KeyIdentity, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KeyIdentity), args.Error(1)
}
