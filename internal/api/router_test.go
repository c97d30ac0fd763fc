// filepath: internal/api/router_test.go
package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aiopro/internal/api/handlers"
	"aiopro/internal/config"
	"aiopro/internal/models"
	"aiopro/internal/services"
	"aiopro/internal/services/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// The router tests drive real middleware and routing with mocked services.

type mockKeyService struct {
	mock.Mock
}

var _ services.KeyService = (*mockKeyService)(nil)

func (m *mockKeyService) CreateKey(ctx context.Context, actor string, name string, admin bool) (*models.APIKey, string, error) {
	args := m.Called(ctx, actor, name, admin)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.APIKey), args.String(1), args.Error(2)
}

func (m *mockKeyService) Authenticate(ctx context.Context, plaintext string) (*models.KeyIdentity, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KeyIdentity), args.Error(1)
}

func (m *mockKeyService) RevokeKey(ctx context.Context, actor string, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *mockKeyService) GetKeys() ([]models.APIKey, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.APIKey), args.Error(1)
}

type mockCrawlService struct {
	mock.Mock
}

var _ services.CrawlService = (*mockCrawlService)(nil)

func (m *mockCrawlService) CrawlSite(ctx context.Context, actor string, req models.CrawlRequest) (*models.CrawlResult, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CrawlResult), args.Error(1)
}

type mockInfoService struct {
	mock.Mock
}

var _ services.InfoService = (*mockInfoService)(nil)

func (m *mockInfoService) GetInfo() models.Info {
	args := m.Called()
	return args.Get(0).(models.Info)
}

// setupTestRouter wires the router with an admin key "aio_admin" and a
// non-admin key "aio_plain".
func setupTestRouter(t *testing.T, crawl services.CrawlService) http.Handler {
	t.Helper()

	keys := new(mockKeyService)
	keys.On("Authenticate", mock.Anything, "aio_admin").
		Return(&models.KeyIdentity{ID: "a", Name: "admin", Admin: true}, nil).Maybe()
	keys.On("Authenticate", mock.Anything, "aio_plain").
		Return(&models.KeyIdentity{ID: "p", Name: "plain"}, nil).Maybe()
	keys.On("Authenticate", mock.Anything, mock.Anything).
		Return(nil, services.ErrUnauthorized).Maybe()
	keys.On("GetKeys").Return([]models.APIKey{}, nil).Maybe()

	info := new(mockInfoService)
	info.On("GetInfo").Return(models.Info{ServiceName: services.ServiceName, Version: "test", UptimeSince: time.Now()}).Maybe()

	cfg := &config.Config{JWTSecret: "router-test-secret"}
	cfg.JWT.AccessDurationMin = 15

	tokens := auth.NewTokenService(cfg)
	am := auth.NewMiddleware(keys, tokens)
	h := handlers.NewHandlers(info, crawl, nil, keys, nil, tokens, cfg)

	return SetupRouter(h, am, cfg)
}

func TestRouterPublicEndpoints(t *testing.T) {
	router := setupTestRouter(t, new(mockCrawlService))

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"status":"ok","service":"AIO Pro Backend"}`, rr.Body.String())

	req = httptest.NewRequest("GET", "/api/info", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouterCrawlRequiresKey(t *testing.T) {
	crawl := new(mockCrawlService)
	crawl.On("CrawlSite", mock.Anything, "plain", mock.Anything).
		Return(&models.CrawlResult{URL: "https://example.com", Links: []string{}}, nil)
	router := setupTestRouter(t, crawl)

	body := []byte(`{"start_url":"https://example.com"}`)

	// No key: rejected before the handler runs.
	req := httptest.NewRequest("POST", "/crawl_site", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Valid key: the crawl runs.
	req = httptest.NewRequest("POST", "/crawl_site", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer aio_plain")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	crawl.AssertExpectations(t)
}

func TestRouterAdminRoutes(t *testing.T) {
	router := setupTestRouter(t, new(mockCrawlService))

	// Non-admin key is rejected.
	req := httptest.NewRequest("GET", "/api/keys", nil)
	req.Header.Set("Authorization", "Bearer aio_plain")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Admin key is allowed through.
	req = httptest.NewRequest("GET", "/api/keys", nil)
	req.Header.Set("Authorization", "Bearer aio_admin")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouterTokenExchange(t *testing.T) {
	router := setupTestRouter(t, new(mockCrawlService))

	req := httptest.NewRequest("POST", "/api/token", nil)
	req.Header.Set("Authorization", "Bearer aio_plain")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "access_token")
}

func TestCORSMiddleware(t *testing.T) {
	router := setupTestRouter(t, new(mockCrawlService))

	// Preflight from any origin succeeds with the allow-all default.
	req := httptest.NewRequest("OPTIONS", "/crawl_site", nil)
	req.Header.Set("Origin", "https://chat.openai.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://chat.openai.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSWhitelist(t *testing.T) {
	handler := corsMiddleware([]string{"https://allowed.example"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://allowed.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "https://allowed.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
