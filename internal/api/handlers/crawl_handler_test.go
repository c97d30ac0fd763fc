// filepath: internal/api/handlers/crawl_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"aiopro/internal/models"
	"aiopro/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func postCrawl(t *testing.T, h *Handlers, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", "/crawl_site", bytes.NewReader(payload))
	assert.NoError(t, err)
	rr := httptest.NewRecorder()
	h.CrawlSite(rr, req)
	return rr
}

func TestCrawlSite(t *testing.T) {
	crawlService := new(MockCrawlService)
	expected := &models.CrawlResult{
		URL:          "https://example.com",
		LinkCount:    3,
		Links:        []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"},
		ReportID:     "01TESTREPORT",
		PagesCrawled: 2,
	}
	crawlService.On("CrawlSite", mock.Anything, "unknown",
		models.CrawlRequest{StartURL: "https://example.com", MaxPages: 5}).Return(expected, nil)

	h := &Handlers{Crawl: crawlService}
	rr := postCrawl(t, h, models.CrawlRequest{StartURL: "https://example.com", MaxPages: 5})

	assert.Equal(t, http.StatusOK, rr.Code)
	var result models.CrawlResult
	json.Unmarshal(rr.Body.Bytes(), &result)
	assert.Equal(t, "https://example.com", result.URL)
	assert.Equal(t, 3, result.LinkCount)
	assert.Len(t, result.Links, 3)
	assert.Equal(t, "01TESTREPORT", result.ReportID)
	crawlService.AssertExpectations(t)
}

func TestCrawlSiteMissingStartURL(t *testing.T) {
	h := &Handlers{Crawl: new(MockCrawlService)}
	rr := postCrawl(t, h, models.CrawlRequest{MaxPages: 5})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Contains(t, resp.Error, "start_url")
}

func TestCrawlSiteInvalidBody(t *testing.T) {
	h := &Handlers{Crawl: new(MockCrawlService)}
	req, err := http.NewRequest("POST", "/crawl_site", bytes.NewReader([]byte("{not json")))
	assert.NoError(t, err)
	rr := httptest.NewRecorder()

	h.CrawlSite(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCrawlSiteFetchFailed(t *testing.T) {
	crawlService := new(MockCrawlService)
	cause := fmt.Errorf("%w: connection refused", services.ErrFetchFailed)
	crawlService.On("CrawlSite", mock.Anything, "unknown", mock.Anything).Return(nil, cause)

	h := &Handlers{Crawl: crawlService}
	rr := postCrawl(t, h, models.CrawlRequest{StartURL: "https://unreachable.example"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	// The error body starts with "Fetch failed:" so the GPT action can
	// surface the cause verbatim.
	assert.Equal(t, "Fetch failed: connection refused", resp.Error)
	crawlService.AssertExpectations(t)
}

func TestCrawlSiteValidationError(t *testing.T) {
	crawlService := new(MockCrawlService)
	cause := fmt.Errorf("%w: start_url must use http or https", services.ErrValidation)
	crawlService.On("CrawlSite", mock.Anything, "unknown", mock.Anything).Return(nil, cause)

	h := &Handlers{Crawl: crawlService}
	rr := postCrawl(t, h, models.CrawlRequest{StartURL: "ftp://example.com"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	crawlService.AssertExpectations(t)
}

func TestCrawlSiteInternalError(t *testing.T) {
	crawlService := new(MockCrawlService)
	crawlService.On("CrawlSite", mock.Anything, "unknown", mock.Anything).
		Return(nil, errors.New("database is locked"))

	h := &Handlers{Crawl: crawlService}
	rr := postCrawl(t, h, models.CrawlRequest{StartURL: "https://example.com"})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	// Internal failures must not leak their cause to the client.
	assert.NotContains(t, resp.Error, "database is locked")
	crawlService.AssertExpectations(t)
}
