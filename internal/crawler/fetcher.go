// filepath: internal/crawler/fetcher.go
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aiopro/internal/logging"

	"github.com/patrickmn/go-cache"
)

// Page is the parsed result of fetching a single URL.
type Page struct {
	URL        string
	Title      string
	StatusCode int
	Links      []string
	FetchedAt  time.Time
}

// Fetcher retrieves and parses HTML pages. Results are cached by URL so
// repeated crawls of the same site within the TTL do not re-fetch pages.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	cache     *cache.Cache
}

// NewFetcher creates a Fetcher. A zero cacheTTL disables the page cache.
func NewFetcher(timeout time.Duration, userAgent string, maxBody int64, cacheTTL time.Duration) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBody:   maxBody,
	}
	if cacheTTL > 0 {
		f.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return f
}

// FetchPage downloads pageURL and extracts its title and links.
// Bodies larger than the configured cap are truncated, not rejected.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if f.cache != nil {
		if cached, found := f.cache.Get(pageURL); found {
			logging.Log.Debugf("Fetcher: cache hit for %s", pageURL)
			return cached.(*Page), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return nil, fmt.Errorf("unsupported content type %q for %s", contentType, pageURL)
	}

	base := resp.Request.URL // resolve links against the final URL after redirects
	title, links, err := ParsePage(base, io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	page := &Page{
		URL:        base.String(),
		Title:      title,
		StatusCode: resp.StatusCode,
		Links:      links,
		FetchedAt:  time.Now().UTC(),
	}
	if f.cache != nil {
		f.cache.Set(pageURL, page, cache.DefaultExpiration)
	}
	return page, nil
}

// ValidateURL validates that a crawl entry point is an absolute
// http(s) URL with a host.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url has no host: %s", raw)
	}
	return u, nil
}
