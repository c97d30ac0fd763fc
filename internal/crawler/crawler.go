// filepath: internal/crawler/crawler.go
package crawler

import (
	"context"
	"time"

	"aiopro/internal/logging"
	"aiopro/internal/models"
)

// Result is the in-memory outcome of one crawl run.
type Result struct {
	StartURL     string
	Pages        []models.CrawlPage
	Links        []string // de-duplicated, in discovery order
	PagesCrawled int
}

// Crawler walks a single site breadth-first, never leaving the start host.
type Crawler struct {
	Fetcher *Fetcher
}

// NewCrawler creates a Crawler around the given Fetcher.
func NewCrawler(fetcher *Fetcher) *Crawler {
	return &Crawler{Fetcher: fetcher}
}

// Crawl fetches up to maxPages pages starting at startURL. The start page
// failing is fatal; failures on later pages are recorded in the result and
// skipped. Every page is fetched at most once.
func (c *Crawler) Crawl(ctx context.Context, startURL string, maxPages int) (*Result, error) {
	start, err := ValidateURL(startURL)
	if err != nil {
		return nil, err
	}

	result := &Result{StartURL: start.String()}
	visited := make(map[string]bool)
	seenLinks := make(map[string]bool)
	queue := []string{start.String()}

	for len(queue) > 0 && result.PagesCrawled < maxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := queue[0]
		queue = queue[1:]
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		page, err := c.Fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			if len(result.Pages) == 0 {
				// Nothing crawled yet: the entry point itself is unreachable.
				return nil, err
			}
			logging.Log.Warnf("Crawler: skipping %s: %v", pageURL, err)
			result.Pages = append(result.Pages, models.CrawlPage{
				URL:       pageURL,
				Error:     err.Error(),
				FetchedAt: time.Now().UTC(),
			})
			continue
		}
		// Redirects may land on an already-visited URL.
		if page.URL != pageURL {
			if visited[page.URL] {
				continue
			}
			visited[page.URL] = true
		}

		result.PagesCrawled++
		result.Pages = append(result.Pages, models.CrawlPage{
			URL:        page.URL,
			Title:      page.Title,
			StatusCode: page.StatusCode,
			LinkCount:  len(page.Links),
			FetchedAt:  page.FetchedAt,
		})

		for _, link := range page.Links {
			if !seenLinks[link] {
				seenLinks[link] = true
				result.Links = append(result.Links, link)
			}
			if SameHost(start, link) && !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	return result, nil
}
