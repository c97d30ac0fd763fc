// filepath: internal/crawler/parser.go
package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ParsePage extracts the title and all anchor targets from an HTML document.
// Relative references are resolved against base; javascript:, mailto:, tel:
// and pure-fragment references are skipped. Links are returned in document
// order and may contain duplicates.
func ParsePage(base *url.URL, body io.Reader) (title string, links []string, err error) {
	doc, err := html.Parse(body)
	if err != nil {
		return "", nil, err
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if link, ok := resolveHref(base, n); ok {
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, links, nil
}

func resolveHref(base *url.URL, n *html.Node) (string, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
			break
		}
	}
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	switch ref.Scheme {
	case "", "http", "https":
		// resolvable
	default:
		// javascript:, mailto:, tel:, data:, ...
		return "", false
	}

	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Host == "" {
		return "", false
	}
	return resolved.String(), true
}

// SameHost reports whether a link stays on the host of the start URL.
// The www. prefix is ignored so that example.com and www.example.com
// count as one site.
func SameHost(start *url.URL, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return normalizeHost(u.Host) == normalizeHost(start.Host)
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
