// filepath: internal/crawler/parser_test.go
package crawler

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	base, _ := url.Parse("https://example.com/docs/")
	doc := `<html>
<head><title> Docs Home </title></head>
<body>
<a href="intro">Intro</a>
<a href="/pricing">Pricing</a>
<a href="https://other.example/page">External</a>
<a href="#section">Fragment only</a>
<a href="mailto:team@example.com">Mail</a>
<a href="javascript:void(0)">JS</a>
<a href="guide#install">Guide</a>
</body>
</html>`

	title, links, err := ParsePage(base, strings.NewReader(doc))
	assert.NoError(t, err)
	assert.Equal(t, "Docs Home", title)
	assert.Equal(t, []string{
		"https://example.com/docs/intro",
		"https://example.com/pricing",
		"https://other.example/page",
		"https://example.com/docs/guide",
	}, links)
}

func TestParsePageNoTitleNoLinks(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	title, links, err := ParsePage(base, strings.NewReader("<html><body><p>hi</p></body></html>"))
	assert.NoError(t, err)
	assert.Empty(t, title)
	assert.Empty(t, links)
}

func TestParsePageKeepsDuplicates(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	doc := `<a href="/a">one</a><a href="/a">two</a>`
	_, links, err := ParsePage(base, strings.NewReader(doc))
	assert.NoError(t, err)
	// De-duplication is the crawler's job, not the parser's.
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/a"}, links)
}

func TestSameHost(t *testing.T) {
	start, _ := url.Parse("https://www.example.com/start")

	assert.True(t, SameHost(start, "https://example.com/page"))
	assert.True(t, SameHost(start, "https://www.example.com/page"))
	assert.True(t, SameHost(start, "http://EXAMPLE.com/other"))
	assert.False(t, SameHost(start, "https://sub.example.com/page"))
	assert.False(t, SameHost(start, "https://other.example/page"))
	assert.False(t, SameHost(start, "://not a url"))
}

func TestValidateURL(t *testing.T) {
	u, err := ValidateURL("  https://example.com/start  ")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/start", u.String())

	for _, raw := range []string{
		"",
		"example.com",
		"ftp://example.com",
		"https://",
	} {
		_, err := ValidateURL(raw)
		assert.Error(t, err, "url %q should be rejected", raw)
	}
}
