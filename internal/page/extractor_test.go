package page_test

import (
	"strings"
	"testing"

	"websummarizer/internal/domain"
	"websummarizer/internal/page"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Example Domain</title>
  <style>body { color: red; }</style>
  <script>var secret = "script text";</script>
</head>
<body>
  <nav><a href="/">Home</a></nav>
  <h1>Welcome</h1>
  <p>First paragraph.</p>
  <img src="x.png" alt="image alt">
  <input value="input value" placeholder="type here">
  <script>console.log("inline body script")</script>
  <style>.x { display: none; }</style>
  <p>  Second   paragraph.  </p>
  <noscript><img src="pixel.gif"></noscript>
</body>
</html>`

func TestExtractTitle(t *testing.T) {
	p, err := page.Extract("https://example.com", []byte(articleHTML))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", p.URL)
	assert.Equal(t, "Example Domain", p.Title)
}

func TestExtractDefaultTitle(t *testing.T) {
	p, err := page.Extract("https://example.com", []byte(`<html><body><p>Only body</p></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTitle, p.Title)
	assert.Equal(t, "Only body", p.Text)
}

func TestExtractTextDropsExcludedElements(t *testing.T) {
	p, err := page.Extract("https://example.com", []byte(articleHTML))
	require.NoError(t, err)

	assert.Equal(t, "Home\nWelcome\nFirst paragraph.\nSecond   paragraph.", p.Text)

	for _, absent := range []string{"script text", "inline body script", "color: red", "display: none", "pixel.gif"} {
		assert.NotContains(t, p.Text, absent)
	}
}

func TestExtractUsesFirstTitle(t *testing.T) {
	raw := `<html><head><title>First</title></head><body><svg><title>Second</title></svg><p>x</p></body></html>`

	p, err := page.Extract("https://example.com", []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "First", p.Title)
}

func TestExtractWithoutBody(t *testing.T) {
	p, err := page.Extract("https://example.com", []byte("plain text only"))
	require.NoError(t, err)

	assert.Equal(t, "plain text only", p.Text)
}

func TestExtractRSSFeed(t *testing.T) {
	raw := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <description>All the news</description>
    <item>
      <title>Release 1.0</title>
      <description><![CDATA[<p>We shipped <b>1.0</b>.</p><script>bad()</script>]]></description>
    </item>
    <item>
      <title>Conference</title>
    </item>
  </channel>
</rss>`

	p, err := page.Extract("https://example.com/feed.xml", []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "Example News", p.Title)
	assert.Equal(t, "All the news\nRelease 1.0\nWe shipped\n1.0\n.\nConference", p.Text)
	assert.False(t, strings.Contains(p.Text, "bad()"))
}

func TestExtractPlainJSONIsNotAFeed(t *testing.T) {
	raw := `{"status":"ok","message":"hello world from the api"}`

	p, err := page.Extract("https://api.example.com/data.json", []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTitle, p.Title)
	assert.Equal(t, raw, p.Text)
}

func TestExtractJSONObjectWithTitleIsNotAFeed(t *testing.T) {
	raw := `{"title":"Settings","enabled":true}`

	p, err := page.Extract("https://api.example.com/settings.json", []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTitle, p.Title)
	assert.Equal(t, raw, p.Text)
}

func TestExtractJSONFeedKeepsTitleVerbatim(t *testing.T) {
	raw := `{
  "version": "https://jsonfeed.org/version/1.1",
  "title": "  Spaced  ",
  "items": [{"id": "1", "title": "Hello", "content_text": "World"}]
}`

	p, err := page.Extract("https://example.com/feed.json", []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "  Spaced  ", p.Title)
	assert.Equal(t, "Hello\nWorld", p.Text)
}
