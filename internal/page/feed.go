package page

import (
	"bytes"
	"strings"

	"websummarizer/internal/domain"

	"github.com/mmcdole/gofeed"
)

// extractFeed reports ok only for documents that parse as a feed with a
// title or at least one item. Any JSON parses as an empty JSON Feed, so
// those are left to the HTML path.
func extractFeed(pageURL string, raw []byte) (domain.Page, bool) {
	feedType := gofeed.DetectFeedType(bytes.NewReader(raw))
	if feedType == gofeed.FeedTypeUnknown {
		return domain.Page{}, false
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return domain.Page{}, false
	}

	hasTitle := strings.TrimSpace(parsed.Title) != ""
	if len(parsed.Items) == 0 && (!hasTitle || feedType == gofeed.FeedTypeJSON) {
		return domain.Page{}, false
	}

	title := parsed.Title
	if !hasTitle {
		title = domain.DefaultTitle
	}

	var parts []string
	if d := fragmentText(parsed.Description); d != "" {
		parts = append(parts, d)
	}

	for _, item := range parsed.Items {
		if t := strings.TrimSpace(item.Title); t != "" {
			parts = append(parts, t)
		}

		body := item.Description
		if body == "" {
			body = item.Content
		}
		if b := fragmentText(body); b != "" {
			parts = append(parts, b)
		}
	}

	return domain.Page{
		URL:   pageURL,
		Title: title,
		Text:  strings.Join(parts, "\n"),
	}, true
}
