package page

import (
	"bytes"
	"fmt"
	"strings"

	"websummarizer/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const removedElements = "script, style, img, input"

// Extract parses fetched markup into a Page. Feed documents (RSS, Atom,
// JSON Feed) are rendered as their items; everything else is treated as HTML.
func Extract(pageURL string, raw []byte) (domain.Page, error) {
	if p, ok := extractFeed(pageURL, raw); ok {
		return p, nil
	}

	doc, err := parseDocument(raw)
	if err != nil {
		return domain.Page{}, fmt.Errorf("parse document: %w", err)
	}

	title := domain.DefaultTitle
	if t := doc.Find("title").First(); t.Length() > 0 {
		title = t.Text()
	}

	doc.Find(removedElements).Remove()

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	return domain.Page{
		URL:   pageURL,
		Title: title,
		Text:  textOf(root),
	}, nil
}

// parseDocument disables scripting so that <noscript> children are parsed
// as elements rather than raw text.
func parseDocument(raw []byte) (*goquery.Document, error) {
	root, err := html.ParseWithOptions(bytes.NewReader(raw), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, err
	}

	return goquery.NewDocumentFromNode(root), nil
}

// textOf joins every non-blank text node under sel with newlines.
func textOf(sel *goquery.Selection) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func fragmentText(fragment string) string {
	doc, err := parseDocument([]byte(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	doc.Find(removedElements).Remove()

	return textOf(doc.Selection)
}
