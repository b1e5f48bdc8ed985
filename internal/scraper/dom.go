package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"go-dealer-jobwatch/internal/browser"
)

// Document parses the page's rendered DOM for querying
func Document(page browser.Page) (*goquery.Document, error) {
	html, err := page.Content()
	if err != nil {
		return nil, errors.Wrap(err, "read rendered content")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "parse rendered content")
	}
	return doc, nil
}

// FirstText returns the cleaned text of the first match, "" when nothing matches
func FirstText(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return CleanText(sel.Find(selector).First().Text())
}

// ResolveURL makes href absolute against base; unparsable input comes back as-is
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return href
	}
	return b.ResolveReference(ref).String()
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
