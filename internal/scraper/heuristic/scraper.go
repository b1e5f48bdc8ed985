// Package heuristic mines job-like lines from careers pages that have no
// fixed structure, typically visual site-builder pages (Wix and friends).
package heuristic

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"go-dealer-jobwatch/internal/browser"
	"go-dealer-jobwatch/internal/scraper"
)

const (
	lineSelector     = "h1, h2, h3, h4, h5, h6, li, a"
	richTextSelector = `[data-hook="richTextElement"]`
)

var blockElements = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "section": true, "article": true,
}

// Options toggle the optional stages of the heuristic scan
type Options struct {
	ScopeBySignal bool
	MineJSON      bool
}

type HeuristicScraper struct {
	opts   Options
	settle time.Duration
	log    *zap.Logger
}

func NewHeuristicScraper(opts Options, settle time.Duration, log *zap.Logger) *HeuristicScraper {
	return &HeuristicScraper{opts: opts, settle: settle, log: log}
}

func (s *HeuristicScraper) Name() string {
	return "Heuristic"
}

func (s *HeuristicScraper) Extract(ctx context.Context, src scraper.SourceConfig, page browser.Page) ([]scraper.Candidate, error) {
	s.log.Info("🔎 Mining careers page", zap.String("company", src.Company), zap.String("url", src.URL))
	if err := page.Goto(ctx, src.URL); err != nil {
		return nil, err
	}
	page.Settle(ctx, s.settle)

	doc, err := scraper.Document(page)
	if err != nil {
		return nil, err
	}
	base := page.URL()

	scopes := []*goquery.Selection{doc.Selection}
	if s.opts.ScopeBySignal {
		scopes = selectScopes(doc)
	}

	var jobs []scraper.Candidate
	seen := make(map[*html.Node]bool)
	for _, scope := range scopes {
		scope.Find(lineSelector).Each(func(_ int, el *goquery.Selection) {
			if seen[el.Nodes[0]] {
				return
			}
			//the outermost line element speaks for everything nested in it
			seen[el.Nodes[0]] = true
			el.Find(lineSelector).Each(func(_ int, inner *goquery.Selection) {
				seen[inner.Nodes[0]] = true
			})

			link := linkFor(base, el)
			for _, line := range Lines(el) {
				if LooksLikeTitle(line) {
					jobs = append(jobs, scraper.NewCandidate(src.Company, s.Name(), line, "", link, ""))
				}
			}
		})

		//rich text blocks lead with the posting title
		scope.Find(richTextSelector).Each(func(_ int, el *goquery.Selection) {
			lines := Lines(el)
			if len(lines) > 0 && LooksLikeTitle(lines[0]) {
				jobs = append(jobs, scraper.NewCandidate(src.Company, s.Name(), lines[0], "", base, ""))
			}
		})
	}
	domCount := len(jobs)

	if s.opts.MineJSON {
		for _, body := range page.JSONResponses() {
			for _, title := range MineJSON(body) {
				jobs = append(jobs, scraper.NewCandidate(src.Company, s.Name(), title, "", base, ""))
			}
		}
	}

	s.log.Info("📦 Heuristic lines extracted",
		zap.String("company", src.Company),
		zap.Int("scopes", len(scopes)),
		zap.Int("dom", domCount),
		zap.Int("json", len(jobs)-domCount))
	return jobs, nil
}

// linkFor picks the element's own href, else its first nested link, else the page
func linkFor(base string, el *goquery.Selection) string {
	a := el
	if goquery.NodeName(el) != "a" {
		a = el.Find("a[href]").First()
	}
	href, ok := a.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return base
	}
	return scraper.ResolveURL(base, href)
}

// Lines renders an element's visible text with line breaks at block
// boundaries and returns the non-empty cleaned lines.
func Lines(sel *goquery.Selection) []string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	var out []string
	for _, l := range strings.Split(b.String(), "\n") {
		if l = scraper.CleanText(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
			return
		}
	}
	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}
