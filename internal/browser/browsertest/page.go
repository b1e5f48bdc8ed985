// Package browsertest provides an in-memory browser.Page for adapter tests.
package browsertest

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"go-dealer-jobwatch/internal/browser"
)

// Site is one fixture: rendered HTML plus the JSON bodies its scripts fetched
type Site struct {
	HTML     string
	Title    string
	JSON     []any
	Redirect string
	GotoErr  error
}

// Page serves fixtures keyed by URL; unknown URLs fail navigation
type Page struct {
	Sites map[string]Site

	current string
	site    Site
	Visited []string
}

func New(sites map[string]Site) *Page {
	return &Page{Sites: sites}
}

func (p *Page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Visited = append(p.Visited, url)
	site, ok := p.Sites[url]
	if !ok {
		return errors.Newf("navigation to %s timed out", url)
	}
	if site.GotoErr != nil {
		return site.GotoErr
	}
	p.current = url
	if site.Redirect != "" {
		p.current = site.Redirect
	}
	p.site = site
	return nil
}

func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.site.HTML))
	if err != nil {
		return err
	}
	if doc.Find(selector).Length() == 0 {
		return errors.Newf("timeout %s waiting for %q", timeout, selector)
	}
	return nil
}

func (p *Page) Settle(ctx context.Context, d time.Duration) {}

func (p *Page) Content() (string, error) {
	return p.site.HTML, nil
}

func (p *Page) URL() string {
	return p.current
}

func (p *Page) Title() (string, error) {
	return p.site.Title, nil
}

func (p *Page) JSONResponses() []any {
	return p.site.JSON
}

var _ browser.Page = (*Page)(nil)
