// Package discovery builds loadsheet rows from a dealer's homepage: it finds
// the careers page and fingerprints the platform serving it.
package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/browser"
	"go-dealer-jobwatch/internal/loadsheet"
	"go-dealer-jobwatch/internal/scraper"
)

var (
	pathGuesses   = []string{"careers", "employment", "jobs", "join-our-team", "opportunities"}
	careersHints  = []string{"career", "careers", "employment", "jobs", "work-with-us", "join-our-team", "opportunities"}
	notFoundHints = []string{"404", "not found", "page not found"}
)

type fingerprint struct {
	platform   string
	sourceType scraper.SourceType
	needles    []string
}

// checked in order, the first hit wins
var fingerprints = []fingerprint{
	{"wix_generic", scraper.SourceHeuristic, []string{"wix.com website builder", "wixstatic.com", "thunderbolt", "wixcode"}},
	{"lever", scraper.SourceLever, []string{"lever.co", "data-lever", "lever-jobs"}},
	{"greenhouse", scraper.SourceGreenhouse, []string{"greenhouse.io", "boards.greenhouse.io"}},
	{"bamboohr", scraper.SourceBambooHR, []string{"bamboohr.com", "bamboohr"}},
}

// DetectPlatform matches page markup and final URL against known fingerprints.
// ok is false when nothing matched and the heuristic adapter is returned.
func DetectPlatform(content, url string) (scraper.SourceType, string, bool) {
	lc := strings.ToLower(content)
	host := strings.ToLower(url)
	for _, fp := range fingerprints {
		for _, n := range fp.needles {
			if strings.Contains(lc, n) || strings.Contains(host, n) {
				return fp.sourceType, fp.platform, true
			}
		}
	}
	return scraper.SourceHeuristic, "", false
}

type Resolver struct {
	page   browser.Page
	settle time.Duration
	log    *zap.Logger
}

func NewResolver(page browser.Page, settle time.Duration, log *zap.Logger) *Resolver {
	return &Resolver{page: page, settle: settle, log: log}
}

// GuessCareersURL tries conventional paths, then homepage anchors, then gives up with the homepage
func (r *Resolver) GuessCareersURL(ctx context.Context, homepage string) string {
	base := homepage
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	for _, tail := range pathGuesses {
		test := scraper.ResolveURL(base, tail)
		if err := r.page.Goto(ctx, test); err != nil {
			r.log.Debug("path guess failed", zap.String("url", test), zap.Error(err))
			continue
		}
		if r.looksFound() {
			return r.page.URL()
		}
	}

	if err := r.page.Goto(ctx, homepage); err != nil {
		r.log.Debug("homepage failed", zap.String("url", homepage), zap.Error(err))
		return homepage
	}
	r.page.Settle(ctx, r.settle)
	doc, err := scraper.Document(r.page)
	if err != nil {
		return homepage
	}
	found := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		text := strings.ToLower(scraper.CleanText(a.Text()))
		lhref := strings.ToLower(href)
		for _, h := range careersHints {
			if strings.Contains(lhref, h) || strings.Contains(text, h) {
				found = scraper.ResolveURL(homepage, href)
				return false
			}
		}
		return true
	})
	if found != "" {
		return found
	}
	return homepage
}

func (r *Resolver) looksFound() bool {
	title, _ := r.page.Title()
	title = strings.ToLower(title)
	for _, h := range notFoundHints {
		if strings.Contains(title, h) {
			return false
		}
	}
	content, err := r.page.Content()
	return err == nil && strings.TrimSpace(content) != ""
}

// Resolve emits the primary platform row for a dealer followed by its Indeed row
func (r *Resolver) Resolve(ctx context.Context, d loadsheet.Dealer) []scraper.SourceConfig {
	target := d.CareersURL
	if target == "" {
		target = r.GuessCareersURL(ctx, d.HomepageURL)
	}

	primary := scraper.SourceConfig{Company: d.Company, SourceType: scraper.SourceHeuristic, URL: target}
	if err := r.page.Goto(ctx, target); err != nil {
		r.log.Warn("⚠️ Could not load careers page", zap.String("company", d.Company), zap.String("url", target), zap.Error(err))
		primary.Notes = fmt.Sprintf("fallback %s", scraper.SourceHeuristic)
	} else {
		r.page.Settle(ctx, r.settle)
		content, _ := r.page.Content()
		primary.URL = r.page.URL()
		st, platform, ok := DetectPlatform(content, primary.URL)
		primary.SourceType = st
		if ok {
			primary.Notes = fmt.Sprintf("auto-detected %s", platform)
		} else {
			primary.Notes = fmt.Sprintf("fallback %s", st)
		}
	}
	r.log.Info("🧭 Resolved dealer",
		zap.String("company", d.Company),
		zap.String("source_type", string(primary.SourceType)),
		zap.String("url", primary.URL))

	return []scraper.SourceConfig{
		primary,
		{Company: d.Company, SourceType: scraper.SourceIndeed, Notes: "indeed company search"},
	}
}

// ResolveAll resolves dealers one at a time, in input order
func (r *Resolver) ResolveAll(ctx context.Context, dealers []loadsheet.Dealer) ([]scraper.SourceConfig, error) {
	var rows []scraper.SourceConfig
	for _, d := range dealers {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		rows = append(rows, r.Resolve(ctx, d)...)
	}
	return rows, nil
}
