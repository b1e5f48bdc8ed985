// Package ats scrapes the hosted applicant-tracking boards (Lever, Greenhouse,
// BambooHR). The three boards differ only in markup, so one scraper is
// parameterised by a Flavor.
package ats

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/browser"
	"go-dealer-jobwatch/internal/scraper"
)

// Flavor describes where one board keeps its posting anchors
type Flavor struct {
	Name string
	//alternatives tried in order, the first that matches anything wins
	AnchorSelectors []string
	//optional, looked up inside the anchor
	TitleSelector string
	//optional, looked up inside the anchor and then its nearest posting container
	LocationSelector string
	ContainerSelector string
}

var (
	Lever = Flavor{
		Name:              "Lever",
		AnchorSelectors:   []string{"a.posting-title", "div.posting a[href*='lever.co']", "a[href*='jobs.lever.co']"},
		TitleSelector:     "h5, [data-qa='posting-name']",
		LocationSelector:  ".posting-categories .location, .sort-by-location",
		ContainerSelector: "div.posting",
	}
	Greenhouse = Flavor{
		Name:              "Greenhouse",
		AnchorSelectors:   []string{"div.opening a", "tr.job-post a", "a[href*='/jobs/']"},
		TitleSelector:     "p.body--medium",
		LocationSelector:  "span.location, p.body__secondary, .location",
		ContainerSelector: "div.opening, tr.job-post",
	}
	BambooHR = Flavor{
		Name:              "BambooHR",
		AnchorSelectors:   []string{"a[href*='/careers/'][href*='view']", "li a[href*='/careers/']", "a.ResAts__listing-link", "a[href*='/jobs/view']"},
		LocationSelector:  ".ResAts__listing-location, [class*='location']",
		ContainerSelector: "li, .ResAts__listing",
	}
)

type ATSScraper struct {
	flavor      Flavor
	waitTimeout time.Duration
	settle      time.Duration
	log         *zap.Logger
}

func NewATSScraper(flavor Flavor, waitTimeout, settle time.Duration, log *zap.Logger) *ATSScraper {
	return &ATSScraper{flavor: flavor, waitTimeout: waitTimeout, settle: settle, log: log}
}

func (s *ATSScraper) Name() string {
	return s.flavor.Name
}

func (s *ATSScraper) Extract(ctx context.Context, src scraper.SourceConfig, page browser.Page) ([]scraper.Candidate, error) {
	s.log.Info("💼 Scraping ATS board", zap.String("board", s.flavor.Name), zap.String("company", src.Company), zap.String("url", src.URL))
	if err := page.Goto(ctx, src.URL); err != nil {
		return nil, err
	}
	page.Settle(ctx, s.settle)

	if err := page.WaitFor(ctx, strings.Join(s.flavor.AnchorSelectors, ", "), s.waitTimeout); err != nil {
		return nil, err
	}

	doc, err := scraper.Document(page)
	if err != nil {
		return nil, err
	}

	anchors := s.findAnchors(doc)
	base := page.URL()
	var jobs []scraper.Candidate
	anchors.Each(func(i int, a *goquery.Selection) {
		job, ok := s.processAnchor(src, base, a)
		if !ok {
			s.log.Debug("skipping posting anchor", zap.String("board", s.flavor.Name), zap.Int("index", i))
			return
		}
		jobs = append(jobs, job)
	})
	s.log.Info("📦 ATS postings extracted", zap.String("board", s.flavor.Name), zap.String("company", src.Company), zap.Int("count", len(jobs)))
	return jobs, nil
}

func (s *ATSScraper) findAnchors(doc *goquery.Document) *goquery.Selection {
	for _, sel := range s.flavor.AnchorSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return doc.Find(s.flavor.AnchorSelectors[0])
}

func (s *ATSScraper) processAnchor(src scraper.SourceConfig, base string, a *goquery.Selection) (scraper.Candidate, bool) {
	href, ok := a.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return scraper.Candidate{}, false
	}

	title := scraper.FirstText(a, s.flavor.TitleSelector)
	if title == "" {
		title = scraper.CleanText(a.Text())
	}
	if title == "" {
		return scraper.Candidate{}, false
	}

	location := scraper.FirstText(a, s.flavor.LocationSelector)
	if location == "" && s.flavor.ContainerSelector != "" {
		location = scraper.FirstText(a.Closest(s.flavor.ContainerSelector), s.flavor.LocationSelector)
	}
	//location text rendered inside the anchor would otherwise leak into the title
	if location != "" && s.flavor.TitleSelector == "" {
		title = strings.TrimSpace(strings.TrimSuffix(title, location))
	}

	return scraper.NewCandidate(src.Company, s.Name(), title, location, scraper.ResolveURL(base, href), ""), true
}
