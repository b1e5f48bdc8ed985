// Package static extracts job cards from hand-configured dealer pages using
// the card/title/location/link selectors stored on the loadsheet row.
package static

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/browser"
	"go-dealer-jobwatch/internal/scraper"
)

type StaticScraper struct {
	waitTimeout time.Duration
	settle      time.Duration
	log         *zap.Logger
}

func NewStaticScraper(waitTimeout, settle time.Duration, log *zap.Logger) *StaticScraper {
	return &StaticScraper{waitTimeout: waitTimeout, settle: settle, log: log}
}

func (s *StaticScraper) Name() string {
	return "Static"
}

func (s *StaticScraper) Extract(ctx context.Context, src scraper.SourceConfig, page browser.Page) ([]scraper.Candidate, error) {
	if src.SelectorCard == "" {
		s.log.Warn("⚠️ No card selector configured, nothing to extract", zap.String("company", src.Company))
		return nil, nil
	}
	if err := page.Goto(ctx, src.URL); err != nil {
		return nil, err
	}
	page.Settle(ctx, s.settle)

	if err := page.WaitFor(ctx, src.SelectorCard, s.waitTimeout); err != nil {
		s.log.Info("ℹ️ No cards matched", zap.String("company", src.Company), zap.String("selector", src.SelectorCard))
		return nil, nil
	}

	doc, err := scraper.Document(page)
	if err != nil {
		return nil, err
	}

	base := page.URL()
	var jobs []scraper.Candidate
	doc.Find(src.SelectorCard).Each(func(_ int, card *goquery.Selection) {
		jobs = append(jobs, s.processCard(src, base, card))
	})
	s.log.Info("📦 Static cards extracted", zap.String("company", src.Company), zap.Int("count", len(jobs)))
	return jobs, nil
}

// processCard never fails: a missing hint or sub-element leaves that field empty
func (s *StaticScraper) processCard(src scraper.SourceConfig, base string, card *goquery.Selection) scraper.Candidate {
	var href string
	if src.SelectorLink != "" {
		link := card.Find(src.SelectorLink).First()
		if link.Length() == 0 && card.Is(src.SelectorLink) {
			link = card
		}
		href, _ = link.Attr("href")
	}

	return scraper.NewCandidate(
		src.Company,
		s.Name(),
		scraper.FirstText(card, src.SelectorTitle),
		scraper.FirstText(card, src.SelectorLocation),
		scraper.ResolveURL(base, href),
		"",
	)
}
