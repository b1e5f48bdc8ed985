package indeed

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/browser"
	"go-dealer-jobwatch/internal/scraper"
)

const (
	baseURL = "https://www.indeed.com"

	cardSelector     = "div.job_seen_beacon"
	titleSelector    = "h2.jobTitle, h2.jobTitle span[title], [data-testid='jobTitle']"
	locationSelector = "div.companyLocation, [data-testid='text-location']"
	snippetSelector  = "div.job-snippet, [data-testid='jobsnippet_footer']"
)

type IndeedScraper struct {
	waitTimeout time.Duration
	settle      time.Duration
	log         *zap.Logger
}

func NewIndeedScraper(waitTimeout, settle time.Duration, log *zap.Logger) *IndeedScraper {
	return &IndeedScraper{waitTimeout: waitTimeout, settle: settle, log: log}
}

func (s *IndeedScraper) Name() string {
	return "Indeed"
}

// SearchURL is the company-scoped search; extra_company_query wins over the company name
func SearchURL(src scraper.SourceConfig) string {
	if src.URL != "" {
		return src.URL
	}
	query := src.Company
	if src.ExtraCompanyQuery != "" {
		query = src.ExtraCompanyQuery
	}
	return fmt.Sprintf("%s/jobs?q=%s&l=", baseURL, url.QueryEscape(fmt.Sprintf("company:%q", query)))
}

func (s *IndeedScraper) Extract(ctx context.Context, src scraper.SourceConfig, page browser.Page) ([]scraper.Candidate, error) {
	target := SearchURL(src)
	s.log.Info("📋 Searching Indeed", zap.String("company", src.Company), zap.String("url", target))

	if err := page.Goto(ctx, target); err != nil {
		return nil, err
	}
	page.Settle(ctx, s.settle)

	//no listing container is a legitimate "no openings" answer
	if err := page.WaitFor(ctx, cardSelector, s.waitTimeout); err != nil {
		s.log.Info("ℹ️ No Indeed listings found", zap.String("company", src.Company), zap.Error(err))
		return nil, nil
	}

	doc, err := scraper.Document(page)
	if err != nil {
		return nil, err
	}

	var jobs []scraper.Candidate
	doc.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		job, ok := s.processCard(src, card)
		if !ok {
			s.log.Debug("skipping indeed card without title", zap.Int("index", i))
			return
		}
		jobs = append(jobs, job)
	})
	s.log.Info("📦 Indeed cards extracted", zap.String("company", src.Company), zap.Int("count", len(jobs)))
	return jobs, nil
}

func (s *IndeedScraper) processCard(src scraper.SourceConfig, card *goquery.Selection) (scraper.Candidate, bool) {
	title := scraper.FirstText(card, titleSelector)
	if title == "" {
		return scraper.Candidate{}, false
	}
	href, _ := card.Find("a[href]").First().Attr("href")

	return scraper.NewCandidate(
		src.Company,
		s.Name(),
		title,
		scraper.FirstText(card, locationSelector),
		scraper.ResolveURL(baseURL, href),
		scraper.FirstText(card, snippetSelector),
	), true
}
