package ats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-dealer-jobwatch/internal/browser/browsertest"
	"go-dealer-jobwatch/internal/scraper"
)

const (
	leverHTML = `<html><body><div class="postings-group">
<div class="posting">
  <a class="posting-title" href="https://jobs.lever.co/acme/1">
    <h5 data-qa="posting-name">Diesel Technician</h5>
    <div class="posting-categories"><span class="sort-by-location posting-category location">Eau Claire, WI</span></div>
  </a>
</div>
<div class="posting">
  <a class="posting-title" href="/acme/2"><h5 data-qa="posting-name">Service Writer</h5></a>
</div>
</div></body></html>`

	greenhouseHTML = `<html><body><section class="level-0">
<div class="opening"><a href="/acme/jobs/123">Parts Manager</a><span class="location">Wausau, WI</span></div>
<div class="opening"><a>Ghost Posting</a></div>
</section></body></html>`

	bambooHTML = `<html><body><ul>
<li class="ResAts__listing"><a href="/careers/view/42">Service Writer</a><span class="ResAts__listing-location">La Crosse, WI</span></li>
<li class="ResAts__listing"><a href="/careers/view/43">Lot Attendant<span class="ResAts__listing-location">Winona, MN</span></a></li>
</ul></body></html>`
)

func extract(t *testing.T, flavor Flavor, url, html string) ([]scraper.Candidate, error) {
	t.Helper()
	page := browsertest.New(map[string]browsertest.Site{url: {HTML: html}})
	s := NewATSScraper(flavor, time.Second, 0, zaptest.NewLogger(t))
	return s.Extract(context.Background(), scraper.SourceConfig{Company: "Acme", URL: url}, page)
}

func TestATSScraper_Lever(t *testing.T) {
	jobs, err := extract(t, Lever, "https://jobs.lever.co/acme", leverHTML)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, scraper.Candidate{
		Company:  "Acme",
		Source:   "Lever",
		Title:    "Diesel Technician",
		Location: "Eau Claire, WI",
		URL:      "https://jobs.lever.co/acme/1",
	}, jobs[0])
	assert.Equal(t, "Service Writer", jobs[1].Title)
	assert.Equal(t, "https://jobs.lever.co/acme/2", jobs[1].URL)
}

func TestATSScraper_Greenhouse(t *testing.T) {
	jobs, err := extract(t, Greenhouse, "https://boards.greenhouse.io/acme", greenhouseHTML)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, "Parts Manager", jobs[0].Title)
	assert.Equal(t, "Wausau, WI", jobs[0].Location)
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/123", jobs[0].URL)
	assert.Equal(t, "Greenhouse", jobs[0].Source)
}

func TestATSScraper_BambooHR(t *testing.T) {
	jobs, err := extract(t, BambooHR, "https://acme.bamboohr.com/careers", bambooHTML)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Service Writer", jobs[0].Title)
	assert.Equal(t, "La Crosse, WI", jobs[0].Location)
	assert.Equal(t, "https://acme.bamboohr.com/careers/view/42", jobs[0].URL)

	//location rendered inside the anchor is not part of the title
	assert.Equal(t, "Lot Attendant", jobs[1].Title)
	assert.Equal(t, "Winona, MN", jobs[1].Location)
}

func TestATSScraper_NoPostingsIsError(t *testing.T) {
	_, err := extract(t, Lever, "https://jobs.lever.co/acme", `<html><body><p>Something went wrong</p></body></html>`)
	assert.Error(t, err)
}
