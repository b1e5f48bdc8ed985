package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-dealer-jobwatch/internal/browser/browsertest"
	"go-dealer-jobwatch/internal/loadsheet"
	"go-dealer-jobwatch/internal/scraper"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		url      string
		st       scraper.SourceType
		platform string
		ok       bool
	}{
		{
			name:     "wix markup",
			content:  `<script src="https://static.wixstatic.com/x.js"></script>`,
			st:       scraper.SourceHeuristic,
			platform: "wix_generic",
			ok:       true,
		},
		{
			name:     "greenhouse embed",
			content:  `<iframe src="https://boards.greenhouse.io/embed/job_board?for=acme"></iframe>`,
			st:       scraper.SourceGreenhouse,
			platform: "greenhouse",
			ok:       true,
		},
		{
			name:     "bamboohr host",
			url:      "https://acme.bamboohr.com/careers",
			st:       scraper.SourceBambooHR,
			platform: "bamboohr",
			ok:       true,
		},
		{
			name:     "wix outranks lever",
			content:  `<meta name="generator" content="Wix.com Website Builder"><a href="https://jobs.lever.co/acme">Jobs</a>`,
			st:       scraper.SourceHeuristic,
			platform: "wix_generic",
			ok:       true,
		},
		{
			name:     "lever link",
			content:  `<a href="https://jobs.lever.co/acme">Jobs</a>`,
			st:       scraper.SourceLever,
			platform: "lever",
			ok:       true,
		},
		{
			name:    "unknown",
			content: `<h1>Careers</h1>`,
			url:     "https://acme.test/careers",
			st:      scraper.SourceHeuristic,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, platform, ok := DetectPlatform(tt.content, tt.url)
			assert.Equal(t, tt.st, st)
			assert.Equal(t, tt.platform, platform)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestResolve(t *testing.T) {
	sites := map[string]browsertest.Site{
		//a.test: second path guess is a soft 404, third one is a lever board
		"https://a.test/employment": {HTML: "<h1>Oops</h1>", Title: "Page Not Found"},
		"https://a.test/jobs":       {HTML: `<iframe src="https://jobs.lever.co/acme"></iframe>`, Title: "Jobs | Acme"},
		//b.test: no guess works, the homepage links to the careers page
		"https://b.test": {HTML: `<a href="/about">About</a><a href="/work-with-us">Work With Us</a>`},
		"https://b.test/work-with-us": {
			HTML: `<script src="https://static.wixstatic.com/x.js"></script>`,
		},
		//c.test: explicit careers url with no known platform
		"https://c.test/hiring": {HTML: `<h2>Now Hiring</h2>`},
	}

	tests := []struct {
		name   string
		dealer loadsheet.Dealer
		want   scraper.SourceConfig
	}{
		{
			name:   "path guess",
			dealer: loadsheet.Dealer{Company: "Acme", HomepageURL: "https://a.test"},
			want:   scraper.SourceConfig{Company: "Acme", SourceType: scraper.SourceLever, URL: "https://a.test/jobs", Notes: "auto-detected lever"},
		},
		{
			name:   "homepage anchor",
			dealer: loadsheet.Dealer{Company: "Bravo", HomepageURL: "https://b.test"},
			want:   scraper.SourceConfig{Company: "Bravo", SourceType: scraper.SourceHeuristic, URL: "https://b.test/work-with-us", Notes: "auto-detected wix_generic"},
		},
		{
			name:   "explicit careers url",
			dealer: loadsheet.Dealer{Company: "Charlie", HomepageURL: "https://c.test", CareersURL: "https://c.test/hiring"},
			want:   scraper.SourceConfig{Company: "Charlie", SourceType: scraper.SourceHeuristic, URL: "https://c.test/hiring", Notes: "fallback wix_generic"},
		},
		{
			name:   "nothing loads",
			dealer: loadsheet.Dealer{Company: "Delta", HomepageURL: "https://d.test"},
			want:   scraper.SourceConfig{Company: "Delta", SourceType: scraper.SourceHeuristic, URL: "https://d.test", Notes: "fallback wix_generic"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(browsertest.New(sites), 0, zaptest.NewLogger(t))
			rows := r.Resolve(context.Background(), tt.dealer)

			require.Len(t, rows, 2)
			assert.Equal(t, tt.want, rows[0])
			assert.Equal(t, scraper.SourceConfig{
				Company:    tt.dealer.Company,
				SourceType: scraper.SourceIndeed,
				Notes:      "indeed company search",
			}, rows[1])
		})
	}
}

func TestResolve_ExplicitURLSkipsGuessing(t *testing.T) {
	page := browsertest.New(map[string]browsertest.Site{"https://c.test/hiring": {HTML: `<h2>Now Hiring</h2>`}})
	NewResolver(page, 0, zaptest.NewLogger(t)).Resolve(context.Background(),
		loadsheet.Dealer{Company: "Charlie", HomepageURL: "https://c.test", CareersURL: "https://c.test/hiring"})
	assert.Equal(t, []string{"https://c.test/hiring"}, page.Visited)
}

func TestResolveAll(t *testing.T) {
	page := browsertest.New(map[string]browsertest.Site{"https://c.test/hiring": {HTML: `<h2>Now Hiring</h2>`}})
	r := NewResolver(page, 0, zaptest.NewLogger(t))
	dealers := []loadsheet.Dealer{
		{Company: "Charlie", CareersURL: "https://c.test/hiring"},
		{Company: "Echo", CareersURL: "https://e.test/jobs"},
	}

	rows, err := r.ResolveAll(context.Background(), dealers)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Charlie", rows[0].Company)
	assert.Equal(t, scraper.SourceIndeed, rows[1].SourceType)
	assert.Equal(t, "Echo", rows[2].Company)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.ResolveAll(ctx, dealers)
	assert.ErrorIs(t, err, context.Canceled)
}
