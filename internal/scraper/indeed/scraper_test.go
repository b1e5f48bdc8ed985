package indeed

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-dealer-jobwatch/internal/browser/browsertest"
	"go-dealer-jobwatch/internal/scraper"
)

const searchHTML = `<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/rc/clk?jk=1"><span title="Boom Truck Driver">Boom Truck Driver</span></a></h2>
  <div class="companyLocation">Eau Claire, WI</div>
  <div class="job-snippet"><ul><li>Class A CDL required</li></ul></div>
</div>
<div class="job_seen_beacon"><div class="companyLocation">Nowhere</div></div>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="https://www.indeed.com/viewjob?jk=2">Parts   Counter Sales</a></h2>
</div>
</body></html>`

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name string
		src  scraper.SourceConfig
		want string
	}{
		{
			name: "company name",
			src:  scraper.SourceConfig{Company: "Acme Equipment"},
			want: "https://www.indeed.com/jobs?q=company%3A%22Acme+Equipment%22&l=",
		},
		{
			name: "extra query wins",
			src:  scraper.SourceConfig{Company: "Acme Equipment", ExtraCompanyQuery: "Acme Equipment Co"},
			want: "https://www.indeed.com/jobs?q=company%3A%22Acme+Equipment+Co%22&l=",
		},
		{
			name: "explicit url",
			src:  scraper.SourceConfig{Company: "Acme", URL: "https://www.indeed.com/cmp/acme/jobs"},
			want: "https://www.indeed.com/cmp/acme/jobs",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchURL(tt.src))
		})
	}
}

func TestIndeedScraper_Extract(t *testing.T) {
	src := scraper.SourceConfig{Company: "Acme Equipment", SourceType: scraper.SourceIndeed}
	page := browsertest.New(map[string]browsertest.Site{
		SearchURL(src): {HTML: searchHTML},
	})
	s := NewIndeedScraper(time.Second, 0, zaptest.NewLogger(t))

	jobs, err := s.Extract(context.Background(), src, page)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, scraper.Candidate{
		Company:  "Acme Equipment",
		Source:   "Indeed",
		Title:    "Boom Truck Driver",
		Location: "Eau Claire, WI",
		URL:      "https://www.indeed.com/rc/clk?jk=1",
		Snippet:  "Class A CDL required",
	}, jobs[0])
	assert.Equal(t, "Parts Counter Sales", jobs[1].Title)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=2", jobs[1].URL)
	assert.Empty(t, jobs[1].Location)
}

func TestIndeedScraper_NoListingsIsEmpty(t *testing.T) {
	src := scraper.SourceConfig{Company: "Tiny Dealer"}
	page := browsertest.New(map[string]browsertest.Site{
		SearchURL(src): {HTML: `<html><body><p>did not match any jobs</p></body></html>`},
	})
	jobs, err := NewIndeedScraper(time.Second, 0, zaptest.NewLogger(t)).Extract(context.Background(), src, page)
	assert.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestIndeedScraper_NavigationError(t *testing.T) {
	src := scraper.SourceConfig{Company: "Acme"}
	page := browsertest.New(map[string]browsertest.Site{
		SearchURL(src): {GotoErr: errors.New("net::ERR_CONNECTION_RESET")},
	})
	_, err := NewIndeedScraper(time.Second, 0, zaptest.NewLogger(t)).Extract(context.Background(), src, page)
	assert.Error(t, err)
}
