package heuristic

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-dealer-jobwatch/internal/browser/browsertest"
	"go-dealer-jobwatch/internal/scraper"
)

const careersURL = "https://dealer.test/careers"

const careersHTML = `<html><body>
<header><nav><ul>
  <li><a href="/">Home</a></li>
  <li><a href="/inventory">New Inventory</a></li>
</ul></nav></header>
<main>
  <section id="careers">
    <h2>CAREERS</h2>
    <p>We are hiring! Join our team and apply today.</p>
    <ul>
      <li><a href="/jobs/diesel">Diesel Technician</a></li>
      <li>Parts Counter Sales</li>
      <li><a href="/apply">Apply Online Today</a></li>
    </ul>
  </section>
  <section><p>Copyright 2026</p></section>
</main>
</body></html>`

func titles(cands []scraper.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Title
	}
	return out
}

func run(t *testing.T, opts Options, site browsertest.Site) []scraper.Candidate {
	t.Helper()
	page := browsertest.New(map[string]browsertest.Site{careersURL: site})
	s := NewHeuristicScraper(opts, 0, zaptest.NewLogger(t))
	jobs, err := s.Extract(context.Background(), scraper.SourceConfig{Company: "Acme", URL: careersURL}, page)
	require.NoError(t, err)
	return jobs
}

func TestHeuristicScraper_ScopedToSignalContainer(t *testing.T) {
	jobs := run(t, Options{ScopeBySignal: true}, browsertest.Site{HTML: careersHTML})

	assert.Equal(t, []string{"Diesel Technician", "Parts Counter Sales"}, titles(jobs))
	assert.Equal(t, "https://dealer.test/jobs/diesel", jobs[0].URL)
	assert.Equal(t, careersURL, jobs[1].URL)
	assert.Equal(t, "Heuristic", jobs[0].Source)
	assert.Equal(t, "Acme", jobs[0].Company)
}

func TestHeuristicScraper_WholePageWithoutScoping(t *testing.T) {
	jobs := run(t, Options{}, browsertest.Site{HTML: careersHTML})
	assert.Equal(t, []string{"New Inventory", "Diesel Technician", "Parts Counter Sales"}, titles(jobs))
}

func TestHeuristicScraper_RichText(t *testing.T) {
	html := `<html><body>
<div data-hook="richTextElement"><p><span>Service Advisor</span></p><p>Full time position in Eau Claire.</p></div>
<div data-hook="richTextElement"><p>Benefits include health, dental, vision and a 401k match for everyone.</p></div>
</body></html>`
	jobs := run(t, Options{}, browsertest.Site{HTML: html})

	require.Len(t, jobs, 1)
	assert.Equal(t, "Service Advisor", jobs[0].Title)
	assert.Equal(t, careersURL, jobs[0].URL)
}

func TestHeuristicScraper_MinesJSON(t *testing.T) {
	site := browsertest.Site{
		HTML: `<html><body><div id="root"></div></body></html>`,
		JSON: []any{
			map[string]any{
				"jobs": []any{
					map[string]any{"id": "7", "title": "Body Shop Estimator"},
					map[string]any{"title": "Apply now to join", "description": "Great pay and benefits"},
				},
				"positions": []any{"Lot Attendant", "x"},
				"siteName":  "Acme",
			},
		},
	}

	assert.Equal(t, []string{"Body Shop Estimator", "Lot Attendant"}, titles(run(t, Options{MineJSON: true}, site)))
	assert.Empty(t, run(t, Options{}, site))
}

func TestLooksLikeTitle(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Diesel Technician", true},
		{"CDL CLASS A DRIVER WANTED", true},
		{"Technician", false},
		{"OPEN POSITIONS", false},
		{"Apply today for this role", false},
		{"Click here", false},
		{`"Join" the crew`, false},
		{"one two three four five six seven eight", false},
		{strings.Repeat("x", 30) + " " + strings.Repeat("y", 34), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikeTitle(tt.line), tt.line)
	}
}

func TestSignalHits(t *testing.T) {
	assert.Equal(t, 3, SignalHits("Careers: Join our team! Open positions"))
	assert.Equal(t, 0, SignalHits("New and used inventory"))
}

func TestSelectScopes(t *testing.T) {
	t.Run("deepest container with the same score wins", func(t *testing.T) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(careersHTML))
		require.NoError(t, err)
		scopes := selectScopes(doc)
		require.Len(t, scopes, 2)
		assert.Equal(t, "careers", scopes[0].AttrOr("id", ""))
		assert.Equal(t, "ul", goquery.NodeName(scopes[1]))
	})

	t.Run("falls back to the whole document", func(t *testing.T) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div><h3>Used Trucks</h3></div>`))
		require.NoError(t, err)
		scopes := selectScopes(doc)
		require.Len(t, scopes, 1)
		assert.Equal(t, doc.Selection, scopes[0])
	})
}

func TestLines(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div id="x"><h3>Parts Manager</h3>Full time<br>Wausau<script>var x = 1</script><style>.a{}</style></div>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Parts Manager", "Full time", "Wausau"}, Lines(doc.Find("#x")))
}
