package dedup

import (
	"strings"

	"go-dealer-jobwatch/internal/scraper"
)

// JobKey identifies a logical posting across runs and adapters
type JobKey string

// KeyOf lower-cases and whitespace-collapses the five identity fields and pipe-joins them
func KeyOf(c scraper.Candidate) JobKey {
	return KeyFromFields(c.Company, c.Source, c.Title, c.Location, c.URL)
}

func KeyFromFields(company, source, title, location, url string) JobKey {
	fields := []string{company, source, title, location, url}
	for i, f := range fields {
		fields[i] = strings.ToLower(scraper.CleanText(f))
	}
	return JobKey(strings.Join(fields, "|"))
}

// Unique keeps the first candidate per JobKey, preserving input order
func Unique(cands []scraper.Candidate) []scraper.Candidate {
	seen := make(map[JobKey]bool, len(cands))
	out := make([]scraper.Candidate, 0, len(cands))
	for _, c := range cands {
		k := KeyOf(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}
