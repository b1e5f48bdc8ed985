// Candidate, source config and the Adapter interface shared by every
// platform adapter.

package scraper

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/unicode/norm"

	"go-dealer-jobwatch/internal/browser"
)

// ErrUnknownSourceType is returned for loadsheet rows whose source_type has no adapter
var ErrUnknownSourceType = errors.New("unknown source type")

type SourceType string

const (
	SourceIndeed     SourceType = "indeed"
	SourceLever      SourceType = "lever"
	SourceGreenhouse SourceType = "greenhouse"
	SourceBambooHR   SourceType = "bamboohr"
	SourceStatic     SourceType = "custom_static"
	SourceHeuristic  SourceType = "wix_generic"
)

var sourceAliases = map[string]SourceType{
	"aggregator-listing": SourceIndeed,
	"structured-ats-a":   SourceLever,
	"structured-ats-b":   SourceGreenhouse,
	"structured-ats-c":   SourceBambooHR,
	"static-card":        SourceStatic,
	"heuristic-render":   SourceHeuristic,
}

// ParseSourceType accepts the loadsheet values and their descriptive aliases
func ParseSourceType(s string) (SourceType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch t := SourceType(v); t {
	case SourceIndeed, SourceLever, SourceGreenhouse, SourceBambooHR, SourceStatic, SourceHeuristic:
		return t, nil
	}
	if t, ok := sourceAliases[v]; ok {
		return t, nil
	}
	return "", errors.Wrapf(ErrUnknownSourceType, "%q", s)
}

// SourceConfig is one loadsheet row: a (dealer, platform) pair
type SourceConfig struct {
	Company           string
	SourceType        SourceType
	URL               string
	ExtraCompanyQuery string
	//static-card hints only
	SelectorCard     string
	SelectorTitle    string
	SelectorLocation string
	SelectorLink     string
	Notes            string
}

// Candidate is one extracted fragment before classification
type Candidate struct {
	Company  string
	Source   string
	Title    string
	Location string
	URL      string
	//only used for classification, never written to postings
	Snippet string
}

// NewCandidate cleans every field so comparisons downstream never see stray whitespace
func NewCandidate(company, source, title, location, url, snippet string) Candidate {
	return Candidate{
		Company:  CleanText(company),
		Source:   CleanText(source),
		Title:    CleanText(title),
		Location: CleanText(location),
		URL:      strings.TrimSpace(url),
		Snippet:  CleanText(snippet),
	}
}

// CleanText applies NFKC and collapses all whitespace runs to a single space
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// Adapter defines the interface that every platform adapter must implement
type Adapter interface {
	//Extract turns a rendered page + source row into raw candidates
	Extract(ctx context.Context, src SourceConfig, page browser.Page) ([]Candidate, error)

	//Name is the platform name written into Candidate.Source
	Name() string
}
