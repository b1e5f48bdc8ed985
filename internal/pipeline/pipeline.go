// Package pipeline runs one batch pass: every configured source is scraped in
// order, then the raw candidates are classified, de-duplicated and merged
// into lifecycle state.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"go-dealer-jobwatch/internal/browser"
	"go-dealer-jobwatch/internal/dedup"
	"go-dealer-jobwatch/internal/filter"
	"go-dealer-jobwatch/internal/lifecycle"
	"go-dealer-jobwatch/internal/scraper"
)

// SourceError records a source that contributed nothing to the run
type SourceError struct {
	Company    string
	SourceType scraper.SourceType
	URL        string
	Err        error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Company, e.SourceType, e.Err)
}

type Stats struct {
	Sources       int
	FailedSources int
	Raw           int
	Kept          int
	Rejected      int
	Unique        int
	New           int
	Updated       int
	Tracked       int
	Aged          int
}

type Result struct {
	RunAt      time.Time
	Postings   []scraper.Candidate
	Rejections []filter.Rejection
	State      []lifecycle.Entry
	Aged       []lifecycle.AgedEntry
	Failures   []SourceError
	Stats      Stats
}

type Pipeline struct {
	adapters      *scraper.Registry
	classifier    *filter.Classifier
	store         lifecycle.Store
	agedThreshold int
	log           *zap.Logger
	now           func() time.Time
}

type Option func(*Pipeline)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func WithAgedThreshold(days int) Option {
	return func(p *Pipeline) { p.agedThreshold = days }
}

func New(adapters *scraper.Registry, classifier *filter.Classifier, store lifecycle.Store, log *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		adapters:      adapters,
		classifier:    classifier,
		store:         store,
		agedThreshold: lifecycle.DefaultAgedThresholdDays,
		log:           log,
		now:           time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes one pass. Source failures are isolated and reported in the
// result; only state load/save errors fail the run.
func (p *Pipeline) Run(ctx context.Context, page browser.Page, sources []scraper.SourceConfig) (*Result, error) {
	runAt := lifecycle.RunTime(p.now())
	res := &Result{RunAt: runAt}
	res.Stats.Sources = len(sources)

	prior, err := p.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load lifecycle state")
	}
	p.log.Info("🔧 Lifecycle state loaded", zap.Int("entries", len(prior)))

	var raw []scraper.Candidate
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.log.Info("▶️ Starting source",
			zap.Int("n", i+1),
			zap.Int("of", len(sources)),
			zap.String("company", src.Company),
			zap.String("source_type", string(src.SourceType)))

		cands, err := p.runSource(ctx, page, src)
		if err != nil {
			fail := SourceError{Company: src.Company, SourceType: src.SourceType, URL: src.URL, Err: err}
			res.Failures = append(res.Failures, fail)
			p.log.Warn("❌ Source failed, continuing",
				zap.String("company", src.Company),
				zap.String("source_type", string(src.SourceType)),
				zap.String("url", src.URL),
				zap.Error(err))
			p.captureFailure(page, src)
			continue
		}
		p.log.Info("✅ Source finished", zap.String("company", src.Company), zap.Int("candidates", len(cands)))
		raw = append(raw, cands...)
	}
	res.Stats.Raw = len(raw)
	res.Stats.FailedSources = len(res.Failures)

	kept, rejections := p.classify(raw)
	res.Rejections = rejections
	res.Stats.Kept = len(kept)
	res.Stats.Rejected = len(rejections)

	res.Postings = dedup.Unique(kept)
	res.Stats.Unique = len(res.Postings)
	p.log.Info("🔍 Deduplication", zap.Int("kept", len(kept)), zap.Int("unique", len(res.Postings)))

	state, merge := lifecycle.Merge(prior, res.Postings, runAt)
	if err := p.store.Save(ctx, state); err != nil {
		return nil, errors.Wrap(err, "save lifecycle state")
	}
	res.State = state
	res.Aged = lifecycle.Aged(state, runAt, p.agedThreshold)
	res.Stats.New = merge.Inserted
	res.Stats.Updated = merge.Updated
	res.Stats.Tracked = len(state)
	res.Stats.Aged = len(res.Aged)

	p.log.Info("🏁 Run finished",
		zap.Time("run_at", runAt),
		zap.Int("sources", res.Stats.Sources),
		zap.Int("failed_sources", res.Stats.FailedSources),
		zap.Int("raw", res.Stats.Raw),
		zap.Int("rejected", res.Stats.Rejected),
		zap.Int("unique", res.Stats.Unique),
		zap.Int("new", res.Stats.New),
		zap.Int("tracked", res.Stats.Tracked),
		zap.Int("aged", res.Stats.Aged))
	return res, nil
}

// runSource turns an adapter panic into an ordinary source failure
func (p *Pipeline) runSource(ctx context.Context, page browser.Page, src scraper.SourceConfig) (cands []scraper.Candidate, err error) {
	adapter, err := p.adapters.Lookup(src.SourceType)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			cands = nil
			err = errors.Newf("adapter %s panicked: %v", adapter.Name(), r)
		}
	}()
	return adapter.Extract(ctx, src, page)
}

func (p *Pipeline) classify(raw []scraper.Candidate) ([]scraper.Candidate, []filter.Rejection) {
	var kept []scraper.Candidate
	var rejections []filter.Rejection
	for _, c := range raw {
		r := p.classifier.ClassifyCandidate(c)
		if r.Keep {
			kept = append(kept, c)
			continue
		}
		p.log.Debug("🚫 Rejected", zap.String("title", c.Title), zap.String("reason", r.Reason))
		rejections = append(rejections, filter.Rejection{Title: c.Title, Reason: r.Reason, Snippet: c.Snippet})
	}
	return kept, rejections
}

func (p *Pipeline) captureFailure(page browser.Page, src scraper.SourceConfig) {
	capturer, ok := page.(browser.FailureCapturer)
	if !ok {
		return
	}
	if err := capturer.CaptureFailure(fmt.Sprintf("%s-%s", src.Company, src.SourceType)); err != nil {
		p.log.Debug("screenshot failed", zap.Error(err))
	}
}
