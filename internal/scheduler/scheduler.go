// Package scheduler wires up the cron job that periodically triggers a batch pass.
package scheduler

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunFunc executes one batch pass
type RunFunc func(ctx context.Context) error

// Scheduler wraps robfig/cron and guarantees a single writer: a tick that
// fires while the previous pass is still running is skipped.
type Scheduler struct {
	cron *cron.Cron
	spec string
	run  RunFunc
	log  *zap.Logger

	mu      sync.Mutex
	running bool
}

// New validates spec (standard cron or @every/@daily descriptors)
func New(spec string, run RunFunc, log *zap.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", spec)
	}
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
		run:  run,
		log:  log,
	}, nil
}

// Start registers the job, starts cron and runs one pass right away
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Trigger(ctx) }); err != nil {
		return errors.Wrap(err, "cron.AddFunc")
	}
	s.cron.Start()
	s.log.Info("⏰ Scheduler started", zap.String("spec", s.spec))

	go s.Trigger(ctx)
	return nil
}

// Trigger runs a pass unless one is already in flight; it reports whether it ran
func (s *Scheduler) Trigger(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("⏭️ Previous run still in progress, skipping tick")
		return false
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := s.run(ctx); err != nil {
		s.log.Error("❌ Scheduled run failed", zap.Error(err))
	}
	return true
}

// Stop stops cron and waits for a running pass to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("⏰ Scheduler stopped")
}
