// Package scheduler triggers ingestion runs: periodically on a fixed
// cadence, and on demand from the manual trigger endpoint. Both paths call
// the same orchestrator entry point.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/ingest"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
)

// ErrRunInProgress is returned by TriggerNow when a run is already
// executing. Overlapping runs would be safe (store writes are keyed
// upserts) but wasteful, so the scheduler serializes them.
var ErrRunInProgress = errors.New("ingestion run already in progress")

const defaultInterval = 6 * time.Hour

// Config holds scheduler configuration.
type Config struct {
	// Interval is the periodic trigger cadence. A deployment parameter,
	// not a pipeline invariant.
	Interval time.Duration `env:"INGEST_INTERVAL" yaml:"interval"`
	// RunOnStart fires one run immediately instead of waiting for the
	// first tick.
	RunOnStart bool `yaml:"run_on_start"`
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.Interval == 0 {
		c.Interval = defaultInterval
	}
}

// Runner is the single entry point both trigger paths call.
type Runner interface {
	RunOnce(ctx context.Context) (*ingest.RunReport, error)
}

// Scheduler wraps robfig/cron and owns the run lock.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	logger logger.Logger
	config Config

	mu sync.Mutex
}

// New creates a scheduler for the given runner.
func New(runner Runner, log logger.Logger, cfg Config) *Scheduler {
	cfg.SetDefaults()
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		logger: log,
		config: cfg,
	}
}

// Start registers the periodic trigger and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.config.Interval)
	if _, err := s.cron.AddFunc(spec, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("register cron trigger: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", logger.Duration("interval", s.config.Interval))

	if s.config.RunOnStart {
		go s.tick(ctx)
	}
	return nil
}

// Stop halts the periodic trigger and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

// TriggerNow runs one ingestion immediately on the caller's goroutine and
// returns its report. Returns ErrRunInProgress when a run is executing.
func (s *Scheduler) TriggerNow(ctx context.Context) (*ingest.RunReport, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	return s.runner.RunOnce(ctx)
}

// tick is the periodic trigger path. A tick that overlaps an in-flight
// run is skipped: the next tick will pick up anything missed.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.mu.TryLock() {
		s.logger.Warn("skipping scheduled run, previous run still in progress")
		return
	}
	defer s.mu.Unlock()

	if _, err := s.runner.RunOnce(ctx); err != nil {
		s.logger.Error("scheduled run failed", logger.Error(err))
	}
}
