// Package ingest coordinates one ingestion run: fetch raw postings from
// every registered source, capture them, classify them, upsert accepted
// internships and announce the ones seen for the first time.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/classifier"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/events"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/metrics"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/source"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/storage"
)

// defaultZeroResultWarnAfter is how many consecutive zero-result runs a
// source gets before the orchestrator flags it for human review: a source
// that silently extracts nothing usually means its markup changed.
const defaultZeroResultWarnAfter = 3

// Config holds orchestrator configuration.
type Config struct {
	Session source.SessionConfig `yaml:"session"`
	// Keyword is the search term adapters query their sources with.
	// Empty means each adapter's own default.
	Keyword             string `yaml:"keyword"`
	ZeroResultWarnAfter int    `yaml:"zero_result_warn_after"`
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	c.Session.SetDefaults()
	if c.ZeroResultWarnAfter == 0 {
		c.ZeroResultWarnAfter = defaultZeroResultWarnAfter
	}
}

// SourceReport is the per-source outcome of one run.
type SourceReport struct {
	Source    string `json:"source"`
	Fetched   int    `json:"fetched"`
	Accepted  int    `json:"accepted"`
	Rejected  int    `json:"rejected"`
	Published int    `json:"published"`
	Errors    int    `json:"errors"`
}

// RunReport summarizes one ingestion run.
type RunReport struct {
	RunID    uuid.UUID      `json:"run_id"`
	Started  time.Time      `json:"started"`
	Duration time.Duration  `json:"duration"`
	Sources  []SourceReport `json:"sources"`
}

// Orchestrator is the sole writer of the raw and canonical stores during a
// run. Adapters run sequentially against one shared session; errors are
// contained at the smallest scope, so one bad source or posting never
// blocks the rest of the run.
type Orchestrator struct {
	registry   *source.Registry
	rawStore   storage.RawStore
	jobStore   storage.JobStore
	classifier *classifier.InternClassifier
	channel    events.Channel
	metrics    *metrics.Metrics
	logger     logger.Logger
	config     Config

	zeroStreaks map[string]int
}

// New creates an orchestrator.
func New(
	registry *source.Registry,
	rawStore storage.RawStore,
	jobStore storage.JobStore,
	internClassifier *classifier.InternClassifier,
	channel events.Channel,
	m *metrics.Metrics,
	log logger.Logger,
	cfg Config,
) *Orchestrator {
	cfg.SetDefaults()
	return &Orchestrator{
		registry:    registry,
		rawStore:    rawStore,
		jobStore:    jobStore,
		classifier:  internClassifier,
		channel:     channel,
		metrics:     m,
		logger:      log,
		config:      cfg,
		zeroStreaks: make(map[string]int),
	}
}

// RunOnce executes one complete ingestion run across all registered
// adapters. The fetch session is released unconditionally at the end,
// adapter failures included.
func (o *Orchestrator) RunOnce(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:   uuid.New(),
		Started: time.Now(),
	}
	runLog := o.logger.With(logger.String("run_id", report.RunID.String()))

	o.metrics.RunsStarted.Inc()
	runLog.Info("ingestion run started",
		logger.Int("adapters", len(o.registry.Adapters())))

	session := source.NewSession(ctx, o.config.Session, runLog)
	defer session.Close()

	for _, adapter := range o.registry.Adapters() {
		if err := ctx.Err(); err != nil {
			o.metrics.RunsFailed.Inc()
			runLog.Error("ingestion run aborted", logger.Error(err))
			return nil, fmt.Errorf("run aborted: %w", err)
		}
		report.Sources = append(report.Sources, o.runAdapter(ctx, session, adapter, runLog))
	}

	report.Duration = time.Since(report.Started)
	o.metrics.RunsSucceeded.Inc()
	o.metrics.RunDuration.Observe(report.Duration.Seconds())

	runLog.Info("ingestion run complete", logger.Duration("duration", report.Duration))
	return report, nil
}

// runAdapter processes one source end to end. A fetch failure is fatal to
// this source only; item failures are logged and skipped.
func (o *Orchestrator) runAdapter(
	ctx context.Context,
	session *source.Session,
	adapter source.Adapter,
	runLog logger.Logger,
) SourceReport {
	name := adapter.Name()
	srcLog := runLog.With(logger.String("source", name))
	report := SourceReport{Source: name}

	payloads, err := adapter.FetchRaw(ctx, session)
	if err != nil {
		srcLog.Error("fetch failed, continuing with next source", logger.Error(err))
		o.metrics.AdapterErrors.WithLabelValues(name).Inc()
		report.Errors++
		return report
	}

	report.Fetched = len(payloads)
	o.metrics.PostingsFetched.WithLabelValues(name).Add(float64(len(payloads)))
	o.trackZeroResults(name, len(payloads), srcLog)

	for _, payload := range payloads {
		o.processItem(ctx, adapter, payload, &report, srcLog)
	}

	srcLog.Info("source processed",
		logger.Int("fetched", report.Fetched),
		logger.Int("accepted", report.Accepted),
		logger.Int("rejected", report.Rejected),
		logger.Int("published", report.Published),
		logger.Int("errors", report.Errors),
	)
	return report
}

// processItem pushes one raw payload through capture, normalization,
// classification, upsert and announcement.
func (o *Orchestrator) processItem(
	ctx context.Context,
	adapter source.Adapter,
	payload source.RawPayload,
	report *SourceReport,
	srcLog logger.Logger,
) {
	name := adapter.Name()
	key := adapter.Key(payload)

	raw := &domain.RawPosting{
		Key:       key,
		Source:    name,
		URL:       payload.Str("link"),
		Payload:   payload,
		FetchedAt: time.Now(),
	}
	if err := o.rawStore.UpsertByKey(ctx, key, raw); err != nil {
		srcLog.Error("raw capture failed", logger.String("key", key), logger.Error(err))
		o.metrics.AdapterErrors.WithLabelValues(name).Inc()
		report.Errors++
		// Continue: a capture failure must not cost us the posting.
	}

	posting, err := adapter.Normalize(payload)
	if err != nil {
		srcLog.Debug("posting rejected at normalization",
			logger.String("key", key), logger.Error(err))
		o.metrics.PostingsRejected.WithLabelValues(name).Inc()
		report.Rejected++
		return
	}

	verdict := o.classifier.Classify(ctx, posting.ClassifierText())
	if !verdict.IsIntern {
		srcLog.Debug("posting rejected by classifier",
			logger.String("key", key),
			logger.Float64("confidence", verdict.Confidence),
			logger.String("method", verdict.Method),
		)
		o.metrics.PostingsRejected.WithLabelValues(name).Inc()
		report.Rejected++
		return
	}

	identity, err := posting.Identity()
	if err != nil {
		srcLog.Debug("posting has no identity", logger.String("key", key), logger.Error(err))
		o.metrics.PostingsRejected.WithLabelValues(name).Inc()
		report.Rejected++
		return
	}

	job := &domain.CanonicalJob{
		NormalizedPosting: *posting,
		AIAnalysis:        verdict,
	}

	result, err := o.jobStore.UpsertByIdentity(ctx, identity, job)
	if err != nil {
		srcLog.Error("job upsert failed", logger.String("key", key), logger.Error(err))
		o.metrics.AdapterErrors.WithLabelValues(name).Inc()
		report.Errors++
		return
	}

	o.metrics.PostingsAccepted.WithLabelValues(name).Inc()
	report.Accepted++

	if !result.WasNewlyCreated {
		return
	}

	event := events.NewJobEventFrom(identity.DocumentID(), result.Job)
	if err := o.channel.Publish(ctx, events.TopicNewJob, event); err != nil {
		srcLog.Error("event publish failed", logger.String("key", key), logger.Error(err))
		report.Errors++
		return
	}
	o.metrics.EventsPublished.Inc()
	report.Published++
}

// trackZeroResults counts consecutive zero-result runs per source and
// warns once the streak passes the configured threshold. A healthy fetch
// that extracts nothing is the usual symptom of silently drifted markup.
func (o *Orchestrator) trackZeroResults(name string, fetched int, srcLog logger.Logger) {
	if fetched > 0 {
		o.zeroStreaks[name] = 0
		o.metrics.ZeroResultStreak.WithLabelValues(name).Set(0)
		return
	}

	o.zeroStreaks[name]++
	streak := o.zeroStreaks[name]
	o.metrics.ZeroResultStreak.WithLabelValues(name).Set(float64(streak))

	if streak >= o.config.ZeroResultWarnAfter {
		srcLog.Warn("source yielded zero postings repeatedly, selectors may be stale",
			logger.Int("consecutive_runs", streak))
	}
}
