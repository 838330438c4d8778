// Package metrics exposes Prometheus instrumentation for the ingestion
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	RunsStarted   prometheus.Counter
	RunsSucceeded prometheus.Counter
	RunsFailed    prometheus.Counter
	RunDuration   prometheus.Histogram

	PostingsFetched  *prometheus.CounterVec
	PostingsAccepted *prometheus.CounterVec
	PostingsRejected *prometheus.CounterVec
	EventsPublished  prometheus.Counter
	AdapterErrors    *prometheus.CounterVec

	ZeroResultStreak *prometheus.GaugeVec
}

// New registers the pipeline collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ingest_runs_started_total",
			Help: "Number of ingestion runs started.",
		}),
		RunsSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "ingest_runs_succeeded_total",
			Help: "Number of ingestion runs that completed.",
		}),
		RunsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ingest_runs_failed_total",
			Help: "Number of ingestion runs that failed outright.",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ingest_run_duration_seconds",
			Help:    "Wall-clock duration of one ingestion run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		PostingsFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_postings_fetched_total",
			Help: "Raw postings fetched, per source.",
		}, []string{"source"}),
		PostingsAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_postings_accepted_total",
			Help: "Postings classified as internships and stored, per source.",
		}, []string{"source"}),
		PostingsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_postings_rejected_total",
			Help: "Postings rejected by classification or validation, per source.",
		}, []string{"source"}),
		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "ingest_events_published_total",
			Help: "New-job events published.",
		}),
		AdapterErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_adapter_errors_total",
			Help: "Adapter and item level errors, per source.",
		}, []string{"source"}),
		ZeroResultStreak: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ingest_zero_result_streak",
			Help: "Consecutive runs in which a source yielded zero postings.",
		}, []string{"source"}),
	}
}

// NewNop returns metrics backed by a throwaway registry, for tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
