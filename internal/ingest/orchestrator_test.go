package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/classifier"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/events"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/metrics"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/source"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/storage"
)

// fakeAdapter serves a fixed payload list without touching the session.
type fakeAdapter struct {
	name     string
	payloads []source.RawPayload
	fetchErr error
	fetches  int
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) FetchRaw(context.Context, *source.Session) ([]source.RawPayload, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.payloads, nil
}

func (f *fakeAdapter) Key(p source.RawPayload) string {
	return source.DeriveKey(f.name, p.Str("id"), p.Str("title"), p.Str("company"), p.Str("link"))
}

func (f *fakeAdapter) Normalize(p source.RawPayload) (*domain.NormalizedPosting, error) {
	posting := &domain.NormalizedPosting{
		Source:     f.name,
		ExternalID: p.Str("id"),
		Title:      p.Str("title"),
		Company:    p.Str("company"),
		URL:        p.Str("link"),
		Type:       domain.JobTypeIntern,
	}
	if err := posting.Validate(); err != nil {
		return nil, err
	}
	return posting, nil
}

// recordingChannel captures published events.
type recordingChannel struct {
	mu     sync.Mutex
	events []*events.NewJobEvent
	err    error
}

func (r *recordingChannel) Publish(_ context.Context, _ string, payload any) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, payload.(*events.NewJobEvent))
	return nil
}

func (r *recordingChannel) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestClassifier(t *testing.T) *classifier.InternClassifier {
	t.Helper()
	c := classifier.New(nil, classifier.DefaultWeights(), logger.NewNop())
	c.Init(context.Background())
	return c
}

func newTestOrchestrator(
	t *testing.T,
	registry *source.Registry,
	channel events.Channel,
) (*Orchestrator, *storage.MemoryRawStore, *storage.MemoryJobStore) {
	t.Helper()
	rawStore := storage.NewMemoryRawStore()
	jobStore := storage.NewMemoryJobStore()
	o := New(registry, rawStore, jobStore, newTestClassifier(t), channel,
		metrics.NewNop(), logger.NewNop(), Config{})
	return o, rawStore, jobStore
}

func internPayload(id, title string) source.RawPayload {
	return source.RawPayload{
		"id":      id,
		"title":   title,
		"company": "Công ty ABC",
		"link":    "https://example.com/job/" + id,
	}
}

func TestRunOnce_PublishesOnlyNewJobs(t *testing.T) {
	adapter := &fakeAdapter{
		name: "fake",
		payloads: []source.RawPayload{
			internPayload("1", "Thực tập sinh Backend"),
			internPayload("2", "Thực tập sinh Marketing"),
		},
	}
	channel := &recordingChannel{}
	o, rawStore, jobStore := newTestOrchestrator(t, source.NewRegistry(adapter), channel)

	report, err := o.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Sources, 1)

	first := report.Sources[0]
	assert.Equal(t, 2, first.Fetched)
	assert.Equal(t, 2, first.Accepted)
	assert.Equal(t, 2, first.Published)
	assert.Equal(t, 0, first.Rejected)
	assert.Equal(t, 2, rawStore.Len())
	assert.Equal(t, 2, jobStore.Len())
	assert.Equal(t, 2, channel.len())

	// The same postings seen again are refreshed, not re-announced.
	report, err = o.RunOnce(context.Background())
	require.NoError(t, err)

	second := report.Sources[0]
	assert.Equal(t, 2, second.Accepted)
	assert.Equal(t, 0, second.Published)
	assert.Equal(t, 2, jobStore.Len())
	assert.Equal(t, 2, channel.len(), "no new events on refresh")
}

func TestRunOnce_AdapterFailureIsolated(t *testing.T) {
	failing := &fakeAdapter{name: "down", fetchErr: errors.New("site unreachable")}
	healthy := &fakeAdapter{
		name:     "up",
		payloads: []source.RawPayload{internPayload("1", "Thực tập sinh IT")},
	}
	channel := &recordingChannel{}
	o, _, jobStore := newTestOrchestrator(t, source.NewRegistry(failing, healthy), channel)

	report, err := o.RunOnce(context.Background())
	require.NoError(t, err, "one bad source must not fail the run")
	require.Len(t, report.Sources, 2)

	assert.Equal(t, 1, report.Sources[0].Errors)
	assert.Equal(t, 0, report.Sources[0].Fetched)
	assert.Equal(t, 1, report.Sources[1].Published)
	assert.Equal(t, 1, healthy.fetches, "remaining sources still run")
	assert.Equal(t, 1, jobStore.Len())
}

func TestRunOnce_NonInternRejected(t *testing.T) {
	adapter := &fakeAdapter{
		name: "fake",
		payloads: []source.RawPayload{
			internPayload("1", "Thực tập sinh Backend"),
			internPayload("2", "Senior Software Engineer, 5+ years experience"),
		},
	}
	channel := &recordingChannel{}
	o, rawStore, jobStore := newTestOrchestrator(t, source.NewRegistry(adapter), channel)

	report, err := o.RunOnce(context.Background())
	require.NoError(t, err)

	src := report.Sources[0]
	assert.Equal(t, 1, src.Accepted)
	assert.Equal(t, 1, src.Rejected)
	assert.Equal(t, 2, rawStore.Len(), "raw capture keeps rejected postings")
	assert.Equal(t, 1, jobStore.Len())
}

func TestRunOnce_UnnormalizablePayloadRejected(t *testing.T) {
	adapter := &fakeAdapter{
		name: "fake",
		payloads: []source.RawPayload{
			{"id": "1"}, // no title: fails normalization
			internPayload("2", "Thực tập sinh IT"),
		},
	}
	channel := &recordingChannel{}
	o, rawStore, _ := newTestOrchestrator(t, source.NewRegistry(adapter), channel)

	report, err := o.RunOnce(context.Background())
	require.NoError(t, err)

	src := report.Sources[0]
	assert.Equal(t, 1, src.Rejected)
	assert.Equal(t, 1, src.Accepted)
	assert.Equal(t, 2, rawStore.Len(), "capture happens before normalization")
}

func TestRunOnce_PublishFailureCountedNotFatal(t *testing.T) {
	adapter := &fakeAdapter{
		name:     "fake",
		payloads: []source.RawPayload{internPayload("1", "Thực tập sinh IT")},
	}
	channel := &recordingChannel{err: errors.New("broker down")}
	o, _, jobStore := newTestOrchestrator(t, source.NewRegistry(adapter), channel)

	report, err := o.RunOnce(context.Background())
	require.NoError(t, err)

	src := report.Sources[0]
	assert.Equal(t, 1, src.Accepted)
	assert.Equal(t, 0, src.Published)
	assert.Equal(t, 1, src.Errors)
	assert.Equal(t, 1, jobStore.Len(), "job is stored even when the announcement fails")
}

func TestRunOnce_EventProjection(t *testing.T) {
	adapter := &fakeAdapter{
		name:     "fake",
		payloads: []source.RawPayload{internPayload("1", "Thực tập sinh Backend")},
	}
	channel := &recordingChannel{}
	o, _, _ := newTestOrchestrator(t, source.NewRegistry(adapter), channel)

	_, err := o.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, channel.len())
	event := channel.events[0]
	assert.Equal(t, "Thực tập sinh Backend", event.Title)
	assert.Equal(t, "Công ty ABC", event.Company)
	assert.NotEmpty(t, event.ID)
	assert.NotEqual(t, event.EventID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestRunOnce_CancelledContextAborts(t *testing.T) {
	adapter := &fakeAdapter{
		name:     "fake",
		payloads: []source.RawPayload{internPayload("1", "Thực tập sinh Backend")},
	}
	m := metrics.NewNop()
	o := New(source.NewRegistry(adapter), storage.NewMemoryRawStore(),
		storage.NewMemoryJobStore(), newTestClassifier(t), &recordingChannel{},
		m, logger.NewNop(), Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := o.RunOnce(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
	assert.Equal(t, 0, adapter.fetches)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RunsFailed))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RunsSucceeded))
}
