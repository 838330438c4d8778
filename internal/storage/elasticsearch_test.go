package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
)

// fakeES records index requests and answers like an Elasticsearch node.
type fakeES struct {
	mu   sync.Mutex
	seen map[string]bool // document path -> previously written
	reqs []string
}

func newFakeES() *fakeES {
	return &fakeES{seen: map[string]bool{}}
}

func (f *fakeES) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The v8 client refuses to talk to servers without this header.
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		f.mu.Lock()
		f.reqs = append(f.reqs, r.Method+" "+r.URL.Path)
		f.mu.Unlock()

		switch {
		case r.Method == http.MethodHead:
			// Index existence checks: nothing exists.
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && strings.Count(r.URL.Path, "/") == 1:
			// Index creation.
			fmt.Fprint(w, `{"acknowledged":true}`)
		case strings.Contains(r.URL.Path, "/_doc/"):
			f.mu.Lock()
			existed := f.seen[r.URL.Path]
			f.seen[r.URL.Path] = true
			f.mu.Unlock()
			result := "created"
			status := http.StatusCreated
			if existed {
				result = "updated"
				status = http.StatusOK
			}
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"result":%q}`, result)
		default:
			fmt.Fprint(w, `{}`)
		}
	})
}

func newTestESStores(t *testing.T) (*fakeES, *ESRawStore, *ESJobStore) {
	t.Helper()
	fake := newFakeES()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	cfg := ESConfig{URL: srv.URL, IndexPrefix: "test"}
	client, err := NewESClient(cfg)
	require.NoError(t, err)

	return fake, NewESRawStore(client, cfg), NewESJobStore(client, cfg)
}

func TestESJobStore_CreatedThenUpdated(t *testing.T) {
	_, _, jobStore := newTestESStores(t)
	ctx := context.Background()

	id := domain.Identity{Source: "topcv", ExternalID: "1"}
	job := &domain.CanonicalJob{
		NormalizedPosting: domain.NormalizedPosting{
			Source: "topcv", ExternalID: "1", Title: "Thực tập sinh IT",
		},
	}

	first, err := jobStore.UpsertByIdentity(ctx, id, job)
	require.NoError(t, err)
	assert.True(t, first.WasNewlyCreated)
	assert.False(t, first.Job.CreatedAt.IsZero())

	second, err := jobStore.UpsertByIdentity(ctx, id, job)
	require.NoError(t, err)
	assert.False(t, second.WasNewlyCreated)
}

func TestESJobStore_DocumentIDFromIdentity(t *testing.T) {
	fake, _, jobStore := newTestESStores(t)
	ctx := context.Background()

	id := domain.Identity{Source: "topcv", ExternalID: "42"}
	_, err := jobStore.UpsertByIdentity(ctx, id, &domain.CanonicalJob{
		NormalizedPosting: domain.NormalizedPosting{Title: "Intern"},
	})
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.NotEmpty(t, fake.reqs)
	assert.Contains(t, fake.reqs[len(fake.reqs)-1], "/test_jobs/_doc/"+id.DocumentID())
}

func TestESRawStore_UpsertByKey(t *testing.T) {
	fake, rawStore, _ := newTestESStores(t)
	ctx := context.Background()

	raw := &domain.RawPosting{Source: "topcv", Payload: map[string]any{"title": "x"}}
	require.NoError(t, rawStore.UpsertByKey(ctx, "topcv|||1", raw))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.NotEmpty(t, fake.reqs)
	last := fake.reqs[len(fake.reqs)-1]
	assert.Contains(t, last, "/test_raw_postings/_doc/"+keyDigest("topcv|||1"))
}

func TestEnsureIndices_CreatesMissing(t *testing.T) {
	fake := newFakeES()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	cfg := ESConfig{URL: srv.URL, IndexPrefix: "test"}
	client, err := NewESClient(cfg)
	require.NoError(t, err)

	require.NoError(t, EnsureIndices(context.Background(), client, cfg, logger.NewNop()))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.reqs, "PUT /test_raw_postings")
	assert.Contains(t, fake.reqs, "PUT /test_jobs")
}

func TestESConfig_IndexNames(t *testing.T) {
	var cfg ESConfig
	cfg.SetDefaults()
	assert.Equal(t, "internship_raw_postings", cfg.RawIndex())
	assert.Equal(t, "internship_jobs", cfg.JobIndex())
}
