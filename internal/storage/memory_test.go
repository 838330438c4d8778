package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
)

func TestMemoryRawStore_UpsertOverwrites(t *testing.T) {
	store := NewMemoryRawStore()
	ctx := context.Background()

	first := &domain.RawPosting{
		Source:    "topcv",
		Payload:   map[string]any{"title": "v1"},
		FetchedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.UpsertByKey(ctx, "topcv|||1", first))
	require.Equal(t, 1, store.Len())

	second := &domain.RawPosting{
		Source:    "topcv",
		Payload:   map[string]any{"title": "v2"},
		FetchedAt: time.Now(),
	}
	require.NoError(t, store.UpsertByKey(ctx, "topcv|||1", second))

	assert.Equal(t, 1, store.Len(), "same key must overwrite, not duplicate")
	got := store.Get("topcv|||1")
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.Payload["title"])
	assert.Equal(t, "topcv|||1", got.Key)
}

func TestMemoryJobStore_NewThenRefresh(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()
	id := domain.Identity{Source: "topcv", ExternalID: "1"}

	job := &domain.CanonicalJob{
		NormalizedPosting: domain.NormalizedPosting{
			Source: "topcv", ExternalID: "1", Title: "Thực tập sinh IT",
		},
	}

	first, err := store.UpsertByIdentity(ctx, id, job)
	require.NoError(t, err)
	assert.True(t, first.WasNewlyCreated)
	assert.False(t, first.Job.CreatedAt.IsZero())
	assert.Equal(t, 1, store.Len())

	refreshed := &domain.CanonicalJob{
		NormalizedPosting: domain.NormalizedPosting{
			Source: "topcv", ExternalID: "1", Title: "Thực tập sinh IT (updated)",
		},
	}
	second, err := store.UpsertByIdentity(ctx, id, refreshed)
	require.NoError(t, err)

	assert.False(t, second.WasNewlyCreated)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, first.Job.CreatedAt, second.Job.CreatedAt, "refresh must keep CreatedAt")
	assert.False(t, second.Job.UpdatedAt.Before(first.Job.UpdatedAt))
	assert.Equal(t, "Thực tập sinh IT (updated)", store.Get(id).Title)
}

func TestMemoryJobStore_DistinctIdentities(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	a, err := store.UpsertByIdentity(ctx,
		domain.Identity{Source: "topcv", ExternalID: "1"},
		&domain.CanonicalJob{NormalizedPosting: domain.NormalizedPosting{Title: "A"}})
	require.NoError(t, err)

	b, err := store.UpsertByIdentity(ctx,
		domain.Identity{Source: "topcv", ExternalID: "2"},
		&domain.CanonicalJob{NormalizedPosting: domain.NormalizedPosting{Title: "B"}})
	require.NoError(t, err)

	assert.True(t, a.WasNewlyCreated)
	assert.True(t, b.WasNewlyCreated)
	assert.Equal(t, 2, store.Len())
}
