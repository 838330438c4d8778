// Package storage defines the raw capture and canonical job store
// contracts, with Elasticsearch implementations and in-memory ones for
// tests. Both stores expose only keyed upserts, atomic per key, so the
// pipeline stays idempotent under overlapping runs.
package storage

import (
	"context"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
)

// RawStore is the append/upsert log of every posting ever observed.
// Repeated captures of the same key replace the record in place.
type RawStore interface {
	// UpsertByKey inserts the record or replaces the existing one with
	// the same key.
	UpsertByKey(ctx context.Context, key string, raw *domain.RawPosting) error
}

// UpsertResult reports the outcome of a canonical job upsert. The
// orchestrator publishes a new-job event only when WasNewlyCreated.
type UpsertResult struct {
	Job             *domain.CanonicalJob
	WasNewlyCreated bool
}

// JobStore holds the deduplicated, classified postings.
type JobStore interface {
	// UpsertByIdentity inserts the job under its identity, or updates the
	// existing record's fields in place (last write wins).
	UpsertByIdentity(ctx context.Context, id domain.Identity, job *domain.CanonicalJob) (*UpsertResult, error)
}
