package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
)

// MemoryRawStore is an in-memory RawStore for tests and local runs.
type MemoryRawStore struct {
	mu      sync.Mutex
	records map[string]*domain.RawPosting
}

// NewMemoryRawStore creates an empty in-memory raw store.
func NewMemoryRawStore() *MemoryRawStore {
	return &MemoryRawStore{records: make(map[string]*domain.RawPosting)}
}

// UpsertByKey inserts or replaces the record for key.
func (s *MemoryRawStore) UpsertByKey(_ context.Context, key string, raw *domain.RawPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *raw
	stored.Key = key
	s.records[key] = &stored
	return nil
}

// Get returns the stored record for key, or nil.
func (s *MemoryRawStore) Get(key string) *domain.RawPosting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[key]
}

// Len returns the number of stored records.
func (s *MemoryRawStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// MemoryJobStore is an in-memory JobStore for tests and local runs.
type MemoryJobStore struct {
	mu   sync.Mutex
	jobs map[string]*domain.CanonicalJob
}

// NewMemoryJobStore creates an empty in-memory job store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*domain.CanonicalJob)}
}

// UpsertByIdentity inserts or updates the job under its identity.
func (s *MemoryJobStore) UpsertByIdentity(_ context.Context, id domain.Identity, job *domain.CanonicalJob) (*UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docID := id.DocumentID()
	now := time.Now()

	stored := *job
	stored.UpdatedAt = now

	existing, ok := s.jobs[docID]
	if ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	s.jobs[docID] = &stored

	return &UpsertResult{Job: &stored, WasNewlyCreated: !ok}, nil
}

// Get returns the stored job for an identity, or nil.
func (s *MemoryJobStore) Get(id domain.Identity) *domain.CanonicalJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id.DocumentID()]
}

// Len returns the number of stored jobs.
func (s *MemoryJobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
