// Package source defines the per-site adapter contract and the fetch
// session adapters share. One adapter knows how to drive a session against
// one external listing site; the pipeline is adapter-agnostic.
package source

import (
	"context"
	"strings"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
)

// RawPayload is one loosely-structured posting as scraped, before
// normalization. Stored untouched in the raw capture store.
type RawPayload map[string]any

// Str returns the string value for key, or "" when absent or non-string.
func (p RawPayload) Str(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// keyDelimiter separates derived key parts. Chosen so it cannot appear in
// a title, company name or link.
const keyDelimiter = "|||"

// Adapter is the three-operation contract every source implements.
// Adding a source means implementing this and registering it; nothing
// else changes.
type Adapter interface {
	// Name identifies the source; used as key prefix and log field.
	Name() string
	// FetchRaw drives the session against the source and returns the raw
	// postings it could extract. It returns partial or empty results
	// rather than failing when page structure deviates.
	FetchRaw(ctx context.Context, session *Session) ([]RawPayload, error)
	// Key computes the stable dedup key for a raw payload.
	Key(payload RawPayload) string
	// Normalize maps a raw payload into the canonical posting schema.
	// Pure; every optional field gets an explicit default.
	Normalize(payload RawPayload) (*domain.NormalizedPosting, error)
}

// DeriveKey builds a source-qualified dedup key. The external id wins when
// present; otherwise the key is derived from the normalized title, company
// and link so incidental case and whitespace differences map to the same
// posting.
func DeriveKey(source, externalID, title, company, link string) string {
	if externalID != "" {
		return source + keyDelimiter + externalID
	}
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return strings.Join(
		[]string{source, norm(title), norm(company), strings.TrimSpace(link)},
		keyDelimiter,
	)
}

// Registry is the ordered list of adapters the orchestrator runs.
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry with the given adapters, in run order.
func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: adapters}
}

// Register appends an adapter to the run order.
func (r *Registry) Register(a Adapter) {
	r.adapters = append(r.adapters, a)
}

// Adapters returns the adapters in registration order.
func (r *Registry) Adapters() []Adapter {
	return r.adapters
}
