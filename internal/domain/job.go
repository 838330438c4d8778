package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Identity is the dedup key of a canonical job. ExternalID wins when the
// source supplies one; otherwise the (title, company, url) triple is used,
// normalized so incidental case and whitespace differences do not split
// one posting into two.
type Identity struct {
	Source     string `json:"source"`
	ExternalID string `json:"external_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Company    string `json:"company,omitempty"`
	URL        string `json:"url,omitempty"`
}

// identityDelimiter separates identity parts. Chosen so it cannot appear
// in a title, company name or URL.
const identityDelimiter = "|||"

// Identity derives the dedup identity of the posting.
func (p *NormalizedPosting) Identity() (Identity, error) {
	if p.ExternalID != "" {
		return Identity{Source: p.Source, ExternalID: p.ExternalID}, nil
	}

	title := normalizeIdentityPart(p.Title)
	company := normalizeIdentityPart(p.Company)
	url := strings.TrimSpace(p.URL)
	if title == "" || company == "" || url == "" {
		return Identity{}, ErrNoIdentity
	}

	return Identity{Source: p.Source, Title: title, Company: company, URL: url}, nil
}

// String renders the identity as a stable source-qualified key.
func (id Identity) String() string {
	if id.ExternalID != "" {
		return id.Source + identityDelimiter + id.ExternalID
	}
	return strings.Join([]string{id.Source, id.Title, id.Company, id.URL}, identityDelimiter)
}

// DocumentID returns a fixed-length identifier usable as a document store
// key, derived deterministically from the identity string.
func (id Identity) DocumentID() string {
	sum := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(sum[:])
}

func normalizeIdentityPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// CanonicalJob is the deduplicated, classification-annotated posting stored
// in the job store. At most one exists per identity.
type CanonicalJob struct {
	NormalizedPosting

	AIAnalysis *Classification `json:"ai_analysis,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
