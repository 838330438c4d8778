// Package domain defines the data model shared by the ingestion pipeline.
package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrNoIdentity is returned when a posting carries neither an external ID
// nor the (title, company, url) triple needed to deduplicate it.
var ErrNoIdentity = errors.New("posting has no usable identity")

// ErrEmptyTitle is returned when a posting has no title after normalization.
var ErrEmptyTitle = errors.New("posting title is empty")

// JobType enumerates the employment types an adapter can report.
type JobType string

const (
	JobTypeIntern    JobType = "intern"
	JobTypeFullTime  JobType = "full-time"
	JobTypePartTime  JobType = "part-time"
	JobTypeContract  JobType = "contract"
	JobTypeFreelance JobType = "freelance"
)

// RawPosting is the untouched capture of one observed posting. Repeated
// captures of the same Key overwrite Payload and FetchedAt in place.
type RawPosting struct {
	Key       string         `json:"key"`
	Source    string         `json:"source"`
	URL       string         `json:"url,omitempty"`
	Payload   map[string]any `json:"payload"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Location describes where a posting is based.
type Location struct {
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Salary is an optional structured salary range.
type Salary struct {
	Min        float64 `json:"min,omitempty"`
	Max        float64 `json:"max,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	Negotiable bool    `json:"negotiable,omitempty"`
}

// NormalizedPosting is the canonical schema an adapter produces from a raw
// payload. Title must be non-empty for the posting to proceed.
type NormalizedPosting struct {
	Source       string     `json:"source"`
	ExternalID   string     `json:"external_id,omitempty"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Description  string     `json:"description,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	Skills       []string   `json:"skills,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Location     Location   `json:"location"`
	Salary       *Salary    `json:"salary,omitempty"`
	Type         JobType    `json:"type"`
	Level        string     `json:"level,omitempty"`
	URL          string     `json:"url,omitempty"`
	PostDate     *time.Time `json:"post_date,omitempty"`
	ExpireDate   *time.Time `json:"expire_date,omitempty"`
}

// ClassifierText returns the concatenated text the classifier scores:
// title first (the rule scorer applies title-only heuristics to the first
// line), then description, requirements, tags and skills.
func (p *NormalizedPosting) ClassifierText() string {
	parts := make([]string, 0, 5)
	parts = append(parts, p.Title)
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if p.Requirements != "" {
		parts = append(parts, p.Requirements)
	}
	if len(p.Tags) > 0 {
		parts = append(parts, strings.Join(p.Tags, " "))
	}
	if len(p.Skills) > 0 {
		parts = append(parts, strings.Join(p.Skills, " "))
	}
	return strings.Join(parts, "\n")
}

// Validate checks the invariants a posting must satisfy before it can be
// classified and stored.
func (p *NormalizedPosting) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := p.Identity(); err != nil {
		return err
	}
	return nil
}
