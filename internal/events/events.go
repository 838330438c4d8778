// Package events is the publish-subscribe fan-out used to notify
// subscribers of newly accepted postings. Delivery is best-effort,
// at-most-once: no replay, no acknowledgment.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
)

// TopicNewJob is the channel subscribers join for new-job events.
const TopicNewJob = "jobs:new"

// Channel publishes events to a topic.
type Channel interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// NewJobEvent is the minimal projection published when a canonical job is
// newly created (not refreshed).
type NewJobEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	City      string    `json:"city"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// NewJobEventFrom projects a canonical job into its announcement payload.
func NewJobEventFrom(id string, job *domain.CanonicalJob) *NewJobEvent {
	return &NewJobEvent{
		EventID:   uuid.New(),
		ID:        id,
		Title:     job.Title,
		Company:   job.Company,
		City:      job.Location.City,
		URL:       job.URL,
		Timestamp: time.Now(),
	}
}

// NopChannel discards all events. Used in tests and the one-shot CLI run.
type NopChannel struct{}

// Publish does nothing.
func (NopChannel) Publish(context.Context, string, any) error { return nil }
