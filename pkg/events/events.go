// Package events builds succession events and hands them to a publisher.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"succession-go/pkg/tasks"
)

// Publisher delivers succession events to subscribers.
type Publisher interface {
	PublishEvent(ctx context.Context, evt tasks.SuccessionEvent) error
}

// New stamps an event with a fresh id and the current time.
func New(eventType string, memberID int64) tasks.SuccessionEvent {
	return tasks.SuccessionEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		MemberID:   memberID,
		OccurredAt: time.Now().UTC(),
	}
}

type nopPublisher struct{}

// NopPublisher drops every event. Used when Kafka is disabled.
func NopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishEvent(context.Context, tasks.SuccessionEvent) error {
	return nil
}
