// Package eventstest provides an in-memory events.Publisher for tests.
package eventstest

import (
	"context"
	"sync"

	"succession-go/pkg/tasks"
)

// Recorder keeps published events in memory. Setting Err makes every publish fail.
type Recorder struct {
	mu     sync.Mutex
	Events []tasks.SuccessionEvent
	Err    error
}

func (r *Recorder) PublishEvent(_ context.Context, evt tasks.SuccessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, evt)
	return nil
}
