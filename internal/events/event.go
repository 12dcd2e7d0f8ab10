// Package events carries record-change notifications from the gateway to
// connected consoles and downstream consumers.
package events

import (
	"context"
	"errors"
	"time"
)

const TypeRecordChanged = "record_changed"

type Event struct {
	Type      string    `json:"type"`
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	RecordID  string    `json:"record_id,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordChanged builds a record_changed event stamped with the current UTC time.
func RecordChanged(resource, action, recordID, actorID string) Event {
	return Event{
		Type:      TypeRecordChanged,
		Resource:  resource,
		Action:    action,
		RecordID:  recordID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	}
}

// Key partitions events by resource and record.
func (e Event) Key() string {
	if e.RecordID == "" {
		return e.Resource
	}
	return e.Resource + "/" + e.RecordID
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Fanout publishes to every non-nil publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, Event) error { return nil })
