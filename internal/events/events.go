// Package events publishes domain events after successful writes. Publishing
// is best effort: a failed publish is logged and never fails the write.
package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	PassengerCreated Type = "PassengerCreated"
	PassengerUpdated Type = "PassengerUpdated"
	PassengerDeleted Type = "PassengerDeleted"
	UserCreated      Type = "UserCreated"
	UserUpdated      Type = "UserUpdated"
	UserDeleted      Type = "UserDeleted"
)

type Event struct {
	Type       Type      `json:"type"`
	EntityID   string    `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func New(t Type, entityID string) Event {
	return Event{Type: t, EntityID: entityID, OccurredAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
