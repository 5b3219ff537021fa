// Package eventbus provides publish/subscribe messaging for engine events
// over watermill transports.
package eventbus

import (
	"context"

	"github.com/engagekit/engage/pkg/events"
)

// Event is any engine event with a type tag.
type Event interface {
	GetType() events.EventType
}

// EventHandler processes one decoded event. Returning an error nacks the
// message for redelivery.
type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	Publish(ctx context.Context, key string, event Event) error
	Subscribe(ctx context.Context) error
	Handle(eventType events.EventType, handler EventHandler) error
	GenerateID() string
	Close() error
}
