package shared

import "context"

// EventHandler reacts to published events, e.g. mailing shoppers when a
// coupon is issued. EventTypes lists the types it wants; nil means all.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services depend on. A publish error
// means the event was not queued; the write that produced it still stands.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the publisher plus subscription and lifecycle, used at wiring time
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	// Stop blocks until queued events are handled or ctx ends
	Stop(ctx context.Context) error
}
