package shared

import "context"

// EventPublisher publishes domain events to downstream consumers.
// The valuation engine only consumes this port; concrete transports
// (queues, outbox tables) live in the host system.
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}
