package event

import (
	"context"
	"sync"

	"github.com/acme/billing/internal/domain/shared"
	"go.uber.org/zap"
)

// MemoryPublisher is an in-process implementation of the event-publish
// port. It records every published event and logs it; real transports
// (queues, outbox tables) live in the host system.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	logger *zap.Logger
}

// NewMemoryPublisher creates a new in-memory publisher
func NewMemoryPublisher(logger *zap.Logger) *MemoryPublisher {
	return &MemoryPublisher{logger: logger}
}

// Publish records the events in publication order
func (p *MemoryPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, event := range events {
		p.events = append(p.events, event)
		p.logger.Debug("event published",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_type", event.AggregateType()),
		)
	}
	return nil
}

// Events returns a copy of all published events in order
func (p *MemoryPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// EventsOfType returns published events matching the given type, in order
func (p *MemoryPublisher) EventsOfType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []shared.DomainEvent
	for _, event := range p.events {
		if event.EventType() == eventType {
			out = append(out, event)
		}
	}
	return out
}
