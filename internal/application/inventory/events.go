package inventory

import (
	"context"

	"github.com/comercial/backend/internal/domain/shared"
)

// collectDomainEvents drains pending events from aggregates so they can be
// published after the surrounding transaction commits
func collectDomainEvents(aggregates ...shared.AggregateRoot) []shared.DomainEvent {
	var events []shared.DomainEvent
	for _, aggregate := range aggregates {
		events = append(events, aggregate.GetDomainEvents()...)
		aggregate.ClearDomainEvents()
	}
	return events
}

// publishDomainEvents publishes events best-effort. Publishing failures do not
// fail the committed operation.
func publishDomainEvents(ctx context.Context, publisher shared.EventPublisher, events []shared.DomainEvent) {
	if publisher == nil {
		return
	}
	for _, event := range events {
		_ = publisher.Publish(ctx, event)
	}
}
