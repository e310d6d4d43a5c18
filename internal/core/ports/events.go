package ports

import (
	"context"

	"github.com/99minutos/courier-orders/internal/core/domain"
)

// EventSink accepts domain events for asynchronous delivery. Enqueue must not
// block the caller.
type EventSink interface {
	Enqueue(event domain.Event)
}

// EventPublisher delivers a single event to the external stream.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
