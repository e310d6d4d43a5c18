package domain

import "time"

// EventType names a domain event published to the event stream.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventOrderCreated   EventType = "order.created"
)

// Event is a fact emitted after a successful write. Key is used for
// partitioning so events about the same entity stay ordered.
type Event struct {
	Type       EventType `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}
