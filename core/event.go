package core

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by store mutations.
const (
	EventScope = "scope" // New scope created and entered
	EventGoto  = "goto"  // Switched to an existing scope
	EventNote  = "note"  // Note recorded in the current scope
)

// Event is an append-only audit record, one per mutating command. Events are
// order-significant, JSON-serializable and never consulted for behavior; they
// exist for external debugging and replay. After emission an Event should be
// treated as immutable.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"` // UTC, serialized as RFC 3339
	Scope     string         `json:"scope"`     // Scope the command was issued from
	Payload   map[string]any `json:"payload"`
}

// NewID generates a unique identifier for event tracking and correlation.
func NewID() string { return uuid.NewString() }

func newEvent(eventType, scope string, payload map[string]any) Event {
	return Event{
		ID:        NewID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Scope:     scope,
		Payload:   payload,
	}
}
