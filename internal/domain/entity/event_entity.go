package entity

import "time"

// Event describes a committed change to a record. Payload never carries the
// producer document.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entityId"`
	ActorID    string         `json:"actorId,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}
