// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Activity event types.
const (
	VenueCreated  = "venue.created"
	VenueUpdated  = "venue.updated"
	VenueDeleted  = "venue.deleted"
	ArtistCreated = "artist.created"
	ArtistUpdated = "artist.updated"
	ShowCreated   = "show.created"
)

// ActivityEvent is published after a listing is created, edited or removed.
// It carries enough for the activity log without querying the database.
type ActivityEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EntityID   uint64    `json:"entity_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewActivityEvent stamps a fresh event id.
func NewActivityEvent(typ string, entityID uint64, name string, at time.Time) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		EntityID:   entityID,
		Name:       name,
		OccurredAt: at.UTC(),
	}
}
