package profile

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventCreated = "profile_created"
	EventUpdated = "profile_updated"
	EventDeleted = "profile_deleted"
)

type Event struct {
	Type      string    `json:"type"`
	Handle    string    `json:"handle,omitempty"`
	UserID    uuid.UUID `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(typ string, p Profile) Event {
	return Event{Type: typ, Handle: p.Handle, UserID: p.UserID, Timestamp: time.Now().UTC()}
}
