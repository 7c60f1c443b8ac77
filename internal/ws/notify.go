package ws

import (
	"encoding/json"
	"time"

	"connecty/internal/domain/profile"
)

// Publish broadcasts a profile event to every connected client.
func (h *Hub) Publish(evt profile.Event) {
	if h == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	b, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error().Err(err).Str("type", evt.Type).Msg("ws event encode failed")
		return
	}
	h.Broadcast(b)
}
