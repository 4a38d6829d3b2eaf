package realtime

import (
	"encoding/json"

	"cache-store-api/internal/cache"
)

// Publisher forwards cache entry events to hub subscribers as JSON messages.
type Publisher struct {
	hub *Hub
}

// NewPublisher returns a publisher that broadcasts through the given hub.
func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

// Publish implements cache.EventSink.
func (p *Publisher) Publish(evt cache.Event) {
	msg := map[string]any{
		"type":    string(evt.Type),
		"version": 1,
	}
	if evt.Key != "" {
		msg["key"] = evt.Key
	}
	if bytes, err := json.Marshal(msg); err == nil {
		p.hub.Broadcast(bytes)
	}
}

// Ensure Publisher implements cache.EventSink at compile time.
var _ cache.EventSink = (*Publisher)(nil)
