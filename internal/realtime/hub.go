package realtime

import (
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active client connections and fans cache events out to them.
// Connections are tracked per API client so one client can hold several
// subscriptions, but every event goes to every connection: an invalidation
// concerns all subscribers.
type Hub struct {
	mu              sync.RWMutex
	clientIdToConns map[string]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = &Hub{
			clientIdToConns: make(map[string]map[Client]struct{}),
		}
	})
	return hubInstance
}

// Register adds a connection under an API client ID.
func (h *Hub) Register(clientID string, conn Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clientIdToConns[clientID]; !ok {
		h.clientIdToConns[clientID] = make(map[Client]struct{})
	}
	h.clientIdToConns[clientID][conn] = struct{}{}
}

// Unregister removes a connection; if the client has no more connections,
// cleans up its map entry.
func (h *Hub) Unregister(clientID string, conn Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clientIdToConns[clientID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clientIdToConns, clientID)
		}
	}
}

// Broadcast sends a message to every registered connection.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.clientIdToConns {
		for c := range conns {
			if ok := c.Send(message); !ok {
				// connection write failed; the ws handler cleans it up on its side
			}
		}
	}
}
