package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"uno_server/internal/logger"
)

// Hub tracks live connections and which rooms they listen to. It is the
// transport the engine pushes events through.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]struct{} // room code -> connection ids

	log *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]struct{}),
		log:     logger.With("component", "hub"),
	}
}

// Register makes c reachable under its id. A previous connection with the
// same id is closed and forgotten.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[c.ID]; ok && old != c {
		close(old.send)
		h.log.Info("connection replaced", "conn", c.ID)
	}
	h.clients[c.ID] = c
}

// Unregister drops c and its room memberships. It reports false when c
// was already replaced by a newer connection with the same id, in which
// case memberships belong to the newer one and are kept.
func (h *Hub) Unregister(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur, ok := h.clients[c.ID]
	if !ok || cur != c {
		return false
	}
	delete(h.clients, c.ID)
	close(c.send)
	for code, members := range h.rooms {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
	return true
}

func (h *Hub) Connected(connID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[connID]
	return ok
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) AddConnectionToRoom(connID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomCode] = members
	}
	members[connID] = struct{}{}
}

func (h *Hub) RemoveConnectionFromRoom(connID, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[roomCode]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomCode)
		}
	}
}

// Send queues an event for one connection. Unknown ids are ignored.
func (h *Hub) Send(connID, event string, payload any) {
	msg, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[connID]; ok {
		h.enqueue(c, event, msg)
	}
}

// BroadcastToRoom queues an event for every connection in the room.
func (h *Hub) BroadcastToRoom(roomCode, event string, payload any) {
	msg, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.rooms[roomCode] {
		if c, ok := h.clients[id]; ok {
			h.enqueue(c, event, msg)
		}
	}
}

// CloseAll sends a close frame to every connection, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
	h.rooms = make(map[string]map[string]struct{})
}

func (h *Hub) encode(event string, payload any) ([]byte, bool) {
	msg, err := json.Marshal(Message{Type: event, Payload: payload})
	if err != nil {
		h.log.Error("encode event failed", "event", event, "error", err)
		return nil, false
	}
	return msg, true
}

// enqueue never blocks; a full buffer drops the frame. Caller holds h.mu.
func (h *Hub) enqueue(c *Client, event string, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.log.Warn("send buffer full, dropping event", "conn", c.ID, "event", event)
	}
}
