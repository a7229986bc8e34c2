// Package ws is the websocket transport: connection upgrade, per-client
// read/write pumps, and the hub that fans events out to lobby and room
// audiences.
package ws

import (
	"log/slog"
	"sync"

	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/protocol"
)

// Hub tracks live clients and their room membership. It implements the
// session gateway; delivery is best-effort and a slow client is dropped
// rather than allowed to stall broadcasts.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[model.RoomID]map[string]*Client
	logger  *slog.Logger
}

// NewHub creates a Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[model.RoomID]map[string]*Client),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c.id)
	for roomID, members := range h.rooms {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// JoinRoom subscribes a connection to a room's broadcasts
func (h *Hub) JoinRoom(connID string, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[roomID] = members
	}
	members[connID] = c
}

// LeaveRoom unsubscribes a connection from a room's broadcasts
func (h *Hub) LeaveRoom(connID string, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// BroadcastAll sends an event to every connected client
func (h *Hub) BroadcastAll(msg protocol.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.Send(msg)
	}
}

// BroadcastRoom sends an event to every client subscribed to a room
func (h *Hub) BroadcastRoom(roomID model.RoomID, msg protocol.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[roomID] {
		c.Send(msg)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
