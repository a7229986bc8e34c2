package handler

import (
	"net/http"

	"github.com/mcoot/rpsarena-go/internal/api/response"
	"github.com/mcoot/rpsarena-go/internal/services/room"
)

// ConnectionCounter reports how many clients are connected
type ConnectionCounter interface {
	ClientCount() int
}

// HealthHandler serves the health endpoint
type HealthHandler struct {
	rooms       *room.Controller
	connections ConnectionCounter
}

// NewHealthHandler creates a HealthHandler
func NewHealthHandler(rooms *room.Controller, connections ConnectionCounter) *HealthHandler {
	return &HealthHandler{rooms: rooms, connections: connections}
}

// Get returns liveness plus a coarse activity snapshot
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "degraded"})
		return
	}
	response.JSON(w, http.StatusOK, response.Health{
		Status:      "ok",
		Connections: h.connections.ClientCount(),
		Rooms:       len(rooms),
	})
}
