// Package handler implements the HTTP API handlers. The API is a read-only
// window into the live coordination state; all mutation goes over the
// websocket.
package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsarena-go/internal/api/apierr"
	"github.com/mcoot/rpsarena-go/internal/api/response"
	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/services/room"
)

// RoomHandler serves room inspection endpoints
type RoomHandler struct {
	rooms *room.Controller
}

// NewRoomHandler creates a RoomHandler
func NewRoomHandler(rooms *room.Controller) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List returns the lobby view of all live rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.rooms.Summaries(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomList{Rooms: summaries})
}

// Get returns one room including its battle state
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("room id is required"))
		return
	}

	rm, err := h.rooms.Get(r.Context(), model.RoomID(id))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}
