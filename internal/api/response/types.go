package response

import (
	"time"

	"github.com/mcoot/rpsarena-go/internal/model"
)

// Room represents a room in API responses
type Room struct {
	ID        string          `json:"id"`
	Players   []string        `json:"players"`
	Status    string          `json:"status"`
	HostID    string          `json:"hostId"`
	State     model.GameState `json:"state"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RoomFromModel converts a model.Room to a response Room
func RoomFromModel(r *model.Room) Room {
	players := make([]string, len(r.Players))
	for i, p := range r.Players {
		players[i] = p.Name
	}
	return Room{
		ID:        string(r.ID),
		Players:   players,
		Status:    string(r.Status),
		HostID:    string(r.HostID),
		State:     r.State,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RoomList is the response for the room listing endpoint
type RoomList struct {
	Rooms []model.RoomSummary `json:"rooms"`
}

// Health is the response for the health endpoint
type Health struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Rooms       int    `json:"rooms"`
}
