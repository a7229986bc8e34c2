package model

import "time"

// RoomID is the caller-chosen identifier for a room, unique among live rooms
type RoomID string

// RoomStatus represents the lifecycle state of a room
type RoomStatus string

const (
	RoomStatusWaiting        RoomStatus = "waiting"         // Below 2 players, or game not yet started
	RoomStatusInProgress     RoomStatus = "in_progress"     // Match running
	RoomStatusFinished       RoomStatus = "finished"        // Match over, or ended by a rematch veto
	RoomStatusRematchPending RoomStatus = "rematch_pending" // Awaiting play-again choices
)

// MaxPlayersPerRoom is fixed: the game is strictly two-player
const MaxPlayersPerRoom = 2

// Room is a session container for up to two players and one ongoing match.
// Player order matters: index 0 is "player 1" for the resolver's damage and
// streak bookkeeping.
type Room struct {
	ID        RoomID       `json:"id"`
	Players   []PlayerInfo `json:"players"`
	Status    RoomStatus   `json:"status"`
	State     GameState    `json:"state"`
	HostID    PlayerID     `json:"host_id"` // Creator; only the host may start the game
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// GetPlayer returns the player with the given ID, or nil if absent
func (r *Room) GetPlayer(id PlayerID) *PlayerInfo {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// HasPlayer reports whether the given identity occupies a seat in the room
func (r *Room) HasPlayer(id PlayerID) bool {
	return r.GetPlayer(id) != nil
}

// Opponent returns the other player's ID, or empty if there is none
func (r *Room) Opponent(id PlayerID) PlayerID {
	for i := range r.Players {
		if r.Players[i].ID != id {
			return r.Players[i].ID
		}
	}
	return ""
}

// IsFull reports whether the room has reached its player capacity
func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayersPerRoom
}

// RoomSummary is the lobby-wide projection of a room. It deliberately omits
// the round state, which is only sent on room-scoped events.
type RoomSummary struct {
	ID      RoomID     `json:"id"`
	Players []string   `json:"players"`
	Status  RoomStatus `json:"status"`
	HostID  PlayerID   `json:"hostId"`
}

// Summary projects the room for lobby consumption
func (r *Room) Summary() RoomSummary {
	names := make([]string, len(r.Players))
	for i, p := range r.Players {
		names[i] = p.Name
	}
	return RoomSummary{
		ID:      r.ID,
		Players: names,
		Status:  r.Status,
		HostID:  r.HostID,
	}
}
