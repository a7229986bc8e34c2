package model

import "strings"

// PlayerID uniquely identifies a player.
//
// The trimmed display name is the identity token directly: there is no
// separate generated ID, so reconnecting under the same name reclaims the
// same seat in a room.
type PlayerID string

// PlayerInfo represents a participant in a room
type PlayerInfo struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// NewPlayer builds a PlayerInfo from a display name
func NewPlayer(name string) PlayerInfo {
	trimmed := strings.TrimSpace(name)
	return PlayerInfo{
		ID:   PlayerID(trimmed),
		Name: trimmed,
	}
}
