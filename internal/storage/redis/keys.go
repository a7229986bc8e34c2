package redis

import (
	"fmt"

	"github.com/mcoot/rpsarena-go/internal/model"
)

// Key prefix for all arena data
const keyPrefix = "arena"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of live room IDs
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// pendingMovesKey returns the Redis key for a room's pending-move ledger
func pendingMovesKey(id model.RoomID) string {
	return fmt.Sprintf("%s:moves:%s", keyPrefix, id)
}

// playAgainKey returns the Redis key for a room's play-again ledger
func playAgainKey(id model.RoomID) string {
	return fmt.Sprintf("%s:playagain:%s", keyPrefix, id)
}
