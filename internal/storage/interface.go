package storage

import (
	"context"

	"github.com/mcoot/rpsarena-go/internal/model"
)

// Storage defines the interface for room and ledger state.
//
// The two ledgers are keyed by room ID and exist only between a round (or
// match) starting and resolving; DeleteRoom removes them along with the room.
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Pending-move ledger operations
	GetPendingMoves(ctx context.Context, id model.RoomID) (map[model.PlayerID]model.Move, error)
	SavePendingMoves(ctx context.Context, id model.RoomID, moves map[model.PlayerID]model.Move) error
	ClearPendingMoves(ctx context.Context, id model.RoomID) error

	// Play-again ledger operations
	GetPlayAgainChoices(ctx context.Context, id model.RoomID) (map[model.PlayerID]model.PlayAgainChoice, error)
	SavePlayAgainChoices(ctx context.Context, id model.RoomID, choices map[model.PlayerID]model.PlayAgainChoice) error
	ClearPlayAgainChoices(ctx context.Context, id model.RoomID) error
}
