package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. It is the
// default backend and the one the coordination semantics assume: a single
// process owning all room state.
type Storage struct {
	mu sync.RWMutex

	rooms        map[model.RoomID]*model.Room
	pendingMoves map[model.RoomID]map[model.PlayerID]model.Move
	playAgain    map[model.RoomID]map[model.PlayerID]model.PlayAgainChoice
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:        make(map[model.RoomID]*model.Room),
		pendingMoves: make(map[model.RoomID]map[model.PlayerID]model.Move),
		playAgain:    make(map[model.RoomID]map[model.PlayerID]model.PlayAgainChoice),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	delete(s.pendingMoves, id)
	delete(s.playAgain, id)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID < rooms[j].ID
	})
	return rooms, nil
}

// Pending-move ledger operations

func (s *Storage) GetPendingMoves(ctx context.Context, id model.RoomID) (map[model.PlayerID]model.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	moves := make(map[model.PlayerID]model.Move, len(s.pendingMoves[id]))
	for pid, m := range s.pendingMoves[id] {
		moves[pid] = m
	}
	return moves, nil
}

func (s *Storage) SavePendingMoves(ctx context.Context, id model.RoomID, moves map[model.PlayerID]model.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingMoves[id] = moves
	return nil
}

func (s *Storage) ClearPendingMoves(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pendingMoves, id)
	return nil
}

// Play-again ledger operations

func (s *Storage) GetPlayAgainChoices(ctx context.Context, id model.RoomID) (map[model.PlayerID]model.PlayAgainChoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	choices := make(map[model.PlayerID]model.PlayAgainChoice, len(s.playAgain[id]))
	for pid, c := range s.playAgain[id] {
		choices[pid] = c
	}
	return choices, nil
}

func (s *Storage) SavePlayAgainChoices(ctx context.Context, id model.RoomID, choices map[model.PlayerID]model.PlayAgainChoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playAgain[id] = choices
	return nil
}

func (s *Storage) ClearPlayAgainChoices(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.playAgain, id)
	return nil
}
