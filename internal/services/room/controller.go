package room

import (
	"context"
	"errors"

	"github.com/mcoot/rpsarena-go/internal/dependencies/clock"
	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/services/game"
	"github.com/mcoot/rpsarena-go/internal/storage"
)

// Controller owns room lifecycle: creation, joining, starting, and teardown.
// It is the only component that writes Room records and the per-room ledgers.
type Controller struct {
	storage  storage.Storage
	resolver *game.Resolver
	clock    clock.Clock
}

// NewController creates a room Controller
func NewController(storage storage.Storage, resolver *game.Resolver, clock clock.Clock) *Controller {
	return &Controller{
		storage:  storage,
		resolver: resolver,
		clock:    clock,
	}
}

// Create makes a new room with the creator as host and sole occupant.
// A repeated create from an identity already seated in the room is a no-op,
// so a client resubmitting its create on reconnect does not error out.
func (c *Controller) Create(ctx context.Context, id model.RoomID, creator model.PlayerInfo) (*model.Room, error) {
	existing, err := c.storage.GetRoom(ctx, id)
	if err == nil {
		if existing.HasPlayer(creator.ID) {
			return existing, nil
		}
		return nil, model.ErrRoomExists
	}
	if !errors.Is(err, model.ErrRoomNotFound) {
		return nil, err
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:        id,
		Players:   []model.PlayerInfo{creator},
		Status:    model.RoomStatusWaiting,
		State:     c.resolver.InitialState(),
		HostID:    creator.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Join adds a player to an existing room. Joining a room the identity is
// already in is a no-op returning the room unchanged, which is what makes
// reconnect-by-rejoining work.
func (c *Controller) Join(ctx context.Context, id model.RoomID, player model.PlayerInfo) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.HasPlayer(player.ID) {
		return room, nil
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	// Joining never auto-starts the game; the host starts it explicitly.
	room.Players = append(room.Players, player)
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Start transitions a room to in_progress with a fresh battle state.
// Only the host may start, and only with exactly 2 players seated.
func (c *Controller) Start(ctx context.Context, id model.RoomID, requester model.PlayerID) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.HostID != requester {
		return nil, model.ErrNotHost
	}
	if len(room.Players) != model.MaxPlayersPerRoom {
		return nil, model.ErrNotReady
	}

	room.Status = model.RoomStatusInProgress
	room.State = c.resolver.InitialState()
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Get retrieves a room by ID
func (c *Controller) Get(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// List returns all live rooms
func (c *Controller) List(ctx context.Context) ([]*model.Room, error) {
	return c.storage.ListRooms(ctx)
}

// Summaries projects all live rooms for the lobby
func (c *Controller) Summaries(ctx context.Context) ([]model.RoomSummary, error) {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.RoomSummary, len(rooms))
	for i, r := range rooms {
		summaries[i] = r.Summary()
	}
	return summaries, nil
}

// RemovePlayer takes a player out of a room immediately. The room drops back
// to waiting and both ledgers are cleared so the departing player leaves no
// stale round state behind.
func (c *Controller) RemovePlayer(ctx context.Context, id model.RoomID, playerID model.PlayerID) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range room.Players {
		if room.Players[i].ID == playerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}
	room.Status = model.RoomStatusWaiting
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.ClearPendingMoves(ctx, id); err != nil {
		return nil, err
	}
	if err := c.storage.ClearPlayAgainChoices(ctx, id); err != nil {
		return nil, err
	}
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// MarkWaiting resets a room's status without touching its player list.
// Used when the sole occupant disconnects: the seat is held through the
// grace window so a reconnect can reclaim it.
func (c *Controller) MarkWaiting(ctx context.Context, id model.RoomID) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	room.Status = model.RoomStatusWaiting
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete tears down a room and both of its ledgers
func (c *Controller) Delete(ctx context.Context, id model.RoomID) error {
	return c.storage.DeleteRoom(ctx, id)
}
