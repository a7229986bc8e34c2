package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Note that the coordination layer still assumes a single server process;
// this backend exists so room state can survive a process restart, not to
// share rooms between instances.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, roomKey(room.ID), data, s.cfg.RoomTTL)
	pipe.SAdd(ctx, roomIndexKey(), string(room.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, roomKey(id))
	pipe.Del(ctx, pendingMovesKey(id))
	pipe.Del(ctx, playAgainKey(id))
	pipe.SRem(ctx, roomIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	ids, err := s.client.SMembers(ctx, roomIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Room{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = roomKey(model.RoomID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	rooms := make([]*model.Room, 0, len(values))
	staleIDs := make([]interface{}, 0)
	for i, val := range values {
		if val == nil {
			// Room expired but was still indexed
			staleIDs = append(staleIDs, ids[i])
			continue
		}
		var room model.Room
		if err := json.Unmarshal([]byte(val.(string)), &room); err != nil {
			continue
		}
		rooms = append(rooms, &room)
	}

	if len(staleIDs) > 0 {
		_ = s.client.SRem(ctx, roomIndexKey(), staleIDs...).Err()
	}

	return rooms, nil
}

// Pending-move ledger operations

func (s *Storage) GetPendingMoves(ctx context.Context, id model.RoomID) (map[model.PlayerID]model.Move, error) {
	entries, err := s.client.HGetAll(ctx, pendingMovesKey(id)).Result()
	if err != nil {
		return nil, err
	}
	moves := make(map[model.PlayerID]model.Move, len(entries))
	for pid, m := range entries {
		moves[model.PlayerID(pid)] = model.Move(m)
	}
	return moves, nil
}

func (s *Storage) SavePendingMoves(ctx context.Context, id model.RoomID, moves map[model.PlayerID]model.Move) error {
	key := pendingMovesKey(id)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	if len(moves) > 0 {
		fields := make(map[string]interface{}, len(moves))
		for pid, m := range moves {
			fields[string(pid)] = string(m)
		}
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.cfg.RoomTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ClearPendingMoves(ctx context.Context, id model.RoomID) error {
	return s.client.Del(ctx, pendingMovesKey(id)).Err()
}

// Play-again ledger operations

func (s *Storage) GetPlayAgainChoices(ctx context.Context, id model.RoomID) (map[model.PlayerID]model.PlayAgainChoice, error) {
	entries, err := s.client.HGetAll(ctx, playAgainKey(id)).Result()
	if err != nil {
		return nil, err
	}
	choices := make(map[model.PlayerID]model.PlayAgainChoice, len(entries))
	for pid, c := range entries {
		choices[model.PlayerID(pid)] = model.PlayAgainChoice(c)
	}
	return choices, nil
}

func (s *Storage) SavePlayAgainChoices(ctx context.Context, id model.RoomID, choices map[model.PlayerID]model.PlayAgainChoice) error {
	key := playAgainKey(id)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	if len(choices) > 0 {
		fields := make(map[string]interface{}, len(choices))
		for pid, c := range choices {
			fields[string(pid)] = string(c)
		}
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.cfg.RoomTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ClearPlayAgainChoices(ctx context.Context, id model.RoomID) error {
	return s.client.Del(ctx, playAgainKey(id)).Err()
}
