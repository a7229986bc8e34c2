// Package session tracks the binding between live connections and room
// seats, and drives every room mutation in response to inbound messages.
// All handlers run to completion under a single lock, so room state never
// sees interleaved writers and the ledgers need no coordination of their own.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/rpsarena-go/internal/dependencies/clock"
	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/protocol"
	"github.com/mcoot/rpsarena-go/internal/services/match"
	"github.com/mcoot/rpsarena-go/internal/services/room"
)

// DefaultGraceDelay is how long a player-less room is kept alive to absorb
// a rapid reconnect, e.g. a page reload.
const DefaultGraceDelay = 3 * time.Second

// Conn is a live client connection as seen by the tracker
type Conn interface {
	ID() string
	Send(msg protocol.Message)
}

// Gateway fans out events to connections. Room membership is managed by the
// tracker through Join/Leave; delivery is best-effort.
type Gateway interface {
	JoinRoom(connID string, roomID model.RoomID)
	LeaveRoom(connID string, roomID model.RoomID)
	BroadcastAll(msg protocol.Message)
	BroadcastRoom(roomID model.RoomID, msg protocol.Message)
}

// binding records which room seat a connection occupies
type binding struct {
	roomID   model.RoomID
	playerID model.PlayerID
}

// Tracker is the per-connection state machine: Unidentified until a name is
// supplied, then Identified, then Bound once a create/join succeeds.
type Tracker struct {
	mu sync.Mutex

	rooms      *room.Controller
	matches    *match.Controller
	gateway    Gateway
	clock      clock.Clock
	graceDelay time.Duration
	logger     *slog.Logger

	names          map[string]string            // conn ID -> identified display name
	bindings       map[string]binding           // conn ID -> room seat
	pendingDeletes map[model.RoomID]clock.Timer // at most one per room
}

// NewTracker creates a Tracker
func NewTracker(
	rooms *room.Controller,
	matches *match.Controller,
	gateway Gateway,
	clk clock.Clock,
	graceDelay time.Duration,
	logger *slog.Logger,
) *Tracker {
	if graceDelay <= 0 {
		graceDelay = DefaultGraceDelay
	}
	return &Tracker{
		rooms:          rooms,
		matches:        matches,
		gateway:        gateway,
		clock:          clk,
		graceDelay:     graceDelay,
		logger:         logger.With(slog.String("component", "session")),
		names:          make(map[string]string),
		bindings:       make(map[string]binding),
		pendingDeletes: make(map[model.RoomID]clock.Timer),
	}
}

// HandleConnect greets a new connection with the current lobby snapshot
func (t *Tracker) HandleConnect(ctx context.Context, c Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendLobby(ctx, c)
}

// HandleMessage routes one inbound message. Errors degrade to an error event
// on the originating connection; they never disconnect it.
func (t *Tracker) HandleMessage(ctx context.Context, c Conn, msg protocol.Inbound) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch m := msg.(type) {
	case *protocol.Identify:
		t.handleIdentify(ctx, c, m)
	case *protocol.ListRooms:
		t.sendLobby(ctx, c)
	case *protocol.CreateRoom:
		t.handleCreateOrJoin(ctx, c, m.RoomID, m.PlayerName, true)
	case *protocol.JoinRoom:
		t.handleCreateOrJoin(ctx, c, m.RoomID, m.PlayerName, false)
	case *protocol.StartGame:
		t.handleStartGame(ctx, c, m)
	case *protocol.MakeMove:
		t.handleMakeMove(ctx, c, m)
	case *protocol.PlayAgainChoice:
		t.handlePlayAgain(ctx, c, m)
	default:
		c.Send(protocol.NewError("unsupported message"))
	}
}

func (t *Tracker) handleIdentify(ctx context.Context, c Conn, m *protocol.Identify) {
	trimmed := strings.TrimSpace(m.PlayerName)
	if trimmed == "" {
		c.Send(protocol.NewError(model.ErrNameRequired.Error()))
		return
	}
	t.names[c.ID()] = trimmed
	t.sendLobby(ctx, c)
}

// resolveName prefers the per-message name, falling back to the name the
// connection identified with.
func (t *Tracker) resolveName(c Conn, name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed != "" {
		return trimmed
	}
	return t.names[c.ID()]
}

func (t *Tracker) handleCreateOrJoin(ctx context.Context, c Conn, rawRoomID, rawName string, create bool) {
	roomID := model.RoomID(strings.TrimSpace(rawRoomID))
	name := t.resolveName(c, rawName)
	if roomID == "" || name == "" {
		c.Send(protocol.NewError("roomId and playerName are required"))
		return
	}

	player := model.NewPlayer(name)

	var (
		rm  *model.Room
		err error
	)
	if create {
		rm, err = t.rooms.Create(ctx, roomID, player)
	} else {
		rm, err = t.rooms.Join(ctx, roomID, player)
	}
	if err != nil {
		c.Send(protocol.NewError(err.Error()))
		return
	}

	t.gateway.JoinRoom(c.ID(), roomID)

	// A successful create or join supersedes any scheduled deletion; this is
	// what makes a quick reconnect land in the still-live room.
	t.cancelPendingDelete(roomID)

	t.bindings[c.ID()] = binding{roomID: roomID, playerID: player.ID}

	t.broadcastLobby(ctx)
	t.gateway.BroadcastRoom(roomID, protocol.NewRoomUpdate(rm))

	// The actor gets the state snapshot directly while the room is still
	// filling; once full, the room-wide events above carry everything.
	if !rm.IsFull() {
		c.Send(protocol.NewRoomCreated(rm))
	}
}

func (t *Tracker) handleStartGame(ctx context.Context, c Conn, m *protocol.StartGame) {
	roomID := model.RoomID(strings.TrimSpace(m.RoomID))
	name := t.resolveName(c, m.PlayerName)
	if roomID == "" || name == "" {
		c.Send(protocol.NewError("roomId and playerName are required"))
		return
	}

	rm, err := t.rooms.Start(ctx, roomID, model.PlayerID(name))
	if err != nil {
		c.Send(protocol.NewError(err.Error()))
		return
	}

	t.broadcastLobby(ctx)
	t.gateway.BroadcastRoom(roomID, protocol.NewGameStart(rm))
	t.gateway.BroadcastRoom(roomID, protocol.NewStateUpdate(protocol.StateUpdatePayload{
		RoomID: rm.ID,
		State:  rm.State,
	}))
}

func (t *Tracker) handleMakeMove(ctx context.Context, c Conn, m *protocol.MakeMove) {
	roomID := model.RoomID(strings.TrimSpace(m.RoomID))
	name := t.resolveName(c, m.PlayerName)
	if roomID == "" || name == "" || m.Move == "" {
		c.Send(protocol.NewError("roomId, playerName and move are required"))
		return
	}

	move, err := model.ParseMove(m.Move)
	if err != nil {
		c.Send(protocol.NewError(err.Error()))
		return
	}

	outcome, err := t.matches.SubmitMove(ctx, roomID, model.PlayerID(name), move)
	if err != nil {
		c.Send(protocol.NewError(err.Error()))
		return
	}
	if !outcome.Resolved {
		// Waiting on the opponent; the round stays silently pending.
		return
	}

	roundMessage := outcome.Result.Message
	if outcome.Result.GameOverMessage != "" {
		roundMessage += "\n" + outcome.Result.GameOverMessage
	}

	t.gateway.BroadcastRoom(roomID, protocol.NewStateUpdate(protocol.StateUpdatePayload{
		RoomID:       roomID,
		State:        outcome.Result.State,
		RoundMessage: roundMessage,
		GameOver:     outcome.Result.GameOver,
		Player1Move:  string(outcome.P1Move),
		Player2Move:  string(outcome.P2Move),
	}))
	if outcome.Result.GameOver {
		t.broadcastLobby(ctx)
	}
}

func (t *Tracker) handlePlayAgain(ctx context.Context, c Conn, m *protocol.PlayAgainChoice) {
	roomID := model.RoomID(strings.TrimSpace(m.RoomID))
	name := t.resolveName(c, m.PlayerName)
	if roomID == "" || name == "" || m.Choice == "" {
		c.Send(protocol.NewError("roomId, playerName and choice are required"))
		return
	}

	choice, err := model.ParsePlayAgainChoice(m.Choice)
	if err != nil {
		c.Send(protocol.NewError(err.Error()))
		return
	}

	outcome, err := t.matches.SubmitPlayAgain(ctx, roomID, model.PlayerID(name), choice)
	if err != nil {
		c.Send(protocol.NewError(err.Error()))
		return
	}

	switch outcome.Decision {
	case match.DecisionEnded:
		t.gateway.BroadcastRoom(roomID, protocol.NewPlayAgainUpdate(roomID, "ended"))
		t.broadcastLobby(ctx)
	case match.DecisionRematch:
		t.gateway.BroadcastRoom(roomID, protocol.NewPlayAgainUpdate(roomID, "rematch"))
		t.gateway.BroadcastRoom(roomID, protocol.NewStateUpdate(protocol.StateUpdatePayload{
			RoomID: roomID,
			State:  outcome.State,
		}))
		t.broadcastLobby(ctx)
	case match.DecisionPending:
		// Waiting on the other player.
	}
}

// HandleDisconnect cleans up after a transport-level drop. A room losing one
// of two players recovers immediately; a room losing its only player is kept
// through a grace window in case the player comes right back.
func (t *Tracker) HandleDisconnect(ctx context.Context, c Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.names, c.ID())

	b, ok := t.bindings[c.ID()]
	if !ok {
		return
	}
	delete(t.bindings, c.ID())
	t.gateway.LeaveRoom(c.ID(), b.roomID)

	rm, err := t.rooms.Get(ctx, b.roomID)
	if err != nil {
		// Room already torn down.
		return
	}
	if !rm.HasPlayer(b.playerID) {
		// Seat already vacated by an earlier disconnect.
		return
	}

	if len(rm.Players) > 1 {
		updated, err := t.rooms.RemovePlayer(ctx, b.roomID, b.playerID)
		if err != nil {
			t.logger.Error("failed to remove player on disconnect",
				slog.String("room", string(b.roomID)),
				slog.String("player", string(b.playerID)),
				slog.Any("error", err))
			return
		}
		t.gateway.BroadcastRoom(b.roomID, protocol.NewRoomUpdate(updated))
	} else {
		// Sole occupant: hold the seat and defer the teardown decision.
		if _, err := t.rooms.MarkWaiting(ctx, b.roomID); err != nil {
			t.logger.Error("failed to mark room waiting on disconnect",
				slog.String("room", string(b.roomID)),
				slog.Any("error", err))
			return
		}
		t.schedulePendingDelete(b.roomID)
	}

	t.broadcastLobby(ctx)
}

// schedulePendingDelete arms the grace-window deletion check for a room,
// superseding any prior pending check.
func (t *Tracker) schedulePendingDelete(roomID model.RoomID) {
	t.cancelPendingDelete(roomID)
	t.pendingDeletes[roomID] = t.clock.AfterFunc(t.graceDelay, func() {
		t.deletionCheck(roomID)
	})
}

// cancelPendingDelete disarms a scheduled deletion check, if any
func (t *Tracker) cancelPendingDelete(roomID model.RoomID) {
	if timer, ok := t.pendingDeletes[roomID]; ok {
		timer.Stop()
		delete(t.pendingDeletes, roomID)
	}
}

// deletionCheck runs when the grace window elapses. Conditions are
// re-verified at fire time: if any live connection re-bound to the room in
// the meantime, the room survives.
func (t *Tracker) deletionCheck(roomID model.RoomID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pendingDeletes, roomID)

	ctx := context.Background()
	if _, err := t.rooms.Get(ctx, roomID); err != nil {
		return
	}
	for _, b := range t.bindings {
		if b.roomID == roomID {
			return
		}
	}

	if err := t.rooms.Delete(ctx, roomID); err != nil {
		t.logger.Error("failed to delete room after grace window",
			slog.String("room", string(roomID)),
			slog.Any("error", err))
		return
	}
	t.logger.Info("room deleted after grace window", slog.String("room", string(roomID)))
	t.broadcastLobby(ctx)
}

// sendLobby sends the lobby snapshot to a single connection
func (t *Tracker) sendLobby(ctx context.Context, c Conn) {
	summaries, err := t.rooms.Summaries(ctx)
	if err != nil {
		t.logger.Error("failed to list rooms", slog.Any("error", err))
		c.Send(protocol.NewError("failed to list rooms"))
		return
	}
	c.Send(protocol.NewRoomList(summaries))
}

// broadcastLobby pushes the lobby snapshot to every connection
func (t *Tracker) broadcastLobby(ctx context.Context) {
	summaries, err := t.rooms.Summaries(ctx)
	if err != nil {
		t.logger.Error("failed to list rooms for broadcast", slog.Any("error", err))
		return
	}
	t.gateway.BroadcastAll(protocol.NewRoomList(summaries))
}
