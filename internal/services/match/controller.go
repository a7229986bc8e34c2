package match

import (
	"context"

	"github.com/mcoot/rpsarena-go/internal/dependencies/clock"
	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/services/game"
	"github.com/mcoot/rpsarena-go/internal/storage"
)

// Controller coordinates the two per-room ledgers: pending moves for the
// current round, and play-again choices after a match ends. Each submission
// either completes a decision point or leaves the room silently pending.
type Controller struct {
	storage  storage.Storage
	resolver *game.Resolver
	clock    clock.Clock
}

// NewController creates a match Controller
func NewController(storage storage.Storage, resolver *game.Resolver, clock clock.Clock) *Controller {
	return &Controller{
		storage:  storage,
		resolver: resolver,
		clock:    clock,
	}
}

// MoveOutcome reports what a move submission did. Resolved is false while
// the round is still waiting on the other player; nothing is observable to
// clients until the second submission arrives.
type MoveOutcome struct {
	Resolved bool
	Result   model.RoundResult
	P1Move   model.Move
	P2Move   model.Move
}

// SubmitMove records a move in the pending ledger and resolves the round
// once both players have submitted. Resubmitting overwrites the player's own
// pending move (last write wins).
func (c *Controller) SubmitMove(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, move model.Move) (*MoveOutcome, error) {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if len(room.Players) < model.MaxPlayersPerRoom {
		return nil, model.ErrInsufficientPlayers
	}
	if !room.HasPlayer(playerID) || room.Opponent(playerID) == "" {
		return nil, model.ErrNoOpponent
	}

	pending, err := c.storage.GetPendingMoves(ctx, roomID)
	if err != nil {
		return nil, err
	}
	pending[playerID] = move
	if err := c.storage.SavePendingMoves(ctx, roomID, pending); err != nil {
		return nil, err
	}

	// Resolution is keyed by room player order, not submission order: slot 1
	// is Players[0] and slot 2 is Players[1].
	p1Move, p1OK := pending[room.Players[0].ID]
	p2Move, p2OK := pending[room.Players[1].ID]
	if !p1OK || !p2OK {
		return &MoveOutcome{Resolved: false}, nil
	}

	result := c.resolver.Resolve(room.State, p1Move, p2Move)

	room.State = result.State
	if result.GameOver {
		room.Status = model.RoomStatusFinished
	}
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.ClearPendingMoves(ctx, roomID); err != nil {
		return nil, err
	}
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return &MoveOutcome{
		Resolved: true,
		Result:   result,
		P1Move:   p1Move,
		P2Move:   p2Move,
	}, nil
}

// RematchDecision is the outcome of a play-again submission
type RematchDecision string

const (
	// DecisionPending means the other player has not chosen yet
	DecisionPending RematchDecision = "pending"
	// DecisionRematch means both players chose yes; a new match is starting
	DecisionRematch RematchDecision = "rematch"
	// DecisionEnded means at least one player chose no
	DecisionEnded RematchDecision = "ended"
)

// RematchOutcome reports what a play-again submission decided
type RematchOutcome struct {
	Decision RematchDecision
	State    model.GameState // Fresh state when Decision is DecisionRematch
}

// SubmitPlayAgain records a rematch choice and evaluates the decision rule:
// the first "no" ends the match immediately without waiting for the other
// player; a rematch needs a unanimous "yes" from both of exactly 2 players.
func (c *Controller) SubmitPlayAgain(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, choice model.PlayAgainChoice) (*RematchOutcome, error) {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	choices, err := c.storage.GetPlayAgainChoices(ctx, roomID)
	if err != nil {
		return nil, err
	}
	choices[playerID] = choice
	if err := c.storage.SavePlayAgainChoices(ctx, roomID, choices); err != nil {
		return nil, err
	}

	// Only choices from current occupants count.
	anyNo := false
	yesCount := 0
	for _, p := range room.Players {
		switch choices[p.ID] {
		case model.ChoiceNo:
			anyNo = true
		case model.ChoiceYes:
			yesCount++
		}
	}

	if anyNo {
		// The ledger is deliberately left as-is; the room is terminal for
		// this match and eligible for teardown via the connection lifecycle.
		room.Status = model.RoomStatusFinished
		room.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveRoom(ctx, room); err != nil {
			return nil, err
		}
		return &RematchOutcome{Decision: DecisionEnded}, nil
	}

	if len(room.Players) == model.MaxPlayersPerRoom && yesCount == model.MaxPlayersPerRoom {
		room.Status = model.RoomStatusInProgress
		room.State = c.resolver.InitialState()
		room.UpdatedAt = c.clock.Now()
		if err := c.storage.ClearPlayAgainChoices(ctx, roomID); err != nil {
			return nil, err
		}
		if err := c.storage.SaveRoom(ctx, room); err != nil {
			return nil, err
		}
		return &RematchOutcome{Decision: DecisionRematch, State: room.State}, nil
	}

	// One yes recorded, waiting on the other player.
	if room.Status == model.RoomStatusFinished {
		room.Status = model.RoomStatusRematchPending
		room.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveRoom(ctx, room); err != nil {
			return nil, err
		}
	}
	return &RematchOutcome{Decision: DecisionPending}, nil
}
