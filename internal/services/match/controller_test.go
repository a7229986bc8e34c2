package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsarena-go/internal/dependencies/mocks"
	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/services/game"
	"github.com/mcoot/rpsarena-go/internal/services/room"
	"github.com/mcoot/rpsarena-go/internal/storage/memory"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	rooms      *room.Controller
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	resolver := game.NewResolver()
	s.rooms = room.NewController(s.storage, resolver, s.clock)
	s.controller = NewController(s.storage, resolver, s.clock)
	s.ctx = context.Background()
}

// startedRoom creates a started 2-player room with alice (p1) and bob (p2)
func (s *ControllerSuite) startedRoom(id model.RoomID) {
	_, err := s.rooms.Create(s.ctx, id, model.NewPlayer("alice"))
	s.Require().NoError(err)
	_, err = s.rooms.Join(s.ctx, id, model.NewPlayer("bob"))
	s.Require().NoError(err)
	_, err = s.rooms.Start(s.ctx, id, "alice")
	s.Require().NoError(err)
}

// SubmitMove tests

func (s *ControllerSuite) TestFirstMovePendsSilently() {
	s.startedRoom("room-1")

	outcome, err := s.controller.SubmitMove(s.ctx, "room-1", "alice", model.MoveRock)
	s.Require().NoError(err)

	s.False(outcome.Resolved)

	moves, err := s.storage.GetPendingMoves(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.MoveRock, moves["alice"])
}

func (s *ControllerSuite) TestSecondMoveResolvesRound() {
	s.startedRoom("room-1")

	_, err := s.controller.SubmitMove(s.ctx, "room-1", "alice", model.MoveRock)
	s.Require().NoError(err)
	outcome, err := s.controller.SubmitMove(s.ctx, "room-1", "bob", model.MoveScissors)
	s.Require().NoError(err)

	s.True(outcome.Resolved)
	s.Equal(model.RoundPlayer1, outcome.Result.Winner)
	s.Equal(model.MoveRock, outcome.P1Move)
	s.Equal(model.MoveScissors, outcome.P2Move)
	s.Equal(game.MaxHP-game.BaseDamage, outcome.Result.State.P2HP)

	// The ledger is cleared and the room carries the new state
	moves, err := s.storage.GetPendingMoves(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Empty(moves)

	rm, err := s.rooms.Get(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(outcome.Result.State, rm.State)
}

func (s *ControllerSuite) TestSlotsFollowRoomOrderNotSubmissionOrder() {
	s.startedRoom("room-1")

	// bob (p2) submits first
	_, err := s.controller.SubmitMove(s.ctx, "room-1", "bob", model.MoveScissors)
	s.Require().NoError(err)
	outcome, err := s.controller.SubmitMove(s.ctx, "room-1", "alice", model.MoveRock)
	s.Require().NoError(err)

	s.True(outcome.Resolved)
	s.Equal(model.MoveRock, outcome.P1Move)
	s.Equal(model.MoveScissors, outcome.P2Move)
	s.Equal(model.RoundPlayer1, outcome.Result.Winner)
}

func (s *ControllerSuite) TestResubmitOverwritesPendingMove() {
	s.startedRoom("room-1")

	_, err := s.controller.SubmitMove(s.ctx, "room-1", "alice", model.MoveRock)
	s.Require().NoError(err)
	_, err = s.controller.SubmitMove(s.ctx, "room-1", "alice", model.MovePaper)
	s.Require().NoError(err)

	outcome, err := s.controller.SubmitMove(s.ctx, "room-1", "bob", model.MoveRock)
	s.Require().NoError(err)

	s.True(outcome.Resolved)
	s.Equal(model.MovePaper, outcome.P1Move)
	s.Equal(model.RoundPlayer1, outcome.Result.Winner)
}

func (s *ControllerSuite) TestMoveWithOnePlayerFails() {
	_, err := s.rooms.Create(s.ctx, "room-1", model.NewPlayer("alice"))
	s.Require().NoError(err)

	_, err = s.controller.SubmitMove(s.ctx, "room-1", "alice", model.MoveRock)
	s.ErrorIs(err, model.ErrInsufficientPlayers)
}

func (s *ControllerSuite) TestMoveByOutsiderFails() {
	s.startedRoom("room-1")

	_, err := s.controller.SubmitMove(s.ctx, "room-1", "carol", model.MoveRock)
	s.ErrorIs(err, model.ErrNoOpponent)
}

func (s *ControllerSuite) TestMoveInMissingRoomFails() {
	_, err := s.controller.SubmitMove(s.ctx, "nope", "alice", model.MoveRock)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestGameOverFinishesRoom() {
	s.startedRoom("room-1")

	rm, err := s.rooms.Get(s.ctx, "room-1")
	s.Require().NoError(err)
	rm.State.P2HP = game.BaseDamage
	s.Require().NoError(s.storage.SaveRoom(s.ctx, rm))

	_, err = s.controller.SubmitMove(s.ctx, "room-1", "alice", model.MoveRock)
	s.Require().NoError(err)
	outcome, err := s.controller.SubmitMove(s.ctx, "room-1", "bob", model.MoveScissors)
	s.Require().NoError(err)

	s.True(outcome.Result.GameOver)
	s.Equal("Game over, Player 1 Wins!\n", outcome.Result.GameOverMessage)

	rm, err = s.rooms.Get(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusFinished, rm.Status)
}

// finishedRoom drives a started room to game over
func (s *ControllerSuite) finishedRoom(id model.RoomID) {
	s.startedRoom(id)

	rm, err := s.rooms.Get(s.ctx, id)
	s.Require().NoError(err)
	rm.State.P2HP = game.BaseDamage
	s.Require().NoError(s.storage.SaveRoom(s.ctx, rm))

	_, err = s.controller.SubmitMove(s.ctx, id, "alice", model.MoveRock)
	s.Require().NoError(err)
	_, err = s.controller.SubmitMove(s.ctx, id, "bob", model.MoveScissors)
	s.Require().NoError(err)
}

// SubmitPlayAgain tests

func (s *ControllerSuite) TestFirstYesPends() {
	s.finishedRoom("room-1")

	outcome, err := s.controller.SubmitPlayAgain(s.ctx, "room-1", "alice", model.ChoiceYes)
	s.Require().NoError(err)

	s.Equal(DecisionPending, outcome.Decision)

	rm, err := s.rooms.Get(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusRematchPending, rm.Status)
}

func (s *ControllerSuite) TestBothYesStartsRematch() {
	s.finishedRoom("room-1")

	_, err := s.controller.SubmitPlayAgain(s.ctx, "room-1", "alice", model.ChoiceYes)
	s.Require().NoError(err)
	outcome, err := s.controller.SubmitPlayAgain(s.ctx, "room-1", "bob", model.ChoiceYes)
	s.Require().NoError(err)

	s.Equal(DecisionRematch, outcome.Decision)
	s.Equal(game.MaxHP, outcome.State.P1HP)
	s.Equal(game.MaxHP, outcome.State.P2HP)

	rm, err := s.rooms.Get(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusInProgress, rm.Status)
	s.Equal(game.MaxHP, rm.State.P2HP)

	// The choice ledger is reset for the next game-over
	choices, err := s.storage.GetPlayAgainChoices(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Empty(choices)
}

func (s *ControllerSuite) TestFirstNoEndsImmediately() {
	s.finishedRoom("room-1")

	// A no decides without waiting for the other player
	outcome, err := s.controller.SubmitPlayAgain(s.ctx, "room-1", "alice", model.ChoiceNo)
	s.Require().NoError(err)

	s.Equal(DecisionEnded, outcome.Decision)

	rm, err := s.rooms.Get(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusFinished, rm.Status)
}

func (s *ControllerSuite) TestNoAfterYesEnds() {
	s.finishedRoom("room-1")

	_, err := s.controller.SubmitPlayAgain(s.ctx, "room-1", "alice", model.ChoiceYes)
	s.Require().NoError(err)
	outcome, err := s.controller.SubmitPlayAgain(s.ctx, "room-1", "bob", model.ChoiceNo)
	s.Require().NoError(err)

	s.Equal(DecisionEnded, outcome.Decision)
}

func (s *ControllerSuite) TestPlayAgainInMissingRoomFails() {
	_, err := s.controller.SubmitPlayAgain(s.ctx, "nope", "alice", model.ChoiceYes)
	s.ErrorIs(err, model.ErrRoomNotFound)
}
