package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/services/game"
	"github.com/mcoot/rpsarena-go/internal/services/match"
)

// IntegrationSuite drives a whole match through the wired controllers
type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TestNewDefaultsToMemoryStorage() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NotNil(app.Storage)
	s.NotNil(app.Tracker)
}

func (s *IntegrationSuite) TestNewRejectsUnknownStorage() {
	_, err := New(Config{StorageType: "etcd"})
	s.ErrorContains(err, "invalid StorageType")
}

func (s *IntegrationSuite) TestNewRedisRequiresConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.ErrorContains(err, "RedisConfig required")
}

func (s *IntegrationSuite) TestFullMatchLifecycle() {
	rooms := s.app.RoomController
	matches := s.app.MatchController

	_, err := rooms.Create(s.ctx, "room-1", model.NewPlayer("alice"))
	s.Require().NoError(err)
	_, err = rooms.Join(s.ctx, "room-1", model.NewPlayer("bob"))
	s.Require().NoError(err)
	_, err = rooms.Start(s.ctx, "room-1", "alice")
	s.Require().NoError(err)

	// alice wins every round at base damage, hitting the streak tier on
	// round 3; 100 HP falls after 10+10+10+20+20+20+20 in 7 rounds
	var outcome *match.MoveOutcome
	for round := 0; round < 7; round++ {
		s.app.MockClock.Advance(time.Second)
		_, err = matches.SubmitMove(s.ctx, "room-1", "alice", model.MoveRock)
		s.Require().NoError(err)
		outcome, err = matches.SubmitMove(s.ctx, "room-1", "bob", model.MoveScissors)
		s.Require().NoError(err)
		s.Require().True(outcome.Resolved)
	}

	s.True(outcome.Result.GameOver)
	s.Equal(0, outcome.Result.State.P2HP)
	s.Equal(game.DoubleDamage, outcome.Result.State.P1Damage)

	rm, err := rooms.Get(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusFinished, rm.Status)

	// Unanimous rematch resets the battle
	_, err = matches.SubmitPlayAgain(s.ctx, "room-1", "alice", model.ChoiceYes)
	s.Require().NoError(err)
	rematchOutcome, err := matches.SubmitPlayAgain(s.ctx, "room-1", "bob", model.ChoiceYes)
	s.Require().NoError(err)

	s.Equal(match.DecisionRematch, rematchOutcome.Decision)
	rm, err = rooms.Get(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusInProgress, rm.Status)
	s.Equal(game.MaxHP, rm.State.P2HP)
}
