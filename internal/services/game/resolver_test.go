package game

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsarena-go/internal/model"
)

type ResolverSuite struct {
	suite.Suite
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.resolver = NewResolver()
}

func (s *ResolverSuite) TestInitialState() {
	state := s.resolver.InitialState()

	s.Equal(MaxHP, state.P1HP)
	s.Equal(MaxHP, state.P2HP)
	s.Equal(0, state.P1Streak)
	s.Equal(0, state.P2Streak)
	s.Equal(BaseDamage, state.P1Damage)
	s.Equal(BaseDamage, state.P2Damage)
}

func (s *ResolverSuite) TestWinTable() {
	cases := []struct {
		p1, p2 model.Move
		winner model.RoundWinner
	}{
		{model.MoveRock, model.MoveScissors, model.RoundPlayer1},
		{model.MoveScissors, model.MovePaper, model.RoundPlayer1},
		{model.MovePaper, model.MoveRock, model.RoundPlayer1},
		{model.MoveScissors, model.MoveRock, model.RoundPlayer2},
		{model.MovePaper, model.MoveScissors, model.RoundPlayer2},
		{model.MoveRock, model.MovePaper, model.RoundPlayer2},
		{model.MoveRock, model.MoveRock, model.RoundDraw},
		{model.MovePaper, model.MovePaper, model.RoundDraw},
		{model.MoveScissors, model.MoveScissors, model.RoundDraw},
	}

	for _, tc := range cases {
		result := s.resolver.Resolve(s.resolver.InitialState(), tc.p1, tc.p2)
		s.Equal(tc.winner, result.Winner, "p1=%s p2=%s", tc.p1, tc.p2)
	}
}

func (s *ResolverSuite) TestWinDealsBaseDamage() {
	result := s.resolver.Resolve(s.resolver.InitialState(), model.MoveRock, model.MoveScissors)

	s.Equal(MaxHP, result.State.P1HP)
	s.Equal(MaxHP-BaseDamage, result.State.P2HP)
	s.Equal(1, result.State.P1Streak)
	s.Equal(0, result.State.P2Streak)
	s.Contains(result.Message, "Player 1 wins this round!")
	s.Contains(result.Message, "Player 1 Streak: 1, Player 2 Streak: 0")
	s.False(result.GameOver)
}

func (s *ResolverSuite) TestWinResetsOpponentStreak() {
	state := s.resolver.InitialState()
	state.P1Streak = 2

	result := s.resolver.Resolve(state, model.MoveRock, model.MovePaper)

	s.Equal(0, result.State.P1Streak)
	s.Equal(1, result.State.P2Streak)
}

func (s *ResolverSuite) TestStreakActivatesDoubleDamage() {
	state := s.resolver.InitialState()
	state.P1Streak = StreakThreshold - 1

	result := s.resolver.Resolve(state, model.MoveRock, model.MoveScissors)

	s.Equal(StreakThreshold, result.State.P1Streak)
	s.Equal(DoubleDamage, result.State.P1Damage)
	s.Contains(result.Message, "Double damage activated for Player 1!")
}

func (s *ResolverSuite) TestDamageTierAppliesOnSubsequentWins() {
	state := s.resolver.InitialState()
	state.P1Damage = DoubleDamage

	result := s.resolver.Resolve(state, model.MoveRock, model.MoveScissors)

	s.Equal(MaxHP-DoubleDamage, result.State.P2HP)
}

func (s *ResolverSuite) TestDrawResetsStreaksAndDamage() {
	state := s.resolver.InitialState()
	state.P1Streak = 4
	state.P2Streak = 1
	state.P1Damage = DoubleDamage

	result := s.resolver.Resolve(state, model.MoveRock, model.MoveRock)

	s.Equal(model.RoundDraw, result.Winner)
	s.Equal(0, result.State.P1Streak)
	s.Equal(0, result.State.P2Streak)
	s.Equal(BaseDamage, result.State.P1Damage)
	s.Equal(BaseDamage, result.State.P2Damage)
	s.Equal(MaxHP, result.State.P1HP)
	s.Equal(MaxHP, result.State.P2HP)
	s.Contains(result.Message, "This round is a draw!")
}

func (s *ResolverSuite) TestGameOverWhenHPExhausted() {
	state := s.resolver.InitialState()
	state.P2HP = BaseDamage

	result := s.resolver.Resolve(state, model.MoveRock, model.MoveScissors)

	s.Equal(0, result.State.P2HP)
	s.True(result.GameOver)
	s.Equal("Game over, Player 1 Wins!\n", result.GameOverMessage)
}

func (s *ResolverSuite) TestHPNeverGoesNegative() {
	state := s.resolver.InitialState()
	state.P1HP = 5
	state.P2Damage = DoubleDamage

	result := s.resolver.Resolve(state, model.MoveScissors, model.MoveRock)

	s.Equal(0, result.State.P1HP)
	s.True(result.GameOver)
	s.Equal("Game over, Player 2 Wins!\n", result.GameOverMessage)
}

// A streak survives winning rounds until a loss or draw interrupts it, and
// the double damage tier persists until a draw resets it.
func (s *ResolverSuite) TestStreakScenario() {
	state := s.resolver.InitialState()

	for i := 0; i < 3; i++ {
		result := s.resolver.Resolve(state, model.MoveRock, model.MoveScissors)
		state = result.State
	}
	s.Equal(3, state.P1Streak)
	s.Equal(DoubleDamage, state.P1Damage)
	s.Equal(MaxHP-3*BaseDamage, state.P2HP)

	// Fourth win lands double damage
	result := s.resolver.Resolve(state, model.MoveRock, model.MoveScissors)
	state = result.State
	s.Equal(MaxHP-3*BaseDamage-DoubleDamage, state.P2HP)

	// A loss breaks the streak but keeps the damage tier
	result = s.resolver.Resolve(state, model.MoveRock, model.MovePaper)
	state = result.State
	s.Equal(0, state.P1Streak)
	s.Equal(DoubleDamage, state.P1Damage)

	// A draw resets the tier
	result = s.resolver.Resolve(state, model.MovePaper, model.MovePaper)
	s.Equal(BaseDamage, result.State.P1Damage)
}
