package game

import (
	"fmt"

	"github.com/mcoot/rpsarena-go/internal/model"
)

// Battle tuning constants
const (
	MaxHP           = 100
	BaseDamage      = 10
	DoubleDamage    = 20
	StreakThreshold = 3
)

// Resolver implements the round arithmetic: HP pools, win streaks, and the
// double-damage tier. It is pure and deterministic; all coordination state
// lives elsewhere.
type Resolver struct{}

// NewResolver creates a Resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// InitialState returns a fresh battle state for a new match
func (r *Resolver) InitialState() model.GameState {
	return model.GameState{
		P1HP:     MaxHP,
		P2HP:     MaxHP,
		P1Streak: 0,
		P2Streak: 0,
		P1Damage: BaseDamage,
		P2Damage: BaseDamage,
	}
}

// roundWinner applies the fixed win table: rock beats scissors, scissors
// beats paper, paper beats rock.
func roundWinner(p1, p2 model.Move) model.RoundWinner {
	if p1 == p2 {
		return model.RoundDraw
	}
	if (p1 == model.MoveRock && p2 == model.MoveScissors) ||
		(p1 == model.MoveScissors && p2 == model.MovePaper) ||
		(p1 == model.MovePaper && p2 == model.MoveRock) {
		return model.RoundPlayer1
	}
	return model.RoundPlayer2
}

// Resolve applies one round to the previous state. Move order is significant
// only for slot labeling: p1 is the room's first player, p2 the second.
func (r *Resolver) Resolve(prev model.GameState, p1 model.Move, p2 model.Move) model.RoundResult {
	state := prev

	winner := roundWinner(p1, p2)
	var message string

	switch winner {
	case model.RoundPlayer1:
		state.P2HP -= state.P1Damage
		if state.P2HP < 0 {
			state.P2HP = 0
		}
		state.P1Streak++
		state.P2Streak = 0
		message = "\nPlayer 1 wins this round!\n"
		if state.P1Streak >= StreakThreshold {
			state.P1Damage = DoubleDamage
			message += "\nWinstreak, Double damage activated for Player 1!\n"
		}
	case model.RoundPlayer2:
		state.P1HP -= state.P2Damage
		if state.P1HP < 0 {
			state.P1HP = 0
		}
		state.P2Streak++
		state.P1Streak = 0
		message = "\nPlayer 2 wins this round!\n"
		if state.P2Streak >= StreakThreshold {
			state.P2Damage = DoubleDamage
			message += "\nWinstreak, Double damage activated for Player 2!\n"
		}
	case model.RoundDraw:
		state.P1Streak = 0
		state.P2Streak = 0
		state.P1Damage = BaseDamage
		state.P2Damage = BaseDamage
		message = "\nThis round is a draw!\n"
	}

	message += fmt.Sprintf("\nPlayer 1 Streak: %d, Player 2 Streak: %d\n", state.P1Streak, state.P2Streak)

	result := model.RoundResult{
		Winner:  winner,
		Message: message,
		State:   state,
	}

	if state.P1HP <= 0 {
		result.GameOver = true
		result.GameOverMessage = "Game over, Player 2 Wins!\n"
	} else if state.P2HP <= 0 {
		result.GameOver = true
		result.GameOverMessage = "Game over, Player 1 Wins!\n"
	}

	return result
}
