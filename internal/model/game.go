package model

// Move is one of the three round choices
type Move string

const (
	MoveRock     Move = "r"
	MovePaper    Move = "p"
	MoveScissors Move = "s"
)

// ParseMove validates a raw move token
func ParseMove(raw string) (Move, error) {
	switch Move(raw) {
	case MoveRock, MovePaper, MoveScissors:
		return Move(raw), nil
	default:
		return "", ErrInvalidMove
	}
}

// PlayAgainChoice is a player's rematch vote
type PlayAgainChoice string

const (
	ChoiceYes PlayAgainChoice = "yes"
	ChoiceNo  PlayAgainChoice = "no"
)

// ParsePlayAgainChoice validates a raw choice token
func ParsePlayAgainChoice(raw string) (PlayAgainChoice, error) {
	switch PlayAgainChoice(raw) {
	case ChoiceYes, ChoiceNo:
		return PlayAgainChoice(raw), nil
	default:
		return "", ErrInvalidChoice
	}
}

// GameState is the battle state between rounds. The slots are keyed by room
// player order: P1 is Players[0], P2 is Players[1].
type GameState struct {
	P1HP     int `json:"p1Hp"`
	P2HP     int `json:"p2Hp"`
	P1Streak int `json:"p1Streak"`
	P2Streak int `json:"p2Streak"`
	P1Damage int `json:"p1Damage"`
	P2Damage int `json:"p2Damage"`
}

// RoundWinner identifies the winner of a single round
type RoundWinner int

const (
	RoundDraw    RoundWinner = 0
	RoundPlayer1 RoundWinner = 1
	RoundPlayer2 RoundWinner = 2
)

// RoundResult is the Round Resolver's output for one resolved round
type RoundResult struct {
	Winner          RoundWinner
	Message         string
	State           GameState
	GameOver        bool
	GameOverMessage string
}
