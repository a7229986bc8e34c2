package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomExists          = errors.New("room already exists")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrNotHost             = errors.New("only the room host can start the game")
	ErrNotReady            = errors.New("need 2 players to start the game")
	ErrInsufficientPlayers = errors.New("need two players in the room to play")
	ErrNoOpponent          = errors.New("opponent not found")

	// Input errors
	ErrInvalidMove   = errors.New("invalid move")
	ErrInvalidChoice = errors.New("invalid play-again choice")
	ErrNameRequired  = errors.New("player name is required")
)
