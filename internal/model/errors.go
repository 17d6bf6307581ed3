package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrUserNotFound = errors.New("user not found")

	// Lifecycle errors
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNotWaiting   = errors.New("game has already started")
	ErrGameNotPlaying   = errors.New("game is not in progress")
	ErrGameFull         = errors.New("game is full")
	ErrAlreadyJoined    = errors.New("player has already joined")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrTurnNotExpired   = errors.New("turn time limit has not expired")

	// Word acceptance errors, in validator check order
	ErrWordTooShort      = errors.New("word is too short")
	ErrWordTooLong       = errors.New("word is too long")
	ErrWordAlreadyUsed   = errors.New("word has already been used")
	ErrInvalidChainStart = errors.New("word does not continue the chain")
	ErrInvalidWord       = errors.New("word is not a valid word")
	ErrOracleUnavailable = errors.New("word check unavailable")

	// Concurrency errors
	ErrConcurrentModification = errors.New("game was modified concurrently")
)
