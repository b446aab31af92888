package game

import "errors"

var (
	// ErrSessionNotFound is returned for unknown or already-ended session codes.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionFull is returned when a session already has MaxPlayers members.
	ErrSessionFull = errors.New("session is full")
	// ErrDuplicateConnection is returned when a connection is already a member.
	ErrDuplicateConnection = errors.New("connection already in session")
	// ErrNotHost is returned when a non-host connection tries to start the game.
	ErrNotHost = errors.New("only the host can start the game")
	// ErrInvalidGuess is returned for guesses outside the answer corpus bounds.
	ErrInvalidGuess = errors.New("guess index out of range")
	// ErrNotInLobby is returned when starting a session that already started.
	ErrNotInLobby = errors.New("session already started")
	// ErrRoundNotActive is returned for guesses outside an active round.
	ErrRoundNotActive = errors.New("no active round")
)
