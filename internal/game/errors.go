package game

import (
	"errors"

	"github.com/lox/holdemtable/poker"
)

// Validation failures. Callers classify them with errors.Is; every failed
// operation leaves the table unchanged.
var (
	ErrInvalidSeat      = errors.New("invalid seat")
	ErrSeatOccupied     = errors.New("seat occupied")
	ErrAlreadySeated    = errors.New("player already seated")
	ErrNotSeated        = errors.New("player not seated")
	ErrGameInProgress   = errors.New("game in progress")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrRoundComplete    = errors.New("round complete")
	ErrInvalidName      = errors.New("invalid player name")

	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// Deck and evaluator failures are unreachable under correct state machine use.
var (
	ErrDeckExhausted     = poker.ErrDeckExhausted
	ErrInsufficientCards = poker.ErrInsufficientCards
)
