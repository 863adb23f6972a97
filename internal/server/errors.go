package server

import (
	"errors"
	"net/http"

	"github.com/lox/holdemtable/internal/game"
)

// ErrBadRequest marks a malformed request body or parameter
var ErrBadRequest = errors.New("bad request")

var errorCodes = []struct {
	err    error
	code   string
	status int
}{
	{game.ErrGameNotFound, "game_not_found", http.StatusNotFound},
	{game.ErrGameExists, "game_exists", http.StatusConflict},
	{game.ErrInvalidSeat, "invalid_seat", http.StatusUnprocessableEntity},
	{game.ErrSeatOccupied, "seat_occupied", http.StatusUnprocessableEntity},
	{game.ErrAlreadySeated, "already_seated", http.StatusUnprocessableEntity},
	{game.ErrNotSeated, "not_seated", http.StatusUnprocessableEntity},
	{game.ErrGameInProgress, "game_in_progress", http.StatusUnprocessableEntity},
	{game.ErrNotEnoughPlayers, "not_enough_players", http.StatusUnprocessableEntity},
	{game.ErrRoundComplete, "round_complete", http.StatusUnprocessableEntity},
	{game.ErrInvalidName, "invalid_name", http.StatusUnprocessableEntity},
	{game.ErrDeckExhausted, "deck_exhausted", http.StatusInternalServerError},
	{game.ErrInsufficientCards, "insufficient_cards", http.StatusInternalServerError},
	{ErrBadRequest, "invalid_request", http.StatusBadRequest},
}

// classify maps an error to its wire code and HTTP status
func classify(err error) (code string, status int) {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code, c.status
		}
	}
	return "internal_error", http.StatusInternalServerError
}

// ErrorForCode returns the sentinel error a wire code stands for, so clients
// can use errors.Is on responses.
func ErrorForCode(code string) error {
	for _, c := range errorCodes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
