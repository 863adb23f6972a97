package tui

import (
	"fmt"
	"strings"

	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/poker"
)

// describe returns log lines for the change from prev to next. prev is nil
// for the first snapshot of a stream.
func describe(prev *game.Snapshot, next game.Snapshot) []string {
	if prev == nil {
		return []string{fmt.Sprintf("Watching %s (%s, round %d)", next.GameID, next.Phase, next.Round)}
	}

	var lines []string
	for i, seat := range next.Seats {
		if i >= len(prev.Seats) {
			break
		}
		before, after := seatName(prev.Seats[i]), seatName(seat)
		switch {
		case before == after:
		case before == "":
			lines = append(lines, fmt.Sprintf("%s joined seat %d", after, i))
		case after == "":
			lines = append(lines, fmt.Sprintf("%s left seat %d", before, i))
		default:
			lines = append(lines, fmt.Sprintf("%s replaced %s at seat %d", after, before, i))
		}
	}

	if next.Phase == prev.Phase && next.Round == prev.Round {
		return lines
	}

	switch next.Phase {
	case game.Waiting:
		lines = append(lines, "Round reset")
	case game.HoleCards:
		lines = append(lines, fmt.Sprintf("*** ROUND %d ***", next.Round))
		if seat, ok := viewerSeat(next); ok {
			lines = append(lines, fmt.Sprintf("Dealt to you: %s", plainCards(seat.Hand)))
		}
	case game.Flop, game.Turn, game.River:
		board := next.CommunityCards
		dealt := board
		if n := len(prev.CommunityCards); n <= len(board) {
			dealt = board[n:]
		}
		lines = append(lines, fmt.Sprintf("*** %s *** %s", next.Phase, plainCards(dealt)))
	case game.Showdown:
		lines = append(lines, "*** SHOWDOWN ***")
		for _, w := range next.Winners {
			lines = append(lines, fmt.Sprintf("%s wins with %s: %s", w.Name, w.HandRank, plainCards(w.BestFiveCards)))
		}
	}
	return lines
}

func seatName(s game.SeatView) string {
	if s.Name == nil {
		return ""
	}
	return *s.Name
}

// viewerSeat finds the seat whose hole cards are visible in snap
func viewerSeat(snap game.Snapshot) (game.SeatView, bool) {
	for _, s := range snap.Seats {
		if len(s.Hand) > 0 {
			return s, true
		}
	}
	return game.SeatView{}, false
}

func plainCards(cards []poker.Card) string {
	return strings.Join(poker.FormatCards(cards), " ")
}
