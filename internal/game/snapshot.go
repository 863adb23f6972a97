package game

import "github.com/lox/holdemtable/poker"

// SeatView is one seat as seen by a particular viewer.
type SeatView struct {
	SeatIndex    int                    `json:"seat_index"`
	Name         *string                `json:"name"`
	Hand         []poker.Card           `json:"hand"`
	HoleCategory poker.HoleCardCategory `json:"hole_category,omitempty"`
}

// WinnerView describes one showdown winner.
type WinnerView struct {
	SeatIndex     int          `json:"seat_index"`
	Name          string       `json:"name"`
	HandRank      string       `json:"hand_rank"`
	BestFiveCards []poker.Card `json:"best_five_cards"`
}

// Snapshot is the serializable state of a table. Hole cards are only filled
// in for the viewer's own seat.
type Snapshot struct {
	GameID         string       `json:"game_id"`
	Seats          []SeatView   `json:"seats"`
	CommunityCards []poker.Card `json:"community_cards"`
	GameStarted    bool         `json:"game_started"`
	Phase          Phase        `json:"phase"`
	Round          int          `json:"round"`
	Winner         *WinnerView  `json:"winner"`
	Winners        []WinnerView `json:"winners"`
}

// State builds a snapshot for viewer, who may be empty for a spectator.
func (t *Table) State(viewer string) Snapshot {
	snap := Snapshot{
		GameID:         t.id,
		Seats:          make([]SeatView, 0, MaxSeats),
		CommunityCards: t.Community(),
		GameStarted:    t.started,
		Phase:          t.phase,
		Round:          t.round,
		Winners:        make([]WinnerView, 0, len(t.winners)),
	}

	for _, s := range t.seats {
		view := SeatView{SeatIndex: s.Index, Hand: []poker.Card{}}
		if s.Occupied() {
			name := s.Name
			view.Name = &name
			if viewer != "" && viewer == s.Name && len(s.Hole) > 0 {
				view.Hand = append(view.Hand, s.Hole...)
				view.HoleCategory = poker.CategorizeHoleCards(s.Hole)
			}
		}
		snap.Seats = append(snap.Seats, view)
	}

	for _, w := range t.winners {
		snap.Winners = append(snap.Winners, WinnerView{
			SeatIndex:     w.Seat,
			Name:          w.Name,
			HandRank:      w.Hand.Category.String(),
			BestFiveCards: append([]poker.Card{}, w.Hand.Cards[:]...),
		})
	}
	if len(snap.Winners) > 0 {
		first := snap.Winners[0]
		snap.Winner = &first
	}
	return snap
}

// Viewer returns the seat view for the named player, if seated.
func (s Snapshot) Viewer(name string) (SeatView, bool) {
	for _, seat := range s.Seats {
		if seat.Name != nil && *seat.Name == name {
			return seat, true
		}
	}
	return SeatView{}, false
}
