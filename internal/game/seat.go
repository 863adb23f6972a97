package game

import "github.com/lox/holdemtable/poker"

// MaxSeats is the number of seats at every table
const MaxSeats = 8

// Seat is one position at the table. An empty Name means the seat is vacant.
type Seat struct {
	Index int
	Name  string
	Hole  []poker.Card
}

// Occupied reports whether a player sits here
func (s Seat) Occupied() bool {
	return s.Name != ""
}

func (s Seat) clone() Seat {
	if s.Hole != nil {
		s.Hole = append([]poker.Card(nil), s.Hole...)
	}
	return s
}
