package game

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/lox/holdemtable/poker"
)

// DeckFactory produces the deck for a new round
type DeckFactory func(rng *rand.Rand) (*poker.Deck, error)

// ShuffledDeck is the default DeckFactory.
func ShuffledDeck(rng *rand.Rand) (*poker.Deck, error) {
	return poker.NewShuffledDeck(rng), nil
}

// Option configures a Table during creation.
type Option func(*Table)

// WithDeckFactory replaces the per-round deck source.
func WithDeckFactory(f DeckFactory) Option {
	return func(t *Table) {
		if f != nil {
			t.newDeck = f
		}
	}
}

// WithStackedDeck deals every round from a deck whose top cards are fixed.
// Cards are dealt two per occupied seat in seat order, then flop, turn and river.
func WithStackedDeck(top ...poker.Card) Option {
	top = append([]poker.Card(nil), top...)
	return WithDeckFactory(func(*rand.Rand) (*poker.Deck, error) {
		return poker.NewStackedDeck(top...)
	})
}

// WithBurnCards discards one card before the flop, the turn and the river.
func WithBurnCards(burn bool) Option {
	return func(t *Table) { t.burn = burn }
}

// Winner is a seat that holds the best hand at showdown.
type Winner struct {
	Seat int
	Name string
	Hand poker.Hand
}

// Table represents a poker table
type Table struct {
	id      string
	rng     *rand.Rand
	newDeck DeckFactory
	burn    bool

	seats     [MaxSeats]Seat
	deck      *poker.Deck
	community []poker.Card
	phase     Phase
	started   bool
	round     int
	winners   []Winner
}

// NewTable creates an empty table in the WAITING phase. A nil rng shuffles
// with the process-wide generator.
func NewTable(id string, rng *rand.Rand, opts ...Option) *Table {
	t := &Table{
		id:      id,
		rng:     rng,
		newDeck: ShuffledDeck,
	}
	for i := range t.seats {
		t.seats[i].Index = i
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the table identifier
func (t *Table) ID() string { return t.id }

// Phase returns the current dealing phase
func (t *Table) Phase() Phase { return t.phase }

// Started reports whether a round is under way; seating is frozen while true.
func (t *Table) Started() bool { return t.started }

// Round counts the rounds started on this table.
func (t *Table) Round() int { return t.round }

// DeckRemaining returns the undrawn cards of the current round's deck.
func (t *Table) DeckRemaining() int {
	if t.deck == nil {
		return 0
	}
	return t.deck.Remaining()
}

// Seats returns a copy of all eight seats in index order.
func (t *Table) Seats() []Seat {
	seats := make([]Seat, MaxSeats)
	for i, s := range t.seats {
		seats[i] = s.clone()
	}
	return seats
}

// Community returns a copy of the community cards.
func (t *Table) Community() []poker.Card {
	return append([]poker.Card{}, t.community...)
}

// Winners returns the showdown winners in seat order, empty before showdown.
func (t *Table) Winners() []Winner {
	return append([]Winner{}, t.winners...)
}

// SeatOf returns the seat index of the named player.
func (t *Table) SeatOf(name string) (int, bool) {
	for _, s := range t.seats {
		if s.Occupied() && s.Name == name {
			return s.Index, true
		}
	}
	return -1, false
}

// PlayerCount returns the number of occupied seats
func (t *Table) PlayerCount() int {
	n := 0
	for _, s := range t.seats {
		if s.Occupied() {
			n++
		}
	}
	return n
}

// Join seats a player. Seat occupancy is checked before the game state so a
// taken seat always reports ErrSeatOccupied.
func (t *Table) Join(seat int, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if seat < 0 || seat >= MaxSeats {
		return fmt.Errorf("%w: %d is outside 0..%d", ErrInvalidSeat, seat, MaxSeats-1)
	}
	if t.seats[seat].Occupied() {
		return fmt.Errorf("%w: seat %d is taken by %s", ErrSeatOccupied, seat, t.seats[seat].Name)
	}
	if t.started {
		return fmt.Errorf("%w: cannot join during %s", ErrGameInProgress, t.phase)
	}
	if idx, ok := t.SeatOf(name); ok {
		return fmt.Errorf("%w: %s is in seat %d", ErrAlreadySeated, name, idx)
	}

	t.seats[seat].Name = name
	t.seats[seat].Hole = nil
	return nil
}

// SeatPlayers joins names into consecutive seats starting at seat 0. Either
// every name is seated or the table is left as it was.
func (t *Table) SeatPlayers(names ...string) error {
	before := t.seats
	for i, name := range names {
		if err := t.Join(i, name); err != nil {
			t.seats = before
			return fmt.Errorf("seat %q: %w", name, err)
		}
	}
	return nil
}

// Leave vacates the named player's seat.
func (t *Table) Leave(name string) error {
	idx, ok := t.SeatOf(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSeated, name)
	}
	if t.started {
		return fmt.Errorf("%w: cannot leave during %s", ErrGameInProgress, t.phase)
	}

	t.seats[idx] = Seat{Index: idx}
	return nil
}

// DealNext advances the table one phase and returns the new phase.
func (t *Table) DealNext() (Phase, error) {
	var err error
	switch t.phase {
	case Waiting:
		err = t.dealHoleCards()
	case HoleCards:
		err = t.dealCommunity(3, Flop)
	case Flop:
		err = t.dealCommunity(1, Turn)
	case Turn:
		err = t.dealCommunity(1, River)
	case River:
		err = t.showdown()
	case Showdown:
		err = fmt.Errorf("%w: reset before dealing again", ErrRoundComplete)
	default:
		err = fmt.Errorf("unknown phase %s", t.phase)
	}
	return t.phase, err
}

func (t *Table) dealHoleCards() error {
	occupied := t.PlayerCount()
	if occupied < 2 {
		return fmt.Errorf("%w: need 2, have %d", ErrNotEnoughPlayers, occupied)
	}

	deck, err := t.newDeck(t.rng)
	if err != nil {
		return fmt.Errorf("new deck: %w", err)
	}

	var holes [MaxSeats][]poker.Card
	for i, s := range t.seats {
		if !s.Occupied() {
			continue
		}
		cards, err := deck.Draw(2)
		if err != nil {
			return fmt.Errorf("hole cards for seat %d: %w", i, err)
		}
		holes[i] = cards
	}

	t.deck = deck
	t.community = nil
	t.winners = nil
	for i := range t.seats {
		t.seats[i].Hole = holes[i]
	}
	t.started = true
	t.round++
	t.phase = HoleCards
	return nil
}

func (t *Table) dealCommunity(n int, next Phase) error {
	burn := 0
	if t.burn {
		burn = 1
	}
	cards, err := t.deck.Draw(burn + n)
	if err != nil {
		return fmt.Errorf("deal %s: %w", next, err)
	}

	t.community = append(t.community, cards[burn:]...)
	t.phase = next
	return nil
}

func (t *Table) showdown() error {
	var (
		contenders [][]poker.Card
		seatIdx    []int
	)
	for _, s := range t.seats {
		if !s.Occupied() {
			continue
		}
		cards := make([]poker.Card, 0, len(s.Hole)+len(t.community))
		cards = append(cards, s.Hole...)
		cards = append(cards, t.community...)
		contenders = append(contenders, cards)
		seatIdx = append(seatIdx, s.Index)
	}

	results, err := poker.Winners(contenders)
	if err != nil {
		return fmt.Errorf("showdown: %w", err)
	}

	winners := make([]Winner, 0, len(results))
	for _, r := range results {
		idx := seatIdx[r.Index]
		winners = append(winners, Winner{Seat: idx, Name: t.seats[idx].Name, Hand: r.Hand})
	}
	t.winners = winners
	t.phase = Showdown
	return nil
}

// ResetRound clears all cards and the result and returns to WAITING. Seated
// players keep their seats.
func (t *Table) ResetRound() {
	for i := range t.seats {
		t.seats[i].Hole = nil
	}
	t.deck = nil
	t.community = nil
	t.winners = nil
	t.started = false
	t.phase = Waiting
}
