package poker

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// ErrDeckExhausted is returned when more cards are drawn than remain in the deck
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck represents a standard 52-card deck with a draw cursor
type Deck struct {
	cards [DeckSize]Card // Fixed size array
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a deck in canonical order. The rng is used by Shuffle; nil
// falls back to the process-wide generator.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	return d
}

// NewShuffledDeck creates a deck and shuffles it with rng
func NewShuffledDeck(rng *rand.Rand) *Deck {
	d := NewDeck(rng)
	d.Shuffle()
	return d
}

// NewStackedDeck returns an unshuffled deck whose first cards are top, followed
// by the remaining cards in canonical order. Duplicate or invalid cards are rejected.
func NewStackedDeck(top ...Card) (*Deck, error) {
	if len(top) > DeckSize {
		return nil, fmt.Errorf("stacked deck: %d cards exceeds %d", len(top), DeckSize)
	}

	var used [DeckSize]bool
	d := &Deck{}
	for i, c := range top {
		if !c.Valid() {
			return nil, fmt.Errorf("stacked deck: invalid card at %d", i)
		}
		if used[c.Index()] {
			return nil, fmt.Errorf("stacked deck: duplicate card %s", c)
		}
		used[c.Index()] = true
		d.cards[i] = c
	}

	i := len(top)
	for _, c := range NewDeck(nil).cards {
		if !used[c.Index()] {
			d.cards[i] = c
			i++
		}
	}

	return d, nil
}

// Shuffle shuffles the deck using Fisher-Yates and resets the draw cursor
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw returns the next n undrawn cards and advances the cursor. It fails
// without drawing anything when fewer than n cards remain.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("draw %d cards: negative count", n)
	}
	if d.next+n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, %d remaining", ErrDeckExhausted, n, d.Remaining())
	}

	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the full deck order, drawn cards included
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards[:])
	return out
}
