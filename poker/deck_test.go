package poker

import (
	"errors"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestNewDeckCanonicalOrder(t *testing.T) {
	t.Parallel()
	d := NewDeck(nil)
	cards := d.Cards()

	require.Len(t, cards, DeckSize)
	assert.Equal(t, NewCard(Two, Spades), cards[0])
	assert.Equal(t, NewCard(Ace, Spades), cards[12])
	assert.Equal(t, NewCard(Two, Hearts), cards[13])
	assert.Equal(t, NewCard(Ace, Clubs), cards[51])
	for i, c := range cards {
		assert.Equal(t, i, c.Index())
	}
	assert.Equal(t, DeckSize, d.Remaining())
}

func TestShuffleKeepsAllCards(t *testing.T) {
	t.Parallel()
	rng := seeded(7)
	for round := 0; round < 200; round++ {
		d := NewShuffledDeck(rng)
		var seen [DeckSize]bool
		for _, c := range d.Cards() {
			require.True(t, c.Valid())
			require.False(t, seen[c.Index()], "duplicate %s in round %d", c, round)
			seen[c.Index()] = true
		}
		for i, ok := range seen {
			require.True(t, ok, "card index %d missing in round %d", i, round)
		}
	}
}

func TestShuffleResetsCursor(t *testing.T) {
	t.Parallel()
	d := NewShuffledDeck(seeded(1))
	_, err := d.Draw(10)
	require.NoError(t, err)
	assert.Equal(t, 42, d.Remaining())

	d.Shuffle()
	assert.Equal(t, DeckSize, d.Remaining())
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	t.Parallel()
	a := NewShuffledDeck(seeded(42))
	b := NewShuffledDeck(seeded(42))
	c := NewShuffledDeck(seeded(43))

	assert.Equal(t, a.Cards(), b.Cards())
	assert.NotEqual(t, a.Cards(), c.Cards())
	assert.NotEqual(t, NewDeck(nil).Cards(), a.Cards())
}

func TestDrawNeverRepeats(t *testing.T) {
	t.Parallel()
	d := NewShuffledDeck(seeded(99))
	seen := make(map[Card]bool)

	for _, n := range []int{2, 2, 2, 3, 1, 1, 0, 20, 21} {
		cards, err := d.Draw(n)
		require.NoError(t, err)
		require.Len(t, cards, n)
		for _, c := range cards {
			require.False(t, seen[c], "card %s drawn twice", c)
			seen[c] = true
		}
	}
	assert.Len(t, seen, DeckSize)
	assert.Equal(t, 0, d.Remaining())
}

func TestDrawExhausted(t *testing.T) {
	t.Parallel()
	d := NewShuffledDeck(seeded(3))
	_, err := d.Draw(50)
	require.NoError(t, err)

	_, err = d.Draw(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	assert.Equal(t, 2, d.Remaining(), "failed draw must not move the cursor")

	cards, err := d.Draw(2)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	_, err = d.Draw(-1)
	assert.Error(t, err)
}

func TestDrawReturnsCopy(t *testing.T) {
	t.Parallel()
	d := NewDeck(nil)
	cards, err := d.Draw(2)
	require.NoError(t, err)
	cards[0] = NewCard(Ace, Hearts)

	assert.Equal(t, NewCard(Two, Spades), d.Cards()[0])
}

func TestNewStackedDeck(t *testing.T) {
	t.Parallel()
	top := MustParseCards("AS", "AC", "KH", "KD")
	d, err := NewStackedDeck(top...)
	require.NoError(t, err)

	drawn, err := d.Draw(4)
	require.NoError(t, err)
	assert.Equal(t, top, drawn)

	rest, err := d.Draw(d.Remaining())
	require.NoError(t, err)
	assert.Len(t, rest, 48)
	for _, c := range rest {
		assert.NotContains(t, top, c)
	}

	_, err = NewStackedDeck(MustParseCards("AS", "AS")...)
	assert.Error(t, err)
	_, err = NewStackedDeck(Card{})
	assert.Error(t, err)
}
