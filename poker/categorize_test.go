package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		card1    string
		card2    string
		expected HoleCardCategory
	}{
		// Premium hands
		{"Pocket Aces", "AS", "AH", CategoryPremium},
		{"Pocket Jacks", "JH", "JD", CategoryPremium},
		{"Ace King offsuit", "AC", "KH", CategoryPremium},

		// Strong hands
		{"Pocket Tens", "TC", "TH", CategoryStrong},
		{"Ace Queen suited", "AS", "QS", CategoryStrong},
		{"Ace Jack offsuit", "AD", "JC", CategoryStrong},

		// Medium hands
		{"Pocket Nines", "9C", "9H", CategoryMedium},
		{"Pocket Sevens", "7C", "7H", CategoryMedium},
		{"King Queen suited", "KH", "QH", CategoryMedium},

		// Weak hands
		{"Pocket Deuces", "2C", "2H", CategoryWeak},
		{"Suited connectors", "8S", "7S", CategoryWeak},
		{"Suited one-gapper", "9D", "7D", CategoryWeak},

		// Trash
		{"Seven deuce offsuit", "7C", "2H", CategoryTrash},
		{"King Queen offsuit", "KH", "QD", CategoryTrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hole := MustParseCards(tt.card1, tt.card2)
			assert.Equal(t, tt.expected, CategorizeHoleCards(hole))
			// Order of hole cards must not matter
			assert.Equal(t, tt.expected, CategorizeHoleCards([]Card{hole[1], hole[0]}))
		})
	}
}

func TestCategorizeHoleCardsUnknown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, CategoryUnknown, CategorizeHoleCards(nil))
	assert.Equal(t, CategoryUnknown, CategorizeHoleCards(MustParseCards("AS")))
	assert.Equal(t, CategoryUnknown, CategorizeHoleCards(MustParseCards("AS", "AS")))
	assert.Equal(t, CategoryUnknown, CategorizeHoleCards([]Card{{Rank: 1, Suit: Spades}, NewCard(Ace, Hearts)}))
}
