package poker

import (
	"errors"
	"fmt"
	"sort"
)

// Category enumerates the categories of poker hands ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

var (
	// ErrInsufficientCards is returned when fewer than five cards are evaluated
	ErrInsufficientCards = errors.New("insufficient cards")
	// ErrTooManyCards is returned when more than seven cards are evaluated
	ErrTooManyCards = errors.New("too many cards")
	// ErrDuplicateCard is returned when the same card appears twice in one evaluation
	ErrDuplicateCard = errors.New("duplicate card")
)

const (
	handSize     = 5
	maxEvalCards = 7
)

// Hand is an evaluated five-card poker hand. Tiebreak holds the ranks that
// order hands within the same category, most significant first. Cards is the
// five cards making the hand, grouped ranks first and kickers after.
type Hand struct {
	Category Category
	Tiebreak []Rank
	Cards    [handSize]Card
}

// String describes the hand, e.g. "Full House [K 9]"
func (h Hand) String() string {
	return fmt.Sprintf("%s %v", h.Category, h.Tiebreak)
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 for a tie.
func Compare(a, b Hand) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}

	for i := 0; i < len(a.Tiebreak) && i < len(b.Tiebreak); i++ {
		switch {
		case a.Tiebreak[i] > b.Tiebreak[i]:
			return 1
		case a.Tiebreak[i] < b.Tiebreak[i]:
			return -1
		}
	}

	switch {
	case len(a.Tiebreak) > len(b.Tiebreak):
		return 1
	case len(a.Tiebreak) < len(b.Tiebreak):
		return -1
	}
	return 0
}

// Evaluate returns the best five-card hand that can be made from 5 to 7 cards.
func Evaluate(cards []Card) (Hand, error) {
	n := len(cards)
	if n < handSize {
		return Hand{}, fmt.Errorf("%w: got %d, need at least %d", ErrInsufficientCards, n, handSize)
	}
	if n > maxEvalCards {
		return Hand{}, fmt.Errorf("%w: got %d, at most %d", ErrTooManyCards, n, maxEvalCards)
	}

	var seen [DeckSize]bool
	for _, c := range cards {
		if !c.Valid() {
			return Hand{}, fmt.Errorf("invalid card rank=%d suit=%d", c.Rank, c.Suit)
		}
		if seen[c.Index()] {
			return Hand{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c.Index()] = true
	}

	var best Hand
	found := false
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						h := evaluate5([handSize]Card{cards[a], cards[b], cards[c], cards[d], cards[e]})
						if !found || Compare(h, best) > 0 {
							best = h
							found = true
						}
					}
				}
			}
		}
	}

	return best, nil
}

// Result is one evaluated contender; Index refers to the position in the input.
type Result struct {
	Index int
	Hand  Hand
}

// Winners evaluates every card set and returns all sets whose best hand ties
// for the top, in input order. Several results mean a split.
func Winners(cardSets [][]Card) ([]Result, error) {
	if len(cardSets) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(cardSets))
	for i, cards := range cardSets {
		h, err := Evaluate(cards)
		if err != nil {
			return nil, fmt.Errorf("contender %d: %w", i, err)
		}
		results = append(results, Result{Index: i, Hand: h})
	}

	best := results[0].Hand
	for _, r := range results[1:] {
		if Compare(r.Hand, best) > 0 {
			best = r.Hand
		}
	}

	winners := results[:0]
	for _, r := range results {
		if Compare(r.Hand, best) == 0 {
			winners = append(winners, r)
		}
	}
	return winners, nil
}

// rankGroup is a set of same-rank cards inside a five-card hand
type rankGroup struct {
	rank  Rank
	cards []Card
}

func evaluate5(cards [handSize]Card) Hand {
	sorted := cards
	sort.Slice(sorted[:], func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank > sorted[j].Rank
		}
		return sorted[i].Suit < sorted[j].Suit
	})

	flush := true
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			flush = false
			break
		}
	}

	high, straight := straightHigh(sorted)
	if straight {
		ordered := sorted
		if high == Five && sorted[0].Rank == Ace {
			// Wheel: the ace plays low
			copy(ordered[:], append(sorted[1:], sorted[0]))
		}
		category := Straight
		if flush {
			category = StraightFlush
			if high == Ace {
				category = RoyalFlush
			}
		}
		return Hand{Category: category, Tiebreak: []Rank{high}, Cards: ordered}
	}

	groups := groupByRank(sorted)

	var h Hand
	i := 0
	for _, g := range groups {
		h.Tiebreak = append(h.Tiebreak, g.rank)
		for _, c := range g.cards {
			h.Cards[i] = c
			i++
		}
	}

	switch {
	case len(groups[0].cards) == 4:
		h.Category = FourOfAKind
	case len(groups[0].cards) == 3 && len(groups[1].cards) == 2:
		h.Category = FullHouse
	case flush:
		h.Category = Flush
	case len(groups[0].cards) == 3:
		h.Category = ThreeOfAKind
	case len(groups[0].cards) == 2 && len(groups[1].cards) == 2:
		h.Category = TwoPair
	case len(groups[0].cards) == 2:
		h.Category = Pair
	default:
		h.Category = HighCard
	}

	return h
}

// straightHigh reports the high card of a straight in rank-descending cards.
// The wheel (A-2-3-4-5) is a five-high straight.
func straightHigh(sorted [handSize]Card) (Rank, bool) {
	for i := 1; i < handSize; i++ {
		if sorted[i].Rank == sorted[i-1].Rank {
			return 0, false
		}
	}

	if sorted[0].Rank-sorted[4].Rank == 4 {
		return sorted[0].Rank, true
	}
	if sorted[0].Rank == Ace && sorted[1].Rank == Five && sorted[4].Rank == Two {
		return Five, true
	}
	return 0, false
}

// groupByRank groups rank-descending cards, largest groups first then higher ranks.
func groupByRank(sorted [handSize]Card) []rankGroup {
	groups := make([]rankGroup, 0, handSize)
	for _, c := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == c.Rank {
			groups[n-1].cards = append(groups[n-1].cards, c)
			continue
		}
		groups = append(groups, rankGroup{rank: c.Rank, cards: []Card{c}})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].cards) > len(groups[j].cards)
	})
	return groups
}
