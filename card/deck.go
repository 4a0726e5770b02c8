package card

// DeckSize is fixed: 13 ranks in 4 suits plus two jokers. The deck is
// consumed entirely at deal time; there is no stock pile during play.
const DeckSize = 54

// NewDeck returns the full 54-card set in deterministic order. The
// caller shuffles with its own RNG before dealing.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range []Suit{Hearts, Diamonds, Clubs, Spades} {
		for rank := 1; rank <= 13; rank++ {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	// Two physically distinct jokers, equal by value.
	deck = append(deck, Card{Suit: Joker}, Card{Suit: Joker})
	return deck
}
