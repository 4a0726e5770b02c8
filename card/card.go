package card

import (
	"encoding/json"
	"fmt"
)

// Suit of a playing card. The names are part of the wire format:
// hand snapshots and discard payloads carry them verbatim as JSON
// strings ("Hearts", ..., "Joker").
type Suit byte

const (
	Hearts Suit = iota // ♥
	Diamonds           // ♦
	Clubs              // ♣
	Spades             // ♠
	Joker
)

var suitNames = map[Suit]string{
	Hearts:   "Hearts",
	Diamonds: "Diamonds",
	Clubs:    "Clubs",
	Spades:   "Spades",
	Joker:    "Joker",
}

var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
	Spades:   "♠",
	Joker:    "🃏",
}

func suitByName(name string) (Suit, bool) {
	for s, n := range suitNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return "?"
}

func (s Suit) Symbol() string {
	if sym, ok := suitSymbols[s]; ok {
		return sym
	}
	return "?"
}

func (s Suit) MarshalJSON() ([]byte, error) {
	name, ok := suitNames[s]
	if !ok {
		return nil, fmt.Errorf("invalid suit %d", s)
	}
	return json.Marshal(name)
}

func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	suit, ok := suitByName(name)
	if !ok {
		return fmt.Errorf("unknown suit %q", name)
	}
	*s = suit
	return nil
}

// Card is an immutable value. Rank 0 is reserved for the two joker
// cards; ranks 1-13 are A..K in the four regular suits.
type Card struct {
	Suit Suit `json:"suit"`
	Rank int  `json:"rank"`
}

func (c Card) IsJoker() bool {
	return c.Suit == Joker
}

// Valid reports whether the card could have come out of a real deck.
func (c Card) Valid() bool {
	if c.Suit == Joker {
		return c.Rank == 0
	}
	_, known := suitNames[c.Suit]
	return known && c.Rank >= 1 && c.Rank <= 13
}

func (c Card) String() string {
	if c.IsJoker() {
		return "Joker"
	}
	var rank string
	switch c.Rank {
	case 1:
		rank = "A"
	case 11:
		rank = "J"
	case 12:
		rank = "Q"
	case 13:
		rank = "K"
	default:
		rank = fmt.Sprintf("%d", c.Rank)
	}
	return fmt.Sprintf("%s %s", c.Suit.Symbol(), rank)
}

// less orders cards by (suit, rank); used for stable hand snapshots.
func (c Card) less(o Card) bool {
	if c.Suit != o.Suit {
		return c.Suit < o.Suit
	}
	return c.Rank < o.Rank
}
