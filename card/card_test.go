package card

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}

	seen := make(map[Card]int)
	for _, c := range deck {
		if !c.Valid() {
			t.Fatalf("deck contains invalid card %+v", c)
		}
		seen[c]++
	}

	if seen[Card{Suit: Joker}] != 2 {
		t.Fatalf("expected 2 jokers, got %d", seen[Card{Suit: Joker}])
	}
	for _, suit := range []Suit{Hearts, Diamonds, Clubs, Spades} {
		for rank := 1; rank <= 13; rank++ {
			if n := seen[Card{Suit: suit, Rank: rank}]; n != 1 {
				t.Fatalf("expected exactly one %s %d, got %d", suit, rank, n)
			}
		}
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	cases := []struct {
		card Card
		want string
	}{
		{Card{Suit: Hearts, Rank: 1}, `{"suit":"Hearts","rank":1}`},
		{Card{Suit: Spades, Rank: 13}, `{"suit":"Spades","rank":13}`},
		{Card{Suit: Joker, Rank: 0}, `{"suit":"Joker","rank":0}`},
	}
	for _, tc := range cases {
		raw, err := json.Marshal(tc.card)
		if err != nil {
			t.Fatalf("marshal %v: %v", tc.card, err)
		}
		if string(raw) != tc.want {
			t.Fatalf("marshal %v: got %s, want %s", tc.card, raw, tc.want)
		}
		var back Card
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if back != tc.card {
			t.Fatalf("round trip changed card: %v -> %v", tc.card, back)
		}
	}
}

func TestCardJSONUnknownSuit(t *testing.T) {
	var c Card
	if err := json.Unmarshal([]byte(`{"suit":"Cups","rank":3}`), &c); err == nil {
		t.Fatal("expected error for unknown suit")
	}
}

func TestCardValid(t *testing.T) {
	if (Card{Suit: Joker, Rank: 5}).Valid() {
		t.Fatal("joker with nonzero rank should be invalid")
	}
	if (Card{Suit: Hearts, Rank: 0}).Valid() {
		t.Fatal("rank 0 in a regular suit should be invalid")
	}
	if (Card{Suit: Hearts, Rank: 14}).Valid() {
		t.Fatal("rank 14 should be invalid")
	}
	if !(Card{Suit: Clubs, Rank: 7}).Valid() {
		t.Fatal("7 of clubs should be valid")
	}
}

func TestHandAddRemove(t *testing.T) {
	h := NewHand()
	seven := Card{Suit: Clubs, Rank: 7}

	h.Add(seven)
	h.Add(seven)
	if h.Size() != 2 || h.Count(seven) != 2 {
		t.Fatalf("expected two copies held, size=%d count=%d", h.Size(), h.Count(seven))
	}

	if !h.Remove(seven) {
		t.Fatal("remove of held card failed")
	}
	if h.Count(seven) != 1 {
		t.Fatalf("expected one copy left, got %d", h.Count(seven))
	}
	if h.Remove(Card{Suit: Hearts, Rank: 7}) {
		t.Fatal("remove of unheld card should fail")
	}
}

func TestHandTakeAllIsAtomic(t *testing.T) {
	h := NewHand()
	h.Add(Card{Suit: Clubs, Rank: 7})
	h.Add(Card{Suit: Diamonds, Rank: 7})

	// One 7♣ is held but the list asks for two: nothing may move.
	if h.TakeAll([]Card{{Suit: Clubs, Rank: 7}, {Suit: Clubs, Rank: 7}}) {
		t.Fatal("TakeAll should fail when a listed card runs out")
	}
	if h.Size() != 2 {
		t.Fatalf("failed TakeAll mutated the hand, size=%d", h.Size())
	}

	if !h.TakeAll([]Card{{Suit: Clubs, Rank: 7}, {Suit: Diamonds, Rank: 7}}) {
		t.Fatal("TakeAll of held cards failed")
	}
	if h.Size() != 0 {
		t.Fatalf("expected empty hand, size=%d", h.Size())
	}
}

func TestHandPick(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	h := NewHand()
	if _, ok := h.Pick(rng); ok {
		t.Fatal("pick from empty hand should fail")
	}

	h.Add(Card{Suit: Joker})
	h.Add(Card{Suit: Spades, Rank: 2})
	for i := 0; i < 20; i++ {
		c, ok := h.Pick(rng)
		if !ok {
			t.Fatal("pick from non-empty hand failed")
		}
		if h.Count(c) == 0 {
			t.Fatalf("picked card %v is not held", c)
		}
	}
	if h.Size() != 2 {
		t.Fatal("pick must not remove cards")
	}
}

func TestHandCardsSorted(t *testing.T) {
	h := NewHand()
	h.Add(Card{Suit: Spades, Rank: 2})
	h.Add(Card{Suit: Hearts, Rank: 13})
	h.Add(Card{Suit: Hearts, Rank: 13})
	h.Add(Card{Suit: Joker})

	cards := h.Cards()
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}
	for i := 1; i < len(cards); i++ {
		if cards[i].less(cards[i-1]) {
			t.Fatalf("cards out of order: %v before %v", cards[i-1], cards[i])
		}
	}
}
