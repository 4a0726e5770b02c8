package game

import (
	"errors"
	"testing"

	"oldmaid-lite/card"
)

// discardFixture puts alice in the discard stage holding a known hand.
func discardFixture(t *testing.T, held []card.Card) *Game {
	t.Helper()
	g := newTestGame(t, "alice", "bob")
	startRound(t, g)

	h := card.NewHand()
	for _, c := range held {
		h.Add(c)
	}
	// Pad so the discard cannot accidentally win.
	h.Add(card.Card{Suit: card.Joker})
	g.players[0].hand = h
	g.players[0].hasDrawn = true
	g.stage = StageDiscardOrEnd
	return g
}

func TestDiscardValidation(t *testing.T) {
	held := []card.Card{
		{Suit: card.Clubs, Rank: 7},
		{Suit: card.Diamonds, Rank: 7},
		{Suit: card.Spades, Rank: 9},
		{Suit: card.Hearts, Rank: 9},
		{Suit: card.Clubs, Rank: 5},
	}

	cases := []struct {
		name    string
		discard []card.Card
		wantErr error
	}{
		{
			name:    "single pair",
			discard: []card.Card{{Suit: card.Clubs, Rank: 7}, {Suit: card.Diamonds, Rank: 7}},
		},
		{
			name: "two pairs at once",
			discard: []card.Card{
				{Suit: card.Clubs, Rank: 7}, {Suit: card.Diamonds, Rank: 7},
				{Suit: card.Spades, Rank: 9}, {Suit: card.Hearts, Rank: 9},
			},
		},
		{
			name:    "empty list",
			discard: nil,
			wantErr: ErrOddDiscard,
		},
		{
			name:    "single card",
			discard: []card.Card{{Suit: card.Clubs, Rank: 7}},
			wantErr: ErrOddDiscard,
		},
		{
			name: "odd count",
			discard: []card.Card{
				{Suit: card.Clubs, Rank: 7}, {Suit: card.Diamonds, Rank: 7},
				{Suit: card.Clubs, Rank: 5},
			},
			wantErr: ErrOddDiscard,
		},
		{
			name:    "joker in the list",
			discard: []card.Card{{Suit: card.Joker}, {Suit: card.Joker}},
			wantErr: ErrJokerDiscard,
		},
		{
			name: "even count but unpaired ranks",
			discard: []card.Card{
				{Suit: card.Clubs, Rank: 7}, {Suit: card.Diamonds, Rank: 7},
				{Suit: card.Spades, Rank: 9}, {Suit: card.Clubs, Rank: 5},
			},
			wantErr: ErrUnpairedDiscard,
		},
		{
			name:    "pair not held",
			discard: []card.Card{{Suit: card.Hearts, Rank: 4}, {Suit: card.Spades, Rank: 4}},
			wantErr: ErrCardsNotHeld,
		},
		{
			name:    "same physical card twice",
			discard: []card.Card{{Suit: card.Clubs, Rank: 7}, {Suit: card.Clubs, Rank: 7}},
			wantErr: ErrCardsNotHeld,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := discardFixture(t, held)
			sizeBefore := g.players[0].hand.Size()

			res, err := g.Discard(1, tc.discard)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got %v, want %v", err, tc.wantErr)
				}
				if g.players[0].hand.Size() != sizeBefore {
					t.Fatal("rejected discard mutated the hand")
				}
				return
			}
			if err != nil {
				t.Fatalf("Discard: %v", err)
			}
			if got := len(res.Hand); got != sizeBefore-len(tc.discard) {
				t.Fatalf("hand size = %d, want %d", got, sizeBefore-len(tc.discard))
			}
		})
	}
}

func TestDiscardBeforeDraw(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	startRound(t, g)

	pair := []card.Card{{Suit: card.Clubs, Rank: 7}, {Suit: card.Diamonds, Rank: 7}}
	if _, err := g.Discard(1, pair); !errors.Is(err, ErrMustDrawFirst) {
		t.Fatalf("discard before draw: got %v, want ErrMustDrawFirst", err)
	}
}

func TestDiscardOutOfTurn(t *testing.T) {
	g := newTestGame(t, "alice", "bob")
	startRound(t, g)

	pair := []card.Card{{Suit: card.Clubs, Rank: 7}, {Suit: card.Diamonds, Rank: 7}}
	if _, err := g.Discard(2, pair); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("out-of-turn discard: got %v, want ErrOutOfTurn", err)
	}
}

func TestDiscardThenEndSameTurn(t *testing.T) {
	g := discardFixture(t, []card.Card{
		{Suit: card.Clubs, Rank: 7},
		{Suit: card.Diamonds, Rank: 7},
	})

	pair := []card.Card{{Suit: card.Clubs, Rank: 7}, {Suit: card.Diamonds, Rank: 7}}
	if _, err := g.Discard(1, pair); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	res, err := g.EndTurn(1)
	if err != nil {
		t.Fatalf("EndTurn after discard: %v", err)
	}
	if res.NextName != "bob" {
		t.Fatalf("turn passed to %s, want bob", res.NextName)
	}
}
