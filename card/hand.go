package card

import (
	"math/rand"
	"sort"
)

// Hand is a multiset of cards keyed by value. The two jokers are equal
// by value, so a hand holding both simply counts Joker twice.
type Hand map[Card]int

func NewHand() Hand {
	return make(Hand)
}

// Size is the total number of cards, counting multiplicity.
func (h Hand) Size() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

func (h Hand) Count(c Card) int {
	return h[c]
}

func (h Hand) Add(c Card) {
	h[c]++
}

// Remove takes one copy of c out of the hand. It reports false and
// leaves the hand unchanged if no copy is held.
func (h Hand) Remove(c Card) bool {
	n, ok := h[c]
	if !ok || n <= 0 {
		return false
	}
	if n == 1 {
		delete(h, c)
	} else {
		h[c] = n - 1
	}
	return true
}

// TakeAll removes exactly the listed cards, or nothing at all. The
// check consumes a private copy so a list like {7♣,7♣} against a hand
// holding a single 7♣ fails cleanly.
func (h Hand) TakeAll(cards []Card) bool {
	scratch := h.Clone()
	for _, c := range cards {
		if !scratch.Remove(c) {
			return false
		}
	}
	for _, c := range cards {
		h.Remove(c)
	}
	return true
}

func (h Hand) Clone() Hand {
	out := make(Hand, len(h))
	for c, n := range h {
		out[c] = n
	}
	return out
}

// Cards expands the multiset into a sorted slice, one entry per copy.
// Sorted output keeps hand snapshots and random picks deterministic
// for a fixed seed.
func (h Hand) Cards() []Card {
	distinct := make([]Card, 0, len(h))
	for c := range h {
		distinct = append(distinct, c)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i].less(distinct[j]) })

	out := make([]Card, 0, h.Size())
	for _, c := range distinct {
		for i := 0; i < h[c]; i++ {
			out = append(out, c)
		}
	}
	return out
}

// Pick selects a card uniformly at random without removing it. Jokers
// are eligible like any other card.
func (h Hand) Pick(rng *rand.Rand) (Card, bool) {
	cards := h.Cards()
	if len(cards) == 0 {
		return Card{}, false
	}
	return cards[rng.Intn(len(cards))], true
}
