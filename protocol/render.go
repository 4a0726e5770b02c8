package protocol

import (
	"encoding/json"
	"strings"

	"oldmaid-lite/card"
)

// HandIntro is the line sent immediately before a hand's JSON array so
// clients can tell state pushes from chat-style notices.
const HandIntro = "Your hand:"

// EncodeHand renders a hand as the wire's single-line JSON array.
// An empty hand encodes as [] rather than null.
func EncodeHand(cards []card.Card) string {
	if len(cards) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(cards)
	if err != nil {
		// card.Card marshalling cannot fail on valid cards.
		return "[]"
	}
	return string(raw)
}

// FormatCards renders cards for human-readable notices, e.g.
// "♣ 7, ♦ 7".
func FormatCards(cards []card.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
