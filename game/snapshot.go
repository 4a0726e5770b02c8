package game

import "oldmaid-lite/card"

// PlayerSnapshot is a point-in-time copy of one player's state.
type PlayerSnapshot struct {
	ID       uint64
	Name     string
	Ready    bool
	HasDrawn bool
	Vote     Vote
	HandSize int
	Hand     []card.Card
}

// Snapshot is a point-in-time copy of the whole table, safe to read
// without holding the game lock.
type Snapshot struct {
	Round     uint32
	Phase     Phase
	Stage     Stage
	CurrentID uint64
	Players   []PlayerSnapshot
}
