package game

import "oldmaid-lite/card"

// Phase of the shared game state. Transitions are monotonic within a
// round: Lobby -> InProgress -> AwaitingReplay -> Lobby.
type Phase byte

const (
	PhaseLobby          Phase = 0
	PhaseInProgress     Phase = 1
	PhaseAwaitingReplay Phase = 2
)

var PhaseDictionary = map[Phase]string{
	PhaseLobby:          "lobby",
	PhaseInProgress:     "inprogress",
	PhaseAwaitingReplay: "awaitingreplay",
}

// Stage of the current player's turn while a round is in progress.
type Stage byte

const (
	StageDraw         Stage = 0 // must draw from the next player
	StageDiscardOrEnd Stage = 1 // may discard pairs or end the turn
)

// Vote is the tri-state rematch answer.
type Vote byte

const (
	VoteUnset Vote = 0
	VoteYes   Vote = 1
	VoteNo    Vote = 2
)

// VoteOutcome is the consensus result after a vote or a departure.
type VoteOutcome byte

const (
	VotePending VoteOutcome = 0
	VoteRestart VoteOutcome = 1
	VoteAbort   VoteOutcome = 2
)

// DealtHand pairs a player with their freshly dealt cards.
type DealtHand struct {
	PlayerID uint64
	Name     string
	Cards    []card.Card
}

type ReadyResult struct {
	Name    string
	Started bool

	// Set when Started: private deal per player and the opener.
	Hands         []DealtHand
	Round         uint32
	FirstPlayerID uint64
	FirstName     string
}

type DrawResult struct {
	DrawerID   uint64
	DrawerName string
	VictimID   uint64
	VictimName string
	Card       card.Card

	DrawerHand []card.Card
	VictimHand []card.Card

	// Winner is the victim's name when the draw emptied their hand.
	Winner string
}

type DiscardResult struct {
	PlayerID uint64
	Name     string
	Cards    []card.Card
	Hand     []card.Card

	Winner string
}

type EndResult struct {
	NextPlayerID uint64
	NextName     string
}

type VoteResult struct {
	Name    string
	Outcome VoteOutcome
}

type LeaveResult struct {
	Name     string
	PhaseWas Phase

	// Round could not continue with the remaining players.
	RoundAborted bool

	// The departing player was the current one; the turn moved on.
	TurnPassed   bool
	NextPlayerID uint64
	NextName     string

	// A departure during the rematch vote can complete consensus.
	VoteOutcome VoteOutcome
}
