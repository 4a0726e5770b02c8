package game

import (
	"math/rand"
	"sync"
	"time"

	"oldmaid-lite/card"
)

// Player is a registered session's share of the game state. Join order
// fixes turn order for as long as the player stays connected.
type Player struct {
	ID   uint64
	Name string

	hand     card.Hand
	ready    bool
	hasDrawn bool
	vote     Vote
}

// Game is the single authoritative state machine. All operations run
// under one mutex; only network I/O is parallel across sessions, so
// commands apply in lock-acquisition order.
type Game struct {
	cfg Config
	rng *rand.Rand

	mu      sync.Mutex
	players []*Player
	phase   Phase
	stage   Stage
	current int
	round   uint32

	// A declined rematch ends the game for good: sessions stay
	// connected but no new round can start.
	over bool
}

func New(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Game{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		phase: PhaseLobby,
	}, nil
}

// Join registers a player at the end of the turn order. Players are
// append-only while the lobby is open; a running round rejects
// newcomers outright.
func (g *Game) Join(id uint64, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.over {
		return ErrGameOver
	}
	if g.phase != PhaseLobby {
		return ErrRoundInProgress
	}
	if len(g.players) >= g.cfg.MaxPlayers {
		return ErrGameFull
	}
	for _, p := range g.players {
		if p.Name == name {
			return ErrNameTaken
		}
	}
	g.players = append(g.players, &Player{
		ID:   id,
		Name: name,
		hand: card.NewHand(),
	})
	return nil
}

// MarkReady flags the player as ready and starts the round the moment
// the last required readiness arrives. Repeats are harmless.
func (g *Game) MarkReady(id uint64) (ReadyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, _, err := g.findLocked(id)
	if err != nil {
		return ReadyResult{}, err
	}
	if g.over {
		return ReadyResult{}, ErrGameOver
	}
	switch g.phase {
	case PhaseInProgress:
		return ReadyResult{}, ErrRoundInProgress
	case PhaseAwaitingReplay:
		return ReadyResult{}, ErrVoteInProgress
	}

	p.ready = true
	res := ReadyResult{Name: p.Name}

	if len(g.players) < g.cfg.MinPlayers || len(g.players) > g.cfg.MaxPlayers {
		return res, nil
	}
	for _, q := range g.players {
		if !q.ready {
			return res, nil
		}
	}

	g.startRoundLocked(&res)
	return res, nil
}

// startRoundLocked builds, shuffles and deals a fresh deck round-robin
// from the first registered player, then opens the first turn.
func (g *Game) startRoundLocked(res *ReadyResult) {
	g.round++
	deck := card.NewDeck()
	g.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	for _, p := range g.players {
		p.hand = card.NewHand()
		p.hasDrawn = false
		p.vote = VoteUnset
	}
	for i, c := range deck {
		g.players[i%len(g.players)].hand.Add(c)
	}

	g.phase = PhaseInProgress
	g.stage = StageDraw
	g.current = 0

	res.Started = true
	res.Round = g.round
	res.FirstPlayerID = g.players[0].ID
	res.FirstName = g.players[0].Name
	for _, p := range g.players {
		res.Hands = append(res.Hands, DealtHand{
			PlayerID: p.ID,
			Name:     p.Name,
			Cards:    p.hand.Cards(),
		})
	}
}

// Draw moves one random card from the next player's hand to the
// current player's. The target is fixed by turn order, never chosen.
func (g *Game) Draw(id uint64) (DrawResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, idx, err := g.turnCheckLocked(id)
	if err != nil {
		return DrawResult{}, err
	}
	if g.stage != StageDraw {
		return DrawResult{}, ErrAlreadyDrawn
	}

	victim := g.players[(idx+1)%len(g.players)]
	drawn, ok := victim.hand.Pick(g.rng)
	if !ok {
		return DrawResult{}, ErrVictimEmpty
	}

	victim.hand.Remove(drawn)
	p.hand.Add(drawn)
	p.hasDrawn = true
	g.stage = StageDiscardOrEnd

	res := DrawResult{
		DrawerID:   p.ID,
		DrawerName: p.Name,
		VictimID:   victim.ID,
		VictimName: victim.Name,
		Card:       drawn,
		DrawerHand: p.hand.Cards(),
		VictimHand: victim.hand.Cards(),
	}
	// The drawer just gained a card, so only the victim can empty here.
	res.Winner = g.checkWinLocked(victim)
	return res, nil
}

// Discard removes matched pairs from the current player's hand. The
// whole list is validated before anything moves.
func (g *Game) Discard(id uint64, cards []card.Card) (DiscardResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, _, err := g.turnCheckLocked(id)
	if err != nil {
		return DiscardResult{}, err
	}
	if g.stage != StageDiscardOrEnd {
		return DiscardResult{}, ErrMustDrawFirst
	}

	if len(cards) < 2 || len(cards)%2 != 0 {
		return DiscardResult{}, ErrOddDiscard
	}
	rankCounts := make(map[int]int)
	for _, c := range cards {
		if c.IsJoker() {
			return DiscardResult{}, ErrJokerDiscard
		}
		rankCounts[c.Rank]++
	}
	for _, n := range rankCounts {
		if n%2 != 0 {
			return DiscardResult{}, ErrUnpairedDiscard
		}
	}
	if !p.hand.TakeAll(cards) {
		return DiscardResult{}, ErrCardsNotHeld
	}

	res := DiscardResult{
		PlayerID: p.ID,
		Name:     p.Name,
		Cards:    cards,
		Hand:     p.hand.Cards(),
	}
	res.Winner = g.checkWinLocked(p)
	return res, nil
}

// EndTurn passes play to the next player. Rejected until the current
// player has drawn at least once this turn.
func (g *Game) EndTurn(id uint64) (EndResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, _, err := g.turnCheckLocked(id)
	if err != nil {
		return EndResult{}, err
	}
	if !p.hasDrawn {
		return EndResult{}, ErrMustDrawFirst
	}

	g.current = (g.current + 1) % len(g.players)
	next := g.players[g.current]
	next.hasDrawn = false
	g.stage = StageDraw

	return EndResult{NextPlayerID: next.ID, NextName: next.Name}, nil
}

// Vote records a rematch answer and re-evaluates consensus. Any "no"
// ends the session's round loop for good; unanimous "yes" resets the
// table for a fresh round.
func (g *Game) Vote(id uint64, agree bool) (VoteResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, _, err := g.findLocked(id)
	if err != nil {
		return VoteResult{}, err
	}
	if g.phase != PhaseAwaitingReplay {
		return VoteResult{}, ErrNoVoteInProgress
	}

	if agree {
		p.vote = VoteYes
	} else {
		p.vote = VoteNo
	}
	return VoteResult{Name: p.Name, Outcome: g.tallyLocked()}, nil
}

// Leave removes a player and renormalizes whatever the departure
// touched: the turn index, round viability, or vote consensus. The
// departing player's cards leave play with them.
func (g *Game) Leave(id uint64) (LeaveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, idx, err := g.findLocked(id)
	if err != nil {
		return LeaveResult{}, err
	}

	res := LeaveResult{Name: p.Name, PhaseWas: g.phase}
	g.players = append(g.players[:idx], g.players[idx+1:]...)

	switch res.PhaseWas {
	case PhaseInProgress:
		if len(g.players) < g.cfg.MinPlayers {
			// A lone player would draw from their own hand; nothing
			// sensible remains of the round.
			g.resetRoundLocked()
			res.RoundAborted = true
			return res, nil
		}
		if idx < g.current {
			g.current--
		} else if idx == g.current {
			if g.current >= len(g.players) {
				g.current = 0
			}
			next := g.players[g.current]
			next.hasDrawn = false
			g.stage = StageDraw
			res.TurnPassed = true
			res.NextPlayerID = next.ID
			res.NextName = next.Name
		}
	case PhaseAwaitingReplay:
		if len(g.players) == 0 {
			g.resetRoundLocked()
			return res, nil
		}
		// The missing vote may have been the only holdout.
		res.VoteOutcome = g.tallyLocked()
	}
	return res, nil
}

// Snapshot returns a copy of the current state (thread-safe).
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Round: g.round,
		Phase: g.phase,
		Stage: g.stage,
	}
	if g.phase == PhaseInProgress {
		s.CurrentID = g.players[g.current].ID
	}
	for _, p := range g.players {
		s.Players = append(s.Players, PlayerSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Ready:    p.ready,
			HasDrawn: p.hasDrawn,
			Vote:     p.vote,
			HandSize: p.hand.Size(),
			Hand:     p.hand.Cards(),
		})
	}
	return s
}

func (g *Game) findLocked(id uint64) (*Player, int, error) {
	for i, p := range g.players {
		if p.ID == id {
			return p, i, nil
		}
	}
	return nil, 0, ErrUnknownPlayer
}

// turnCheckLocked gates the three in-round moves: the round must be
// running and the acting player must hold the turn.
func (g *Game) turnCheckLocked(id uint64) (*Player, int, error) {
	p, idx, err := g.findLocked(id)
	if err != nil {
		return nil, 0, err
	}
	switch g.phase {
	case PhaseLobby:
		return nil, 0, ErrNotStarted
	case PhaseAwaitingReplay:
		return nil, 0, ErrVoteInProgress
	}
	if idx != g.current {
		return nil, 0, ErrOutOfTurn
	}
	return p, idx, nil
}

// checkWinLocked fires the instant any hand reaches zero, whether the
// zeroing event was a draw (victim side) or a discard.
func (g *Game) checkWinLocked(p *Player) string {
	if p.hand.Size() != 0 {
		return ""
	}
	g.phase = PhaseAwaitingReplay
	for _, q := range g.players {
		q.vote = VoteUnset
	}
	return p.Name
}

// tallyLocked re-evaluates rematch consensus over the registered
// players. Pending until everyone has answered, unless someone said no.
func (g *Game) tallyLocked() VoteOutcome {
	allYes := true
	for _, p := range g.players {
		switch p.vote {
		case VoteNo:
			g.resetRoundLocked()
			g.over = true
			return VoteAbort
		case VoteUnset:
			allYes = false
		}
	}
	if !allYes {
		return VotePending
	}
	g.resetRoundLocked()
	return VoteRestart
}

// resetRoundLocked returns the table to the lobby: hands, readiness,
// draw flags and votes all cleared, waiting on fresh start commands.
func (g *Game) resetRoundLocked() {
	for _, p := range g.players {
		p.hand = card.NewHand()
		p.ready = false
		p.hasDrawn = false
		p.vote = VoteUnset
	}
	g.phase = PhaseLobby
	g.stage = StageDraw
	g.current = 0
}
