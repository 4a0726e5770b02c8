// Package room runs the single shared table as an actor: all game
// mutations and all fan-out happen on one goroutine, fed by events
// from the gateway sessions.
package room

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"oldmaid-lite/apps/server/internal/ledger"
	"oldmaid-lite/card"
	"oldmaid-lite/game"
	"oldmaid-lite/protocol"
)

var ErrClosed = errors.New("the server is shutting down")

const (
	msgTurnPrompt   = "It's your turn. Draw a card, discard pairs, or end your turn."
	msgVotePrompt   = "Game over! Play again? Respond 'playagain yes' or 'playagain no'."
	msgVoteDeclined = "A player declined the rematch. The game is over."
	msgVoteRestart  = "All players agreed to a rematch. Ready up to begin."
	msgRoundAborted = "Too few players remain. The round is abandoned; back to the lobby."
)

type event interface {
	isEvent()
}

type joinEvent struct {
	sessionID uint64
	name      string
	send      func(string)
	resp      chan error
}

type leaveEvent struct {
	sessionID uint64
}

type commandEvent struct {
	sessionID uint64
	cmd       protocol.Command
	resp      chan error
}

func (joinEvent) isEvent()    {}
func (leaveEvent) isEvent()   {}
func (commandEvent) isEvent() {}

type session struct {
	name string
	send func(string)
}

// Room owns the game and the per-session send callbacks. Everything
// below runs on the run goroutine; the exported methods only pass
// events in and wait.
type Room struct {
	game    *game.Game
	history ledger.Service

	events chan event
	done   chan struct{}

	sessions map[uint64]*session
	roundID  uint64
	seq      uint64
}

func New(cfg game.Config, history ledger.Service) (*Room, error) {
	g, err := game.New(cfg)
	if err != nil {
		return nil, err
	}
	r := &Room{
		game:     g,
		history:  history,
		events:   make(chan event, 16),
		done:     make(chan struct{}),
		sessions: make(map[uint64]*session),
	}
	go r.run()
	return r, nil
}

// Stop shuts the actor down. In-flight events may be dropped; callers
// blocked in Join or Command get ErrClosed.
func (r *Room) Stop() {
	close(r.done)
}

// Join registers a session under a player name. The send callback
// must never block.
func (r *Room) Join(sessionID uint64, name string, send func(string)) error {
	resp := make(chan error, 1)
	select {
	case r.events <- joinEvent{sessionID: sessionID, name: name, send: send, resp: resp}:
	case <-r.done:
		return ErrClosed
	}
	select {
	case err := <-resp:
		return err
	case <-r.done:
		return ErrClosed
	}
}

// Command applies one parsed client command. The returned error is
// player-facing text.
func (r *Room) Command(sessionID uint64, cmd protocol.Command) error {
	resp := make(chan error, 1)
	select {
	case r.events <- commandEvent{sessionID: sessionID, cmd: cmd, resp: resp}:
	case <-r.done:
		return ErrClosed
	}
	select {
	case err := <-resp:
		return err
	case <-r.done:
		return ErrClosed
	}
}

// Leave detaches a session. Safe to call for sessions that never
// joined; fire and forget.
func (r *Room) Leave(sessionID uint64) {
	select {
	case r.events <- leaveEvent{sessionID: sessionID}:
	case <-r.done:
	}
}

func (r *Room) run() {
	for {
		select {
		case ev := <-r.events:
			switch ev := ev.(type) {
			case joinEvent:
				ev.resp <- r.handleJoin(ev)
			case leaveEvent:
				r.handleLeave(ev.sessionID)
			case commandEvent:
				ev.resp <- r.handleCommand(ev.sessionID, ev.cmd)
			}
		case <-r.done:
			log.Printf("[Room] stopping")
			return
		}
	}
}

func (r *Room) handleJoin(ev joinEvent) error {
	if err := r.game.Join(ev.sessionID, ev.name); err != nil {
		return err
	}
	r.sessions[ev.sessionID] = &session{name: ev.name, send: ev.send}
	log.Printf("[Room] %s joined (session %d, %d players)", ev.name, ev.sessionID, len(r.sessions))
	r.broadcastf("%s has joined the game. (%d players)", ev.name, len(r.sessions))
	return nil
}

func (r *Room) handleLeave(sessionID uint64) {
	sess, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	res, err := r.game.Leave(sessionID)
	if err != nil {
		return
	}
	log.Printf("[Room] %s left (session %d, %d players)", sess.name, sessionID, len(r.sessions))
	r.broadcastf("Player %s has left the game.", res.Name)

	if res.RoundAborted {
		r.record("abort", map[string]any{"departed": res.Name})
		r.broadcast(msgRoundAborted)
		return
	}
	if res.TurnPassed {
		r.record("turn_end", map[string]any{"departed": res.Name, "next": res.NextName})
		r.sendTo(res.NextPlayerID, msgTurnPrompt)
	}
	if res.PhaseWas == game.PhaseAwaitingReplay {
		r.settleVote(res.VoteOutcome)
	}
}

func (r *Room) handleCommand(sessionID uint64, cmd protocol.Command) error {
	switch cmd := cmd.(type) {
	case protocol.StartCommand:
		return r.handleStart(sessionID)
	case protocol.DrawCommand:
		return r.handleDraw(sessionID)
	case protocol.DiscardCommand:
		return r.handleDiscard(sessionID, cmd)
	case protocol.EndCommand:
		return r.handleEnd(sessionID)
	case protocol.PlayAgainCommand:
		return r.handleVote(sessionID, cmd.Agree)
	default:
		return protocol.ErrUnknownCommand
	}
}

func (r *Room) handleStart(sessionID uint64) error {
	res, err := r.game.MarkReady(sessionID)
	if err != nil {
		return err
	}
	r.broadcastf("%s is ready to start.", res.Name)
	if !res.Started {
		return nil
	}

	r.roundID = uint64(res.Round)
	r.seq = 0
	log.Printf("[Room] round %d started, %s opens", res.Round, res.FirstName)
	r.broadcastf("All players ready. Round %d begins!", res.Round)

	names := make([]string, 0, len(res.Hands))
	for _, dh := range res.Hands {
		names = append(names, dh.Name)
		r.sendHand(dh.PlayerID, dh.Cards)
	}
	r.record("round_start", map[string]any{"players": names, "first": res.FirstName})

	r.broadcastf("%s goes first.", res.FirstName)
	r.sendTo(res.FirstPlayerID, msgTurnPrompt)
	return nil
}

func (r *Room) handleDraw(sessionID uint64) error {
	res, err := r.game.Draw(sessionID)
	if err != nil {
		return err
	}
	r.record("draw", map[string]any{"drawer": res.DrawerName, "victim": res.VictimName, "card": res.Card.String()})
	r.broadcastf("%s drew a card from %s: %s.", res.DrawerName, res.VictimName, res.Card)

	r.sendHand(res.DrawerID, res.DrawerHand)
	r.sendHand(res.VictimID, res.VictimHand)

	if res.Winner != "" {
		r.finishRound(res.Winner)
	}
	return nil
}

func (r *Room) handleDiscard(sessionID uint64, cmd protocol.DiscardCommand) error {
	res, err := r.game.Discard(sessionID, cmd.Cards)
	if err != nil {
		return err
	}
	r.record("discard", map[string]any{"player": res.Name, "count": len(res.Cards)})
	r.broadcastf("%s discarded: %s", res.Name, protocol.FormatCards(res.Cards))
	r.sendHand(res.PlayerID, res.Hand)

	if res.Winner != "" {
		r.finishRound(res.Winner)
	}
	return nil
}

func (r *Room) handleEnd(sessionID uint64) error {
	res, err := r.game.EndTurn(sessionID)
	if err != nil {
		return err
	}
	r.record("turn_end", map[string]any{"next": res.NextName})
	r.broadcastf("It is now %s's turn.", res.NextName)
	r.sendTo(res.NextPlayerID, msgTurnPrompt)
	return nil
}

func (r *Room) handleVote(sessionID uint64, agree bool) error {
	res, err := r.game.Vote(sessionID, agree)
	if err != nil {
		return err
	}
	answer := "no"
	if agree {
		answer = "yes"
	}
	r.broadcastf("%s voted %s on a rematch.", res.Name, answer)
	r.settleVote(res.Outcome)
	return nil
}

// finishRound announces the winner, records the summary row and opens
// the rematch vote. The game already moved itself to the vote phase.
func (r *Room) finishRound(winner string) {
	log.Printf("[Room] round %d won by %s", r.roundID, winner)
	r.record("win", map[string]any{"winner": winner})

	players := make([]string, 0, len(r.sessions))
	for _, sess := range r.sessions {
		players = append(players, sess.name)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := r.history.UpsertRoundSummary(ctx, r.roundID, time.Now().UTC(), map[string]any{
		"winner":  winner,
		"players": players,
	})
	if err != nil {
		log.Printf("[Room] round summary write failed: %v", err)
	}

	r.broadcastf("%s wins the game!", winner)
	r.broadcast(msgVotePrompt)
}

func (r *Room) settleVote(outcome game.VoteOutcome) {
	switch outcome {
	case game.VoteRestart:
		r.broadcast(msgVoteRestart)
	case game.VoteAbort:
		// Sessions stay connected; the engine now refuses any new
		// round, so the table is a dead lobby from here on.
		r.broadcast(msgVoteDeclined)
	}
}

// sendHand pushes a player's private hand snapshot: the intro line
// followed by the JSON array line.
func (r *Room) sendHand(sessionID uint64, cards []card.Card) {
	r.sendTo(sessionID, protocol.HandIntro)
	r.sendTo(sessionID, protocol.EncodeHand(cards))
}

func (r *Room) sendTo(sessionID uint64, line string) {
	if sess, ok := r.sessions[sessionID]; ok {
		sess.send(line)
	}
}

func (r *Room) broadcast(line string) {
	for _, sess := range r.sessions {
		sess.send(line)
	}
}

func (r *Room) broadcastf(format string, args ...any) {
	r.broadcast(fmt.Sprintf(format, args...))
}

// record appends one event to the round history. Failures are logged
// and swallowed; history never blocks play.
func (r *Room) record(eventType string, payload map[string]any) {
	r.seq++
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.history.AppendRoundEvent(ctx, r.roundID, r.seq, eventType, payload); err != nil {
		log.Printf("[Room] history append failed: %v", err)
	}
}
