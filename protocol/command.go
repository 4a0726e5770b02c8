// Package protocol parses the newline-framed client commands and
// renders the server's outbound lines. One line in, one command out;
// everything a client sends mid-round goes through Parse.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"oldmaid-lite/card"
)

var (
	ErrEmptyLine      = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command, try: start, draw, discard, end, playagain yes|no")
	ErrBadDiscard     = errors.New("discard needs a JSON card list, e.g. discard [{\"suit\":\"Hearts\",\"rank\":7},{\"suit\":\"Clubs\",\"rank\":7}]")
	ErrBadPlayAgain   = errors.New("playagain needs a yes or no")
)

// Command is one parsed client line.
type Command interface {
	isCommand()
}

type StartCommand struct{}

type DrawCommand struct{}

type EndCommand struct{}

type DiscardCommand struct {
	Cards []card.Card
}

type PlayAgainCommand struct {
	Agree bool
}

func (StartCommand) isCommand()     {}
func (DrawCommand) isCommand()      {}
func (EndCommand) isCommand()       {}
func (DiscardCommand) isCommand()   {}
func (PlayAgainCommand) isCommand() {}

// Parse turns one trimmed input line into a Command. The verb is
// case-insensitive; the discard payload is strict JSON.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, ErrEmptyLine
	}

	verb := line
	rest := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		verb, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch strings.ToLower(verb) {
	case "start":
		return StartCommand{}, nil
	case "draw":
		return DrawCommand{}, nil
	case "end":
		return EndCommand{}, nil
	case "discard":
		cards, err := parseDiscardPayload(rest)
		if err != nil {
			return nil, err
		}
		return DiscardCommand{Cards: cards}, nil
	case "playagain":
		switch strings.ToLower(rest) {
		case "yes":
			return PlayAgainCommand{Agree: true}, nil
		case "no":
			return PlayAgainCommand{Agree: false}, nil
		default:
			return nil, ErrBadPlayAgain
		}
	default:
		return nil, ErrUnknownCommand
	}
}

// parseDiscardPayload accepts the bare array form and the wrapped
// {"cards":[...]} form some clients send.
func parseDiscardPayload(raw string) ([]card.Card, error) {
	if raw == "" {
		return nil, ErrBadDiscard
	}

	var cards []card.Card
	if strings.HasPrefix(raw, "{") {
		var wrapped struct {
			Cards []card.Card `json:"cards"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDiscard, err)
		}
		cards = wrapped.Cards
	} else {
		if err := json.Unmarshal([]byte(raw), &cards); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDiscard, err)
		}
	}

	for _, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: invalid card %s", ErrBadDiscard, c)
		}
	}
	return cards, nil
}
