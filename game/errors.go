package game

import "errors"

// Rule-violation errors double as the text sent back to the offending
// client, so they are phrased for players, not operators.
var (
	ErrGameFull        = errors.New("the game is full, cannot join")
	ErrNameTaken       = errors.New("that name is already taken")
	ErrRoundInProgress = errors.New("a round is already in progress")
	ErrNotStarted      = errors.New("the game has not started yet, wait for everyone to ready up")
	ErrOutOfTurn       = errors.New("it is not your turn, please wait")

	ErrAlreadyDrawn  = errors.New("you have already drawn this turn")
	ErrMustDrawFirst = errors.New("you must draw a card first")
	ErrVictimEmpty   = errors.New("the next player has no cards to draw")

	ErrOddDiscard      = errors.New("discards must be two or more cards, an even number")
	ErrJokerDiscard    = errors.New("the joker can never be discarded")
	ErrUnpairedDiscard = errors.New("discarded cards must pair up by rank")
	ErrCardsNotHeld    = errors.New("you do not hold all of those cards")

	ErrNoVoteInProgress = errors.New("there is no rematch vote in progress")
	ErrGameOver         = errors.New("the game is over")
	ErrVoteInProgress   = errors.New("the round is over, respond with 'playagain yes' or 'playagain no'")

	ErrUnknownPlayer = errors.New("unknown player")
)
