package entity

import (
	"fmt"
	"math/rand"
)

const (
	StatusOpen     = "open"
	StatusActive   = "active"
	StatusFinished = "finished"

	MarkX = "x"
	MarkO = "o"

	EmptyCell = ""

	ResultNone = ""
	ResultDraw = "draw"
)

// Grid is the 3x3 board; cells hold MarkX, MarkO or EmptyCell.
type Grid [3][3]string

// GameState is the part of a game both clients render from. WinLine
// tags the winning line as {orientation, position} once the game is
// won, so clients can draw the strike-through overlay.
type GameState struct {
	Grid    Grid     `json:"grid"`
	Result  string   `json:"result"`
	WinLine []string `json:"winLine,omitempty"`
}

// Game is keyed by its ID in storage. Players is ordered: Players[0]
// always moves first and plays MarkX. The order is fixed at pairing
// time, not at insertion time.
type Game struct {
	ID      string    `json:"id"`
	Players []string  `json:"players"`
	State   GameState `json:"state"`
	Status  string    `json:"status"`
}

func NewGame(id, playerID string) *Game {
	return &Game{
		ID:      id,
		Players: []string{playerID},
		State:   GameState{Result: ResultNone},
		Status:  StatusOpen,
	}
}

// Activate pairs the second player in. The caller decides the move
// order; first plays MarkX.
func (that *Game) Activate(first, second string) {
	that.Players = []string{first, second}
	that.Status = StatusActive
}

// Finish records a terminal result. No further moves are accepted on
// a finished game.
func (that *Game) Finish(result string) {
	that.State.Result = result
	that.Status = StatusFinished
}

func (that *Game) IsOpen() bool {
	return that.Status == StatusOpen
}

func (that *Game) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) HasPlayer(playerID string) bool {
	for _, id := range that.Players {
		if id == playerID {
			return true
		}
	}

	return false
}

func (that *Game) PlayerIsFirst(playerID string) bool {
	return len(that.Players) > 0 && that.Players[0] == playerID
}

// OutcomeMessage is the human-readable result string broadcast on the
// chat channel when a game ends.
func (that *Game) OutcomeMessage() string {
	if that.State.Result == ResultDraw {
		return "It's a draw."
	}

	return fmt.Sprintf("%s wins!", that.State.Result)
}

// RandomizeOrder decides with uniform probability which of the two
// players moves first.
func RandomizeOrder(playerA, playerB string) (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return playerA, playerB
	}
	return playerB, playerA
}
