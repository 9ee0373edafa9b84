package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by room operations. All are recoverable: the
// caller decides whether to surface a message or ignore the attempt.
var (
	ErrPlayerNotInRoom = errors.New("player is not in this room")
	ErrGameComplete    = errors.New("game is already complete")
	ErrPlayerFinished  = errors.New("player already finished their board")
	ErrCellOutOfRange  = errors.New("cell position out of range")
	ErrDigitOutOfRange = errors.New("digit out of range")
	ErrCellGiven       = errors.New("cell is a puzzle given")
	ErrCellFilled      = errors.New("cell already holds a value")
	ErrModeDisallows   = errors.New("operation not available in this mode")
	ErrNothingToUndo   = errors.New("no moves by this player to undo")
)

// MoveOutcome describes what a move or hint did to the room.
type MoveOutcome struct {
	Applied   bool // the board changed
	Correct   bool // the placed digit matched the solution
	Points    int  // score awarded to the acting player
	Penalty   int  // wrong-move penalty charged to the acting player
	Finished  bool // versus: the acting player completed their board
	Completed bool // the room reached completion
}

// CellRef addresses one board position. Its string form is the wire key used
// for the versus claim map.
type CellRef struct {
	Row int
	Col int
}

// String formats the reference as "row-col".
func (c CellRef) String() string {
	return fmt.Sprintf("%d-%d", c.Row, c.Col)
}

// ruleset is the capability interface mode variants implement. The room
// resolves the acting player and gates on completion before delegating; the
// variant owns the boards and everything mode-specific.
type ruleset interface {
	applyMove(room *Room, player *Player, row, col int, digit uint8) (MoveOutcome, error)
	applyNote(room *Room, player *Player, row, col int, digit uint8) error
	applyHint(room *Room, player *Player, row, col int) (MoveOutcome, error)
	applyUndo(room *Room, player *Player) error
	boardFor(playerID string) *Board
	playerJoined(room *Room, playerID string)
	playerLeft(room *Room, playerID string)
	claims() map[CellRef]string
	clone() ruleset
}
