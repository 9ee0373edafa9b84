package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sudokulab/arena/internal/sudoku"
)

// MaxPlayers is the room capacity.
const MaxPlayers = 4

var (
	// ErrEmptyRoomID indicates a missing room identifier.
	ErrEmptyRoomID = errors.New("room id is required")
	// ErrRoomFull indicates the room already has MaxPlayers members.
	ErrRoomFull = errors.New("room is full")
	// ErrDuplicatePlayer indicates the player id is already a member.
	ErrDuplicatePlayer = errors.New("player is already in this room")
)

// Room is one shared game. All mutation goes through its operation methods;
// the caller is responsible for serializing access (one operation at a time
// per room).
type Room struct {
	ID         string
	Mode       Mode
	Players    []*Player
	Difficulty sudoku.Difficulty
	Puzzle     sudoku.Grid // original givens, immutable
	Solution   sudoku.Grid // never exposed to clients
	StartTime  time.Time
	Complete   bool

	rules ruleset
}

// RoomConfig carries the inputs for NewRoom.
type RoomConfig struct {
	ID         string
	Mode       Mode
	Difficulty sudoku.Difficulty
	Seed       int64
	Now        func() time.Time
}

// NewRoom generates a puzzle and builds an empty room for the given mode.
// Players are added separately via AddPlayer.
func NewRoom(cfg RoomConfig) (*Room, error) {
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, ErrEmptyRoomID
	}
	if cfg.Mode != ModeCoop && cfg.Mode != ModeVersus {
		return nil, ErrUnknownMode
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	puzzle, solution, err := sudoku.Generate(cfg.Seed, cfg.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("generate puzzle: %w", err)
	}

	room := &Room{
		ID:         cfg.ID,
		Mode:       cfg.Mode,
		Difficulty: cfg.Difficulty,
		Puzzle:     puzzle,
		Solution:   solution,
		StartTime:  now().UTC(),
	}
	switch cfg.Mode {
	case ModeCoop:
		room.rules = newCoopState(&puzzle)
	case ModeVersus:
		room.rules = newVersusState()
	}
	return room, nil
}

// AddPlayer appends a member, seeding a private board in versus mode.
func (r *Room) AddPlayer(p *Player) error {
	if len(r.Players) >= MaxPlayers {
		return ErrRoomFull
	}
	for _, existing := range r.Players {
		if existing.ID == p.ID {
			return ErrDuplicatePlayer
		}
	}
	r.Players = append(r.Players, p)
	r.rules.playerJoined(r, p.ID)
	return nil
}

// RemovePlayer drops a member and their mode-specific state. It reports
// whether the room is now empty (an empty room must be deleted by its owner)
// and whether the departure itself completed the game: in versus mode the
// leaver may have been the last unfinished player.
func (r *Room) RemovePlayer(playerID string) (empty, completed bool) {
	for i, p := range r.Players {
		if p.ID == playerID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	wasComplete := r.Complete
	r.rules.playerLeft(r, playerID)
	return len(r.Players) == 0, r.Complete && !wasComplete
}

// Player returns the member with the given id.
func (r *Room) Player(playerID string) (*Player, bool) {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return nil, false
}

// MakeMove places digit at (row, col) for the acting player, or clears the
// cell when digit is zero (cooperative mode only). It returns the scored
// outcome; an incorrect guess leaves the board untouched and carries the
// wrong-move penalty in the outcome error-free, since losing is not an error.
func (r *Room) MakeMove(playerID string, row, col int, digit uint8) (MoveOutcome, error) {
	player, err := r.actingPlayer(playerID)
	if err != nil {
		return MoveOutcome{}, err
	}
	if err := checkCell(row, col); err != nil {
		return MoveOutcome{}, err
	}
	if digit > 9 {
		return MoveOutcome{}, ErrDigitOutOfRange
	}
	return r.rules.applyMove(r, player, row, col, digit)
}

// ToggleNote flips a pencil-mark digit on an empty, non-given cell.
func (r *Room) ToggleNote(playerID string, row, col int, digit uint8) error {
	player, err := r.actingPlayer(playerID)
	if err != nil {
		return err
	}
	if err := checkCell(row, col); err != nil {
		return err
	}
	if digit < 1 || digit > 9 {
		return ErrDigitOutOfRange
	}
	return r.rules.applyNote(r, player, row, col, digit)
}

// UseHint fills (row, col) with the solution digit at the cost of 15 points
// (cooperative mode only).
func (r *Room) UseHint(playerID string, row, col int) (MoveOutcome, error) {
	player, err := r.actingPlayer(playerID)
	if err != nil {
		return MoveOutcome{}, err
	}
	if err := checkCell(row, col); err != nil {
		return MoveOutcome{}, err
	}
	return r.rules.applyHint(r, player, row, col)
}

// Undo rolls back the acting player's most recent move (cooperative mode
// only). The score delta of the original move is not refunded.
func (r *Room) Undo(playerID string) error {
	player, err := r.actingPlayer(playerID)
	if err != nil {
		return err
	}
	return r.rules.applyUndo(r, player)
}

// BoardFor returns the board the given player acts on: the shared board in
// cooperative mode, their private board in versus mode.
func (r *Room) BoardFor(playerID string) *Board {
	return r.rules.boardFor(playerID)
}

// Claims returns the versus claim map keyed by wire-format cell reference,
// or nil in cooperative mode.
func (r *Room) Claims() map[string]string {
	claims := r.rules.claims()
	if claims == nil {
		return nil
	}
	out := make(map[string]string, len(claims))
	for ref, playerID := range claims {
		out[ref.String()] = playerID
	}
	return out
}

// Snapshot returns a deep copy safe to read outside the room's lock.
func (r *Room) Snapshot() *Room {
	clone := *r
	clone.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		copied := *p
		clone.Players[i] = &copied
	}
	clone.rules = r.rules.clone()
	return &clone
}

// actingPlayer resolves the player and gates mutations once the game is over.
func (r *Room) actingPlayer(playerID string) (*Player, error) {
	player, ok := r.Player(playerID)
	if !ok {
		return nil, ErrPlayerNotInRoom
	}
	if r.Complete {
		return nil, ErrGameComplete
	}
	return player, nil
}

func checkCell(row, col int) error {
	if row < 0 || row >= sudoku.Size || col < 0 || col >= sudoku.Size {
		return ErrCellOutOfRange
	}
	return nil
}
