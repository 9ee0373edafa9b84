package domain

import "github.com/sudokulab/arena/internal/sudoku"

// Scoring constants for the versus mode.
const (
	versusFirstClaimPoints = 100
	versusLaterClaimPoints = 50
	versusWrongPenalty     = 250
)

// versusState is the competitive variant: each player races on a private copy
// of the same puzzle, and cells are claimed across boards for bonus points.
// Hints, undo, and cell clearing are not part of the race.
type versusState struct {
	boards   map[string]*Board
	claimMap map[CellRef]string
}

func newVersusState() *versusState {
	return &versusState{
		boards:   make(map[string]*Board),
		claimMap: make(map[CellRef]string),
	}
}

func (s *versusState) applyMove(room *Room, player *Player, row, col int, digit uint8) (MoveOutcome, error) {
	if player.Finished {
		return MoveOutcome{}, ErrPlayerFinished
	}
	if digit == 0 {
		return MoveOutcome{}, ErrModeDisallows
	}
	board := s.boards[player.ID]
	cell := board.cell(row, col)
	if cell.Given {
		return MoveOutcome{}, ErrCellGiven
	}
	if cell.Value != 0 {
		return MoveOutcome{}, ErrCellFilled
	}

	if digit != room.Solution[row*sudoku.Size+col] {
		player.Penalize(versusWrongPenalty)
		return MoveOutcome{Penalty: versusWrongPenalty}, nil
	}

	cell.Value = digit
	cell.Correct = correctFlag()
	cell.Notes = 0
	cell.LastModifiedBy = player.ID
	board.clearDigitNotes(row, col, digit)

	ref := CellRef{Row: row, Col: col}
	points := versusLaterClaimPoints
	if _, claimed := s.claimMap[ref]; !claimed {
		points = versusFirstClaimPoints
		s.claimMap[ref] = player.ID
	}
	player.Award(points)

	outcome := MoveOutcome{Applied: true, Correct: true, Points: points}
	if board.Matches(&room.Solution) {
		player.Finished = true
		outcome.Finished = true
		if s.allFinished(room) {
			room.Complete = true
			outcome.Completed = true
		}
	}
	return outcome, nil
}

func (s *versusState) applyNote(_ *Room, player *Player, row, col int, digit uint8) error {
	if player.Finished {
		return ErrPlayerFinished
	}
	board := s.boards[player.ID]
	cell := board.cell(row, col)
	if cell.Given {
		return ErrCellGiven
	}
	if cell.Value != 0 {
		return ErrCellFilled
	}
	cell.Notes = cell.Notes.Toggle(digit)
	cell.LastModifiedBy = player.ID
	return nil
}

func (s *versusState) applyHint(*Room, *Player, int, int) (MoveOutcome, error) {
	return MoveOutcome{}, ErrModeDisallows
}

func (s *versusState) applyUndo(*Room, *Player) error {
	return ErrModeDisallows
}

func (s *versusState) boardFor(playerID string) *Board {
	return s.boards[playerID]
}

func (s *versusState) playerJoined(room *Room, playerID string) {
	s.boards[playerID] = NewBoard(&room.Puzzle)
}

// playerLeft drops the player's private board. Their claims remain: points
// already scored against those cells stay scored. Completion is re-checked
// against the remaining members; the leaver may have been the only player
// still racing.
func (s *versusState) playerLeft(room *Room, playerID string) {
	delete(s.boards, playerID)
	if room.Complete || len(room.Players) == 0 {
		return
	}
	if s.allFinished(room) {
		room.Complete = true
	}
}

func (s *versusState) claims() map[CellRef]string {
	return s.claimMap
}

func (s *versusState) clone() ruleset {
	clone := &versusState{
		boards:   make(map[string]*Board, len(s.boards)),
		claimMap: make(map[CellRef]string, len(s.claimMap)),
	}
	for id, board := range s.boards {
		clone.boards[id] = board.Clone()
	}
	for ref, id := range s.claimMap {
		clone.claimMap[ref] = id
	}
	return clone
}

// allFinished reports whether every current member has completed their board.
func (s *versusState) allFinished(room *Room) bool {
	for _, p := range room.Players {
		if !p.Finished {
			return false
		}
	}
	return true
}
