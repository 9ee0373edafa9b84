package domain

import "github.com/sudokulab/arena/internal/sudoku"

// Scoring constants for the cooperative mode.
const (
	coopCorrectPoints = 10
	coopWrongPenalty  = 5
	coopHintPenalty   = 15
)

// coopState is the cooperative variant: one shared board every player
// mutates, with a shared undo history scoped by author.
type coopState struct {
	board   *Board
	history *History
}

func newCoopState(puzzle *sudoku.Grid) *coopState {
	return &coopState{
		board:   NewBoard(puzzle),
		history: &History{},
	}
}

func (s *coopState) applyMove(room *Room, player *Player, row, col int, digit uint8) (MoveOutcome, error) {
	cell := s.board.cell(row, col)
	if cell.Given {
		return MoveOutcome{}, ErrCellGiven
	}
	// A correctly solved cell is settled; re-placing it would farm points.
	if digit != 0 && cell.Correct != nil && *cell.Correct {
		return MoveOutcome{}, ErrCellFilled
	}

	if digit == 0 {
		if cell.Value == 0 {
			return MoveOutcome{}, nil
		}
		s.pushHistory(player.ID, row, col, cell)
		cell.Value = 0
		cell.Correct = nil
		cell.Notes = 0
		cell.LastModifiedBy = player.ID
		return MoveOutcome{Applied: true}, nil
	}

	if digit != room.Solution[row*sudoku.Size+col] {
		// The board stays untouched on a wrong guess; only the score moves.
		player.Penalize(coopWrongPenalty)
		return MoveOutcome{Penalty: coopWrongPenalty}, nil
	}

	s.pushHistory(player.ID, row, col, cell)
	cell.Value = digit
	cell.Correct = correctFlag()
	cell.Notes = 0
	cell.LastModifiedBy = player.ID
	s.board.clearDigitNotes(row, col, digit)
	player.Award(coopCorrectPoints)

	outcome := MoveOutcome{Applied: true, Correct: true, Points: coopCorrectPoints}
	if s.board.Matches(&room.Solution) {
		room.Complete = true
		outcome.Completed = true
	}
	return outcome, nil
}

func (s *coopState) applyNote(_ *Room, player *Player, row, col int, digit uint8) error {
	cell := s.board.cell(row, col)
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

func (s *coopState) applyHint(room *Room, player *Player, row, col int) (MoveOutcome, error) {
	cell := s.board.cell(row, col)
	if cell.Given {
		return MoveOutcome{}, ErrCellGiven
	}
	digit := room.Solution[row*sudoku.Size+col]
	if cell.Value == digit {
		return MoveOutcome{}, ErrCellFilled
	}

	s.pushHistory(player.ID, row, col, cell)
	cell.Value = digit
	cell.Correct = correctFlag()
	cell.Notes = 0
	cell.LastModifiedBy = player.ID
	s.board.clearDigitNotes(row, col, digit)
	player.Penalize(coopHintPenalty)

	outcome := MoveOutcome{Applied: true, Correct: true, Penalty: coopHintPenalty}
	if s.board.Matches(&room.Solution) {
		room.Complete = true
		outcome.Completed = true
	}
	return outcome, nil
}

func (s *coopState) applyUndo(_ *Room, player *Player) error {
	rec, ok := s.history.RemoveMostRecentBy(player.ID)
	if !ok {
		return ErrNothingToUndo
	}
	cell := s.board.cell(rec.Row, rec.Col)
	cell.Value = rec.PrevValue
	cell.Correct = rec.PrevCorrect
	cell.Notes = rec.PrevNotes
	cell.LastModifiedBy = player.ID
	return nil
}

func (s *coopState) boardFor(string) *Board {
	return s.board
}

func (s *coopState) playerJoined(*Room, string) {}

func (s *coopState) playerLeft(*Room, string) {}

func (s *coopState) claims() map[CellRef]string {
	return nil
}

func (s *coopState) clone() ruleset {
	history := *s.history
	return &coopState{board: s.board.Clone(), history: &history}
}

func (s *coopState) pushHistory(playerID string, row, col int, cell *Cell) {
	s.history.Push(Record{
		PlayerID:    playerID,
		Row:         row,
		Col:         col,
		PrevValue:   cell.Value,
		PrevCorrect: cell.Correct,
		PrevNotes:   cell.Notes,
	})
}
