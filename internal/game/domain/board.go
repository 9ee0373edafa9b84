package domain

import "github.com/sudokulab/arena/internal/sudoku"

// Board is a 9×9 grid of cells stored as a contiguous row-major array. Each
// board is owned by exactly one room (or one entry of a versus room's
// per-player board map) and is never aliased outside the domain package.
type Board struct {
	cells [sudoku.Cells]Cell
}

// NewBoard builds a playable board from puzzle givens. Non-zero puzzle cells
// become immutable givens, marked correct.
func NewBoard(puzzle *sudoku.Grid) *Board {
	b := &Board{}
	for i, digit := range puzzle {
		if digit != 0 {
			b.cells[i] = Cell{Value: digit, Given: true, Correct: correctFlag()}
		}
	}
	return b
}

// CellAt returns a copy of the cell at (row, col).
func (b *Board) CellAt(row, col int) Cell {
	return b.cells[row*sudoku.Size+col]
}

// cell returns the cell at (row, col) for in-package mutation.
func (b *Board) cell(row, col int) *Cell {
	return &b.cells[row*sudoku.Size+col]
}

// clearDigitNotes removes digit from the notes of every cell sharing a row,
// column, or 3×3 block with (row, col). Placing a digit makes those pencil
// marks stale.
func (b *Board) clearDigitNotes(row, col int, digit uint8) {
	for i := 0; i < sudoku.Size; i++ {
		b.cells[row*sudoku.Size+i].Notes = b.cells[row*sudoku.Size+i].Notes.Without(digit)
		b.cells[i*sudoku.Size+col].Notes = b.cells[i*sudoku.Size+col].Notes.Without(digit)
	}
	blockRow, blockCol := (row/3)*3, (col/3)*3
	for r := blockRow; r < blockRow+3; r++ {
		for c := blockCol; c < blockCol+3; c++ {
			b.cells[r*sudoku.Size+c].Notes = b.cells[r*sudoku.Size+c].Notes.Without(digit)
		}
	}
}

// Matches reports whether every cell's value equals the solution digit at
// that position.
func (b *Board) Matches(solution *sudoku.Grid) bool {
	for i := range b.cells {
		if b.cells[i].Value != solution[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the board. Correct pointers are
// replaced on mutation, never written through, so the shallow cell copy is
// safe to share.
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}
