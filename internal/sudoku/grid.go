// Package sudoku generates 9×9 Sudoku puzzles by randomized backtracking.
package sudoku

// Size is the side length of a grid.
const Size = 9

// Cells is the number of cells in a grid.
const Cells = Size * Size

// Grid is a 9×9 digit matrix stored row-major: index row*9+col.
// A zero value marks a blank cell.
type Grid [Cells]uint8

// At returns the digit at the given position.
func (g *Grid) At(row, col int) uint8 {
	return g[row*Size+col]
}

// Set writes the digit at the given position.
func (g *Grid) Set(row, col int, digit uint8) {
	g[row*Size+col] = digit
}

// Allows reports whether placing digit at (row, col) keeps the grid valid:
// no equal digit in the same row, column, or 3×3 block.
func (g *Grid) Allows(row, col int, digit uint8) bool {
	for i := 0; i < Size; i++ {
		if g[row*Size+i] == digit || g[i*Size+col] == digit {
			return false
		}
	}
	blockRow, blockCol := (row/3)*3, (col/3)*3
	for r := blockRow; r < blockRow+3; r++ {
		for c := blockCol; c < blockCol+3; c++ {
			if g[r*Size+c] == digit {
				return false
			}
		}
	}
	return true
}

// Solved reports whether the grid is completely filled and every row, column,
// and 3×3 block contains each digit 1–9 exactly once.
func (g *Grid) Solved() bool {
	for unit := 0; unit < Size; unit++ {
		var row, col, block uint16
		blockRow, blockCol := (unit/3)*3, (unit%3)*3
		for i := 0; i < Size; i++ {
			row |= digitBit(g[unit*Size+i])
			col |= digitBit(g[i*Size+unit])
			block |= digitBit(g[(blockRow+i/3)*Size+blockCol+i%3])
		}
		if row != allDigits || col != allDigits || block != allDigits {
			return false
		}
	}
	return true
}

// allDigits has bits 1 through 9 set.
const allDigits = 0b1111111110

func digitBit(d uint8) uint16 {
	if d == 0 || d > 9 {
		return 0
	}
	return 1 << d
}
