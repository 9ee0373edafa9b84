package sudoku

import (
	"fmt"
	"math/rand"
)

// maxFillDepth bounds the backtracking recursion. A 9×9 grid never recurses
// deeper than one level per cell; exceeding that means the walk went wrong.
const maxFillDepth = Cells

// Generate produces a playable puzzle and its solution for the given
// difficulty. The solution is built by randomized depth-first backtracking;
// the puzzle is a copy with a difficulty-dependent number of cells blanked at
// uniformly random positions. No uniqueness check is performed on the result:
// a puzzle may admit completions that differ from the returned solution.
func Generate(seed int64, difficulty Difficulty) (puzzle, solution Grid, err error) {
	holes := difficulty.Holes()
	if holes == 0 {
		return Grid{}, Grid{}, fmt.Errorf("generate puzzle: %w", ErrUnknownDifficulty)
	}

	rng := rand.New(rand.NewSource(seed))
	if !fill(rng, &solution, 0) {
		// Backtracking over an empty grid is exhaustive, so this cannot be
		// reached unless the depth guard trips.
		return Grid{}, Grid{}, fmt.Errorf("generate puzzle: backtracking exceeded depth bound")
	}

	puzzle = solution
	for _, pos := range rng.Perm(Cells)[:holes] {
		puzzle[pos] = 0
	}
	return puzzle, solution, nil
}

// fill completes the grid from cell index idx onward, trying digits 1–9 in a
// freshly shuffled order at each empty cell and undoing on dead ends.
func fill(rng *rand.Rand, g *Grid, idx int) bool {
	if idx == Cells {
		return true
	}
	if idx > maxFillDepth {
		return false
	}

	digits := [Size]uint8{1, 2, 3, 4, 5, 6, 7, 8, 9}
	rng.Shuffle(Size, func(i, j int) {
		digits[i], digits[j] = digits[j], digits[i]
	})

	row, col := idx/Size, idx%Size
	for _, d := range digits {
		if g.Allows(row, col, d) {
			g[idx] = d
			if fill(rng, g, idx+1) {
				return true
			}
			g[idx] = 0
		}
	}
	return false
}
