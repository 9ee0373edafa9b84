package sudoku

import (
	"errors"
	"strings"
)

// Difficulty selects how many cells are removed from a solved grid.
type Difficulty int

const (
	// DifficultyUnspecified represents an invalid difficulty value.
	DifficultyUnspecified Difficulty = iota
	// DifficultyEasy removes 35 cells.
	DifficultyEasy
	// DifficultyMedium removes 45 cells.
	DifficultyMedium
	// DifficultyHard removes 55 cells.
	DifficultyHard
)

// ErrUnknownDifficulty indicates an unrecognized difficulty name.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty maps a wire-format difficulty name to a Difficulty.
func ParseDifficulty(name string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return DifficultyUnspecified, ErrUnknownDifficulty
	}
}

// String returns the wire-format difficulty name.
func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unspecified"
	}
}

// Holes returns how many cells are blanked for this difficulty.
func (d Difficulty) Holes() int {
	switch d {
	case DifficultyEasy:
		return 35
	case DifficultyMedium:
		return 45
	case DifficultyHard:
		return 55
	default:
		return 0
	}
}
