package domain

import (
	"encoding/json"
	"testing"

	"github.com/sudokulab/arena/internal/sudoku"
)

func TestNewBoardMarksGivens(t *testing.T) {
	var puzzle sudoku.Grid
	puzzle[0] = 5

	board := NewBoard(&puzzle)
	cell := board.CellAt(0, 0)
	if !cell.Given || cell.Value != 5 {
		t.Fatalf("expected given 5 at (0,0), got %+v", cell)
	}
	if cell.Correct == nil || !*cell.Correct {
		t.Fatal("expected given cell to be marked correct")
	}
	if empty := board.CellAt(0, 1); empty.Given || empty.Value != 0 {
		t.Fatalf("expected empty cell at (0,1), got %+v", empty)
	}
}

func TestClearDigitNotes(t *testing.T) {
	var puzzle sudoku.Grid
	board := NewBoard(&puzzle)

	// Same row, same column, same block, and an unrelated cell.
	board.cell(4, 8).Notes = NoteSet(0).Toggle(7)
	board.cell(0, 4).Notes = NoteSet(0).Toggle(7)
	board.cell(5, 5).Notes = NoteSet(0).Toggle(7)
	board.cell(8, 8).Notes = NoteSet(0).Toggle(7)

	board.clearDigitNotes(4, 4, 7)

	for _, pos := range [][2]int{{4, 8}, {0, 4}, {5, 5}} {
		if board.CellAt(pos[0], pos[1]).Notes.Has(7) {
			t.Fatalf("expected note 7 cleared at (%d,%d)", pos[0], pos[1])
		}
	}
	if !board.CellAt(8, 8).Notes.Has(7) {
		t.Fatal("expected unrelated note 7 at (8,8) to survive")
	}
}

func TestNoteSetToggleAndJSON(t *testing.T) {
	var notes NoteSet
	notes = notes.Toggle(3)
	notes = notes.Toggle(7)
	notes = notes.Toggle(3)
	if notes.Has(3) {
		t.Fatal("expected 3 toggled back off")
	}
	if !notes.Has(7) {
		t.Fatal("expected 7 present")
	}

	data, err := json.Marshal(notes)
	if err != nil {
		t.Fatalf("marshal notes: %v", err)
	}
	if string(data) != "[7]" {
		t.Fatalf("expected [7], got %s", data)
	}

	data, err = json.Marshal(NoteSet(0))
	if err != nil {
		t.Fatalf("marshal empty notes: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}

	var parsed NoteSet
	if err := json.Unmarshal([]byte("[1,9]"), &parsed); err != nil {
		t.Fatalf("unmarshal notes: %v", err)
	}
	if !parsed.Has(1) || !parsed.Has(9) {
		t.Fatalf("expected digits 1 and 9, got %v", parsed.Digits())
	}
	if err := json.Unmarshal([]byte("[10]"), &parsed); err == nil {
		t.Fatal("expected out-of-range digit to be rejected")
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	var puzzle sudoku.Grid
	board := NewBoard(&puzzle)
	clone := board.Clone()

	cell := board.cell(0, 0)
	cell.Value = 9
	cell.Correct = correctFlag()

	if clone.CellAt(0, 0).Value != 0 {
		t.Fatal("expected clone untouched by mutation of the original")
	}
	if clone.CellAt(0, 0).Correct != nil {
		t.Fatal("expected clone correct flag untouched")
	}
}
