package domain

import (
	"encoding/json"
	"fmt"
)

// NoteSet is a set of pencil-mark digits 1–9, stored as a bitmask. The zero
// value is the empty set. Value semantics make snapshots free.
type NoteSet uint16

// Has reports whether digit is in the set.
func (n NoteSet) Has(digit uint8) bool {
	return n&(1<<digit) != 0
}

// Toggle returns the set with digit's membership flipped.
func (n NoteSet) Toggle(digit uint8) NoteSet {
	return n ^ (1 << digit)
}

// Without returns the set with digit removed.
func (n NoteSet) Without(digit uint8) NoteSet {
	return n &^ (1 << digit)
}

// Digits returns the set's members in ascending order.
func (n NoteSet) Digits() []uint8 {
	var digits []uint8
	for d := uint8(1); d <= 9; d++ {
		if n.Has(d) {
			digits = append(digits, d)
		}
	}
	return digits
}

// MarshalJSON encodes the set as a sorted digit array, the shape clients
// render pencil marks from.
func (n NoteSet) MarshalJSON() ([]byte, error) {
	digits := n.Digits()
	if digits == nil {
		digits = []uint8{}
	}
	return json.Marshal(digits)
}

// UnmarshalJSON decodes a digit array into the set.
func (n *NoteSet) UnmarshalJSON(data []byte) error {
	var digits []uint8
	if err := json.Unmarshal(data, &digits); err != nil {
		return err
	}
	var set NoteSet
	for _, d := range digits {
		if d < 1 || d > 9 {
			return fmt.Errorf("note digit %d out of range", d)
		}
		set |= 1 << d
	}
	*n = set
	return nil
}

// Cell is one square of a board. Value zero means the cell is empty. Correct
// is nil while the cell is empty and points at true once a digit matching the
// solution has been placed; givens are always correct.
type Cell struct {
	Value          uint8
	Given          bool
	Notes          NoteSet
	Correct        *bool
	LastModifiedBy string
}

func correctFlag() *bool {
	v := true
	return &v
}
