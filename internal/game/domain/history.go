package domain

// HistoryCap is the maximum number of undoable moves retained per room.
// Pushing beyond the cap evicts the oldest entry first.
const HistoryCap = 50

// Record snapshots a cell's state before a cooperative mutation so Undo can
// restore it exactly.
type Record struct {
	PlayerID    string
	Row, Col    int
	PrevValue   uint8
	PrevCorrect *bool
	PrevNotes   NoteSet
}

// History is a fixed-capacity ring of move records.
type History struct {
	entries [HistoryCap]Record
	start   int
	count   int
}

// Len returns the number of retained records.
func (h *History) Len() int {
	return h.count
}

// Push appends a record, evicting the oldest when the ring is full.
func (h *History) Push(rec Record) {
	if h.count < HistoryCap {
		h.entries[(h.start+h.count)%HistoryCap] = rec
		h.count++
		return
	}
	h.entries[h.start] = rec
	h.start = (h.start + 1) % HistoryCap
}

// RemoveMostRecentBy removes and returns the newest record made by playerID,
// leaving other players' newer records in place.
func (h *History) RemoveMostRecentBy(playerID string) (Record, bool) {
	for i := h.count - 1; i >= 0; i-- {
		idx := (h.start + i) % HistoryCap
		if h.entries[idx].PlayerID != playerID {
			continue
		}
		rec := h.entries[idx]
		// Close the gap by shifting newer records down one slot.
		for j := i; j < h.count-1; j++ {
			h.entries[(h.start+j)%HistoryCap] = h.entries[(h.start+j+1)%HistoryCap]
		}
		h.count--
		return rec, true
	}
	return Record{}, false
}
