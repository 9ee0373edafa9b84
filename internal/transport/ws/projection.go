package ws

import (
	"sort"
	"time"

	"github.com/sudokulab/arena/internal/game/domain"
	"github.com/sudokulab/arena/internal/sudoku"
)

// CellView is the wire shape of one board cell.
type CellView struct {
	Value          uint8          `json:"value"`
	Given          bool           `json:"given"`
	Notes          domain.NoteSet `json:"notes"`
	Correct        *bool          `json:"correct"`
	LastModifiedBy string         `json:"lastModifiedBy,omitempty"`
}

// PlayerView is the wire shape of one room member.
type PlayerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Score    int    `json:"score"`
	Finished bool   `json:"finished,omitempty"`
}

// RoomView is the per-viewer projection of a room. In versus mode Board is
// the viewer's private board and Claims maps "row-col" keys to the claiming
// player. The solution never appears in any projection.
type RoomView struct {
	ID         string            `json:"id"`
	Mode       string            `json:"mode"`
	Difficulty string            `json:"difficulty"`
	StartTime  time.Time         `json:"startTime"`
	Complete   bool              `json:"complete"`
	Players    []PlayerView      `json:"players"`
	Board      []CellView        `json:"board"`
	Claims     map[string]string `json:"claims,omitempty"`
}

// projectRoom builds the viewer's projection from a room snapshot.
func projectRoom(room *domain.Room, viewerID string) RoomView {
	view := RoomView{
		ID:         room.ID,
		Mode:       room.Mode.String(),
		Difficulty: room.Difficulty.String(),
		StartTime:  room.StartTime,
		Complete:   room.Complete,
		Players:    make([]PlayerView, 0, len(room.Players)),
		Claims:     room.Claims(),
	}
	for _, p := range room.Players {
		view.Players = append(view.Players, PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Color:    p.Color,
			Score:    p.Score,
			Finished: p.Finished,
		})
	}

	board := room.BoardFor(viewerID)
	if board == nil {
		return view
	}
	view.Board = make([]CellView, 0, sudoku.Cells)
	for row := 0; row < sudoku.Size; row++ {
		for col := 0; col < sudoku.Size; col++ {
			cell := board.CellAt(row, col)
			view.Board = append(view.Board, CellView{
				Value:          cell.Value,
				Given:          cell.Given,
				Notes:          cell.Notes,
				Correct:        cell.Correct,
				LastModifiedBy: cell.LastModifiedBy,
			})
		}
	}
	return view
}

// finalScores builds the gameWon scoreboard, highest score first. Ties keep
// seating order.
func finalScores(room *domain.Room) []FinalScore {
	scores := make([]FinalScore, 0, len(room.Players))
	for _, p := range room.Players {
		scores = append(scores, FinalScore{Name: p.Name, Score: p.Score})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}
