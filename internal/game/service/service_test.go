package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	arenaerrors "github.com/sudokulab/arena/internal/errors"
	"github.com/sudokulab/arena/internal/game/domain"
	"github.com/sudokulab/arena/internal/game/registry"
	"github.com/sudokulab/arena/internal/observability/audit"
	"github.com/sudokulab/arena/internal/storage"
	"github.com/sudokulab/arena/internal/sudoku"
)

type recordingStore struct {
	events []storage.AuditEvent
}

func (s *recordingStore) AppendAuditEvent(_ context.Context, event storage.AuditEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *recordingStore) ListAuditEvents(context.Context, string, int) ([]storage.AuditEvent, error) {
	return s.events, nil
}

func (s *recordingStore) names() []string {
	var names []string
	for _, event := range s.events {
		names = append(names, event.Event)
	}
	return names
}

func newTestService(t *testing.T) (*Service, *recordingStore) {
	t.Helper()
	store := &recordingStore{}
	svc := New(registry.New(registry.Config{}), audit.NewEmitter(store))

	var ids, codes int
	svc.newID = func() (string, error) {
		ids++
		return fmt.Sprintf("player-%d", ids), nil
	}
	svc.newRoomCode = func() (string, error) {
		codes++
		return fmt.Sprintf("ROOM%02d", codes), nil
	}
	svc.newSeed = func() (int64, error) { return 42, nil }
	return svc, store
}

// solutionDigit reads the solution digit at (row, col) for the given player's
// room.
func solutionDigit(t *testing.T, svc *Service, playerID string, row, col int) uint8 {
	t.Helper()
	room, err := svc.Room(playerID)
	if err != nil {
		t.Fatalf("room snapshot: %v", err)
	}
	return room.Solution[row*sudoku.Size+col]
}

// firstEmptyCell scans the player's board in the snapshot for an empty cell.
func firstEmptyCell(t *testing.T, svc *Service, playerID string) (int, int) {
	t.Helper()
	room, err := svc.Room(playerID)
	if err != nil {
		t.Fatalf("room snapshot: %v", err)
	}
	board := room.BoardFor(playerID)
	for r := 0; r < sudoku.Size; r++ {
		for c := 0; c < sudoku.Size; c++ {
			if board.CellAt(r, c).Value == 0 {
				return r, c
			}
		}
	}
	t.Fatal("no empty cell")
	return 0, 0
}

func TestCreateRoom(t *testing.T) {
	svc, store := newTestService(t)

	playerID, room, err := svc.CreateRoom(context.Background(), "Alice", "coop", "easy")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if playerID != "player-1" {
		t.Fatalf("unexpected player id %q", playerID)
	}
	if room.ID != "ROOM01" || room.Mode != domain.ModeCoop || room.Difficulty != sudoku.DifficultyEasy {
		t.Fatalf("unexpected room %+v", room)
	}
	if len(room.Players) != 1 || room.Players[0].Name != "Alice" {
		t.Fatalf("expected creator seated, got %+v", room.Players)
	}
	if room.Players[0].Color == "" {
		t.Fatal("expected creator assigned a color")
	}

	if got := store.names(); len(got) != 1 || got[0] != audit.EventRoomCreated {
		t.Fatalf("unexpected audit trail %v", got)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateRoom(ctx, "Alice", "battle", "easy")
	if arenaerrors.GetCode(err) != arenaerrors.CodeInvalidMode {
		t.Fatalf("expected CodeInvalidMode, got %v", err)
	}
	_, _, err = svc.CreateRoom(ctx, "Alice", "coop", "impossible")
	if arenaerrors.GetCode(err) != arenaerrors.CodeInvalidDifficulty {
		t.Fatalf("expected CodeInvalidDifficulty, got %v", err)
	}
	_, _, err = svc.CreateRoom(ctx, "   ", "coop", "easy")
	if arenaerrors.GetCode(err) != arenaerrors.CodePlayerNameEmpty {
		t.Fatalf("expected CodePlayerNameEmpty, got %v", err)
	}
}

func TestCreateRoomRetriesOnCodeCollision(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	codes := []string{"SAME01", "SAME01", "FRESH1"}
	svc.newRoomCode = func() (string, error) {
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code, nil
	}

	if _, _, err := svc.CreateRoom(ctx, "Alice", "coop", "easy"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, room, err := svc.CreateRoom(ctx, "Bob", "coop", "easy")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if room.ID != "FRESH1" {
		t.Fatalf("expected retry onto FRESH1, got %q", room.ID)
	}
}

func TestJoinRoom(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, created, err := svc.CreateRoom(ctx, "Alice", "coop", "easy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bobID, room, err := svc.JoinRoom(ctx, created.ID, "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(room.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(room.Players))
	}
	if roomID, ok := svc.registry.RoomByPlayer(bobID); !ok || roomID != created.ID {
		t.Fatalf("expected bob bound to %s, got %q ok=%v", created.ID, roomID, ok)
	}

	_, _, err = svc.JoinRoom(ctx, "NOROOM", "Carol")
	if arenaerrors.GetCode(err) != arenaerrors.CodeRoomNotFound {
		t.Fatalf("expected CodeRoomNotFound, got %v", err)
	}

	got := store.names()
	if len(got) != 2 || got[1] != audit.EventPlayerJoined {
		t.Fatalf("unexpected audit trail %v", got)
	}
}

func TestJoinRoomFull(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, created, err := svc.CreateRoom(ctx, "P1", "coop", "easy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, name := range []string{"P2", "P3", "P4"} {
		if _, _, err := svc.JoinRoom(ctx, created.ID, name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}

	_, _, err = svc.JoinRoom(ctx, created.ID, "P5")
	if arenaerrors.GetCode(err) != arenaerrors.CodeRoomFull {
		t.Fatalf("expected CodeRoomFull, got %v", err)
	}
}

func TestMakeMoveAndCompletionAudit(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	aliceID, room, err := svc.CreateRoom(ctx, "Alice", "coop", "easy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	row, col := firstEmptyCell(t, svc, aliceID)
	digit := solutionDigit(t, svc, aliceID, row, col)

	outcome, snapshot, err := svc.MakeMove(ctx, aliceID, row, col, digit)
	if err != nil {
		t.Fatalf("make move: %v", err)
	}
	if !outcome.Correct || outcome.Points != 10 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if snapshot.BoardFor(aliceID).CellAt(row, col).Value != digit {
		t.Fatal("expected move reflected in snapshot")
	}

	// Complete the rest of the board; the final move lands a completion
	// audit event.
	for r := 0; r < sudoku.Size; r++ {
		for c := 0; c < sudoku.Size; c++ {
			if snapshot.BoardFor(aliceID).CellAt(r, c).Value != 0 {
				continue
			}
			if outcome, snapshot, err = svc.MakeMove(ctx, aliceID, r, c, room.Solution[r*sudoku.Size+c]); err != nil {
				t.Fatalf("place (%d,%d): %v", r, c, err)
			}
		}
	}
	if !outcome.Completed || !snapshot.Complete {
		t.Fatal("expected room complete")
	}

	got := store.names()
	if got[len(got)-1] != audit.EventGameCompleted {
		t.Fatalf("expected completion audit event, got %v", got)
	}
}

func TestMoveErrorsCarryCodes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	aliceID, _, err := svc.CreateRoom(ctx, "Alice", "versus", "easy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, _, err = svc.MakeMove(ctx, "ghost", 0, 0, 1)
	if arenaerrors.GetCode(err) != arenaerrors.CodePlayerNotInRoom {
		t.Fatalf("expected CodePlayerNotInRoom, got %v", err)
	}
	_, _, err = svc.MakeMove(ctx, aliceID, 12, 0, 1)
	if arenaerrors.GetCode(err) != arenaerrors.CodeCellOutOfRange {
		t.Fatalf("expected CodeCellOutOfRange, got %v", err)
	}
	_, _, err = svc.UseHint(ctx, aliceID, 0, 0)
	if arenaerrors.GetCode(err) != arenaerrors.CodeModeDisallowsOp {
		t.Fatalf("expected CodeModeDisallowsOp for versus hint, got %v", err)
	}
	_, err = svc.Undo(ctx, aliceID)
	if arenaerrors.GetCode(err) != arenaerrors.CodeModeDisallowsOp {
		t.Fatalf("expected CodeModeDisallowsOp for versus undo, got %v", err)
	}
}

func TestCoopUndoThroughService(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	aliceID, _, err := svc.CreateRoom(ctx, "Alice", "coop", "easy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Undo(ctx, aliceID)
	if arenaerrors.GetCode(err) != arenaerrors.CodeNothingToUndo {
		t.Fatalf("expected CodeNothingToUndo, got %v", err)
	}

	row, col := firstEmptyCell(t, svc, aliceID)
	digit := solutionDigit(t, svc, aliceID, row, col)
	if _, _, err := svc.MakeMove(ctx, aliceID, row, col, digit); err != nil {
		t.Fatalf("make move: %v", err)
	}

	snapshot, err := svc.Undo(ctx, aliceID)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if snapshot.BoardFor(aliceID).CellAt(row, col).Value != 0 {
		t.Fatal("expected move undone")
	}
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	aliceID, created, err := svc.CreateRoom(ctx, "Alice", "coop", "easy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bobID, _, err := svc.JoinRoom(ctx, created.ID, "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	roomID, snapshot, _, err := svc.Leave(ctx, bobID)
	if err != nil {
		t.Fatalf("bob leave: %v", err)
	}
	if roomID != created.ID || snapshot == nil || len(snapshot.Players) != 1 {
		t.Fatalf("unexpected leave result %q %+v", roomID, snapshot)
	}

	_, snapshot, _, err = svc.Leave(ctx, aliceID)
	if err != nil {
		t.Fatalf("alice leave: %v", err)
	}
	if snapshot != nil {
		t.Fatal("expected nil snapshot once room deleted")
	}
	if svc.registry.Len() != 0 {
		t.Fatalf("expected registry empty, got %d rooms", svc.registry.Len())
	}

	_, _, _, err = svc.Leave(ctx, aliceID)
	if arenaerrors.GetCode(err) != arenaerrors.CodePlayerNotInRoom {
		t.Fatalf("expected CodePlayerNotInRoom after leaving, got %v", err)
	}

	got := store.names()
	if got[len(got)-1] != audit.EventPlayerLeft {
		t.Fatalf("expected player_left audit event, got %v", got)
	}
}

func TestLeaveOfLastRacerCompletesVersusGame(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	aliceID, created, err := svc.CreateRoom(ctx, "Alice", "versus", "easy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bobID, _, err := svc.JoinRoom(ctx, created.ID, "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	// Alice solves her whole board; the room stays open while bob races.
	var snapshot = created
	for r := 0; r < sudoku.Size; r++ {
		for c := 0; c < sudoku.Size; c++ {
			if snapshot.BoardFor(aliceID).CellAt(r, c).Value != 0 {
				continue
			}
			if _, snapshot, err = svc.MakeMove(ctx, aliceID, r, c, created.Solution[r*sudoku.Size+c]); err != nil {
				t.Fatalf("place (%d,%d): %v", r, c, err)
			}
		}
	}
	if snapshot.Complete {
		t.Fatal("room must stay open while bob is unfinished")
	}

	_, snapshot, completed, err := svc.Leave(ctx, bobID)
	if err != nil {
		t.Fatalf("bob leave: %v", err)
	}
	if !completed || snapshot == nil || !snapshot.Complete {
		t.Fatalf("expected bob's departure to complete the game, got completed=%v snapshot=%+v", completed, snapshot)
	}

	got := store.names()
	if got[len(got)-1] != audit.EventGameCompleted {
		t.Fatalf("expected completion audit event, got %v", got)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	aliceID, first, err := svc.CreateRoom(ctx, "Alice", "coop", "easy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	row, col := firstEmptyCell(t, svc, aliceID)
	digit := solutionDigit(t, svc, aliceID, row, col)
	if _, _, err := svc.MakeMove(ctx, aliceID, row, col, digit); err != nil {
		t.Fatalf("make move: %v", err)
	}

	if first.BoardFor(aliceID).CellAt(row, col).Value != 0 {
		t.Fatal("expected earlier snapshot unaffected by later move")
	}
}

func TestVersusClaimsExposedOnSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	aliceID, _, err := svc.CreateRoom(ctx, "Alice", "versus", "easy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	row, col := firstEmptyCell(t, svc, aliceID)
	digit := solutionDigit(t, svc, aliceID, row, col)
	outcome, snapshot, err := svc.MakeMove(ctx, aliceID, row, col, digit)
	if err != nil {
		t.Fatalf("make move: %v", err)
	}
	if outcome.Points != 100 {
		t.Fatalf("expected first claim 100, got %d", outcome.Points)
	}

	key := fmt.Sprintf("%d-%d", row, col)
	if snapshot.Claims()[key] != aliceID {
		t.Fatalf("expected claim by %s at %s, got %v", aliceID, key, snapshot.Claims())
	}
}

func TestUserMessageForRoomErrors(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.JoinRoom(context.Background(), "NOROOM", "Bob")
	if err == nil {
		t.Fatal("expected error")
	}
	if msg := arenaerrors.UserMessage(err, ""); msg != "Room not found or full" {
		t.Fatalf("unexpected user message %q", msg)
	}
	if !errors.Is(err, arenaerrors.New(arenaerrors.CodeRoomNotFound, "")) {
		t.Fatal("expected code-based equality")
	}
}
