// Package service orchestrates room lifecycle and gameplay operations,
// mapping domain outcomes onto the error codes the transport layer speaks.
package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sudokulab/arena/internal/errors"
	"github.com/sudokulab/arena/internal/game/domain"
	"github.com/sudokulab/arena/internal/game/registry"
	"github.com/sudokulab/arena/internal/observability/audit"
	"github.com/sudokulab/arena/internal/platform/id"
	"github.com/sudokulab/arena/internal/platform/random"
	"github.com/sudokulab/arena/internal/sudoku"
)

// createRoomAttempts bounds room-code collision retries.
const createRoomAttempts = 5

// Service is the gameplay API. All methods return deep snapshots; callers
// never see live room state.
type Service struct {
	registry *registry.Registry
	audit    *audit.Emitter
	tracer   trace.Tracer

	newID       func() (string, error)
	newRoomCode func() (string, error)
	newSeed     func() (int64, error)
	now         func() time.Time

	colorMu  sync.Mutex
	colorRng *rand.Rand
}

// New builds a service around the given registry. The audit emitter may be
// nil.
func New(reg *registry.Registry, emitter *audit.Emitter) *Service {
	seed, err := random.NewSeed()
	if err != nil {
		seed = time.Now().UnixNano()
	}
	return &Service{
		registry:    reg,
		audit:       emitter,
		tracer:      otel.Tracer("arena/game"),
		newID:       id.NewID,
		newRoomCode: id.NewRoomCode,
		newSeed:     random.NewSeed,
		now:         time.Now,
		colorRng:    rand.New(rand.NewSource(seed)),
	}
}

// CreateRoom generates a puzzle, registers a new room, and joins the creator
// to it. It returns the creator's player id and a snapshot of the room.
func (s *Service) CreateRoom(ctx context.Context, playerName, modeName, difficultyName string) (string, *domain.Room, error) {
	ctx, span := s.tracer.Start(ctx, "game.CreateRoom",
		trace.WithAttributes(attribute.String("game.mode", modeName), attribute.String("game.difficulty", difficultyName)))
	defer span.End()

	mode, err := domain.ParseMode(modeName)
	if err != nil {
		return "", nil, errors.Wrap(errors.CodeInvalidMode, fmt.Sprintf("parse mode %q", modeName), err)
	}
	difficulty, err := sudoku.ParseDifficulty(difficultyName)
	if err != nil {
		return "", nil, errors.Wrap(errors.CodeInvalidDifficulty, fmt.Sprintf("parse difficulty %q", difficultyName), err)
	}

	player, err := s.newPlayer(playerName)
	if err != nil {
		return "", nil, err
	}

	var room *domain.Room
	for attempt := 0; attempt < createRoomAttempts; attempt++ {
		code, err := s.newRoomCode()
		if err != nil {
			return "", nil, errors.Wrap(errors.CodeUnknown, "generate room code", err)
		}
		seed, err := s.newSeed()
		if err != nil {
			return "", nil, errors.Wrap(errors.CodeUnknown, "generate puzzle seed", err)
		}
		room, err = domain.NewRoom(domain.RoomConfig{
			ID:         code,
			Mode:       mode,
			Difficulty: difficulty,
			Seed:       seed,
			Now:        s.now,
		})
		if err != nil {
			return "", nil, errors.Wrap(errors.CodeUnknown, "build room", err)
		}
		if err := room.AddPlayer(player); err != nil {
			return "", nil, errors.Wrap(errors.CodeUnknown, "seat creator", err)
		}
		if err := s.registry.Add(room); err == nil {
			break
		}
		room = nil
	}
	if room == nil {
		return "", nil, errors.New(errors.CodeUnknown, "room code space exhausted")
	}

	s.registry.Bind(player.ID, room.ID)
	s.registry.Touch(room.ID)
	span.SetAttributes(attribute.String("game.room_id", room.ID))
	s.audit.Emit(ctx, audit.EventRoomCreated, room.ID, player.ID, fmt.Sprintf("%s/%s", mode, difficulty))

	return player.ID, room.Snapshot(), nil
}

// JoinRoom seats a new player in an existing room.
func (s *Service) JoinRoom(ctx context.Context, roomID, playerName string) (string, *domain.Room, error) {
	ctx, span := s.tracer.Start(ctx, "game.JoinRoom",
		trace.WithAttributes(attribute.String("game.room_id", roomID)))
	defer span.End()

	player, err := s.newPlayer(playerName)
	if err != nil {
		return "", nil, err
	}

	var snapshot *domain.Room
	err = s.registry.With(roomID, func(room *domain.Room) (bool, error) {
		if err := room.AddPlayer(player); err != nil {
			return false, err
		}
		snapshot = room.Snapshot()
		return false, nil
	})
	if err != nil {
		return "", nil, mapDomainErr(err, roomID)
	}

	s.registry.Bind(player.ID, roomID)
	s.registry.Touch(roomID)
	s.audit.Emit(ctx, audit.EventPlayerJoined, roomID, player.ID, "")

	return player.ID, snapshot, nil
}

// Leave removes the player from their room, deleting the room once the last
// player is gone. The returned snapshot is nil when the room was deleted.
// completed reports that the departure finished the game: in versus mode the
// leaver may have been the last player still racing.
func (s *Service) Leave(ctx context.Context, playerID string) (roomID string, snapshot *domain.Room, completed bool, err error) {
	ctx, span := s.tracer.Start(ctx, "game.Leave")
	defer span.End()

	roomID, ok := s.registry.RoomByPlayer(playerID)
	if !ok {
		return "", nil, false, errors.New(errors.CodePlayerNotInRoom, "player has no room")
	}

	err = s.registry.With(roomID, func(room *domain.Room) (bool, error) {
		empty, done := room.RemovePlayer(playerID)
		if empty {
			return true, nil
		}
		completed = done
		snapshot = room.Snapshot()
		return false, nil
	})
	if err != nil {
		return "", nil, false, mapDomainErr(err, roomID)
	}

	s.registry.Unbind(playerID)
	s.audit.Emit(ctx, audit.EventPlayerLeft, roomID, playerID, "")
	if completed {
		s.audit.Emit(ctx, audit.EventGameCompleted, roomID, playerID, "last unfinished player left")
	}

	return roomID, snapshot, completed, nil
}

// MakeMove places or clears a digit for the player and returns the scored
// outcome with a fresh room snapshot.
func (s *Service) MakeMove(ctx context.Context, playerID string, row, col int, digit uint8) (domain.MoveOutcome, *domain.Room, error) {
	ctx, span := s.tracer.Start(ctx, "game.MakeMove")
	defer span.End()

	var outcome domain.MoveOutcome
	roomID, snapshot, err := s.withPlayerRoom(playerID, func(room *domain.Room) error {
		var err error
		outcome, err = room.MakeMove(playerID, row, col, digit)
		return err
	})
	if err != nil {
		return domain.MoveOutcome{}, nil, err
	}

	s.registry.Touch(roomID)
	if outcome.Completed {
		s.audit.Emit(ctx, audit.EventGameCompleted, roomID, playerID, "")
	}
	return outcome, snapshot, nil
}

// ToggleNote flips a pencil mark for the player.
func (s *Service) ToggleNote(ctx context.Context, playerID string, row, col int, digit uint8) (*domain.Room, error) {
	_, span := s.tracer.Start(ctx, "game.ToggleNote")
	defer span.End()

	_, snapshot, err := s.withPlayerRoom(playerID, func(room *domain.Room) error {
		return room.ToggleNote(playerID, row, col, digit)
	})
	return snapshot, err
}

// UseHint reveals the solution digit at a cell for the player.
func (s *Service) UseHint(ctx context.Context, playerID string, row, col int) (domain.MoveOutcome, *domain.Room, error) {
	ctx, span := s.tracer.Start(ctx, "game.UseHint")
	defer span.End()

	var outcome domain.MoveOutcome
	roomID, snapshot, err := s.withPlayerRoom(playerID, func(room *domain.Room) error {
		var err error
		outcome, err = room.UseHint(playerID, row, col)
		return err
	})
	if err != nil {
		return domain.MoveOutcome{}, nil, err
	}

	if outcome.Completed {
		s.audit.Emit(ctx, audit.EventGameCompleted, roomID, playerID, "")
	}
	return outcome, snapshot, nil
}

// Undo rolls back the player's most recent move.
func (s *Service) Undo(ctx context.Context, playerID string) (*domain.Room, error) {
	_, span := s.tracer.Start(ctx, "game.Undo")
	defer span.End()

	_, snapshot, err := s.withPlayerRoom(playerID, func(room *domain.Room) error {
		return room.Undo(playerID)
	})
	return snapshot, err
}

// Room returns a snapshot of the room the player is in.
func (s *Service) Room(playerID string) (*domain.Room, error) {
	_, snapshot, err := s.withPlayerRoom(playerID, func(*domain.Room) error { return nil })
	return snapshot, err
}

// withPlayerRoom resolves the player's room, runs op under the room lock, and
// returns the room id with a post-op snapshot.
func (s *Service) withPlayerRoom(playerID string, op func(room *domain.Room) error) (string, *domain.Room, error) {
	roomID, ok := s.registry.RoomByPlayer(playerID)
	if !ok {
		return "", nil, errors.New(errors.CodePlayerNotInRoom, "player has no room")
	}

	var snapshot *domain.Room
	err := s.registry.With(roomID, func(room *domain.Room) (bool, error) {
		if err := op(room); err != nil {
			return false, err
		}
		snapshot = room.Snapshot()
		return false, nil
	})
	if err != nil {
		return "", nil, mapDomainErr(err, roomID)
	}
	return roomID, snapshot, nil
}

func (s *Service) newPlayer(name string) (*domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.CodePlayerNameEmpty, "player name is required")
	}

	playerID, err := s.newID()
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnknown, "generate player id", err)
	}

	s.colorMu.Lock()
	color := domain.RandomColor(s.colorRng)
	s.colorMu.Unlock()

	return &domain.Player{ID: playerID, Name: name, Color: color}, nil
}

// mapDomainErr translates registry and domain sentinels into coded errors.
func mapDomainErr(err error, roomID string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, registry.ErrNotFound):
		return errors.WithMetadata(errors.CodeRoomNotFound, "room not found", map[string]string{"RoomID": roomID})
	case stderrors.Is(err, domain.ErrRoomFull):
		return errors.New(errors.CodeRoomFull, "room is full")
	case stderrors.Is(err, domain.ErrPlayerNotInRoom):
		return errors.New(errors.CodePlayerNotInRoom, "player is not in room")
	case stderrors.Is(err, domain.ErrGameComplete):
		return errors.New(errors.CodeGameComplete, "game already complete")
	case stderrors.Is(err, domain.ErrPlayerFinished):
		return errors.New(errors.CodePlayerFinished, "player already finished")
	case stderrors.Is(err, domain.ErrCellOutOfRange):
		return errors.New(errors.CodeCellOutOfRange, "cell position out of range")
	case stderrors.Is(err, domain.ErrDigitOutOfRange):
		return errors.New(errors.CodeDigitOutOfRange, "digit out of range")
	case stderrors.Is(err, domain.ErrCellGiven):
		return errors.New(errors.CodeCellGiven, "cell is a puzzle given")
	case stderrors.Is(err, domain.ErrCellFilled):
		return errors.New(errors.CodeCellFilled, "cell already filled")
	case stderrors.Is(err, domain.ErrModeDisallows):
		return errors.New(errors.CodeModeDisallowsOp, "operation not available in this mode")
	case stderrors.Is(err, domain.ErrNothingToUndo):
		return errors.New(errors.CodeNothingToUndo, "nothing to undo")
	default:
		return errors.Wrap(errors.CodeUnknown, "room operation", err)
	}
}
