// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Room errors
	CodeRoomNotFound Code = "ROOM_NOT_FOUND"
	CodeRoomFull     Code = "ROOM_FULL"
	CodeGameComplete Code = "GAME_COMPLETE"

	// Player errors
	CodePlayerNameEmpty Code = "PLAYER_NAME_EMPTY"
	CodePlayerNotInRoom Code = "PLAYER_NOT_IN_ROOM"
	CodePlayerFinished  Code = "PLAYER_FINISHED"

	// Move errors
	CodeCellOutOfRange  Code = "CELL_OUT_OF_RANGE"
	CodeDigitOutOfRange Code = "DIGIT_OUT_OF_RANGE"
	CodeCellGiven       Code = "CELL_GIVEN"
	CodeCellFilled      Code = "CELL_FILLED"
	CodeModeDisallowsOp Code = "MODE_DISALLOWS_OPERATION"
	CodeNothingToUndo   Code = "NOTHING_TO_UNDO"

	// Input errors
	CodeInvalidDifficulty Code = "INVALID_DIFFICULTY"
	CodeInvalidMode       Code = "INVALID_MODE"
)

// Category groups codes by how the transport layer handles them.
type Category int

const (
	// CategoryInternal marks unexpected faults that surface a generic message.
	CategoryInternal Category = iota
	// CategoryNotFound marks lookups that missed.
	CategoryNotFound
	// CategoryFull marks rooms at player capacity.
	CategoryFull
	// CategoryForbidden marks operations disallowed by mode or cell state.
	// The dispatcher ignores these silently, like a click on a given cell.
	CategoryForbidden
	// CategoryInvalid marks malformed input.
	CategoryInvalid
)

// Category maps domain codes to transport handling categories.
func (c Code) Category() Category {
	switch c {
	case CodeRoomNotFound, CodePlayerNotInRoom:
		return CategoryNotFound

	case CodeRoomFull:
		return CategoryFull

	case CodeGameComplete,
		CodePlayerFinished,
		CodeCellGiven,
		CodeCellFilled,
		CodeModeDisallowsOp,
		CodeNothingToUndo:
		return CategoryForbidden

	case CodePlayerNameEmpty,
		CodeCellOutOfRange,
		CodeDigitOutOfRange,
		CodeInvalidDifficulty,
		CodeInvalidMode:
		return CategoryInvalid

	default:
		return CategoryInternal
	}
}
