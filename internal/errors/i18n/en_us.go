package i18n

import "golang.org/x/text/language"

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown           = "UNKNOWN"
	CodeRoomNotFound      = "ROOM_NOT_FOUND"
	CodeRoomFull          = "ROOM_FULL"
	CodeGameComplete      = "GAME_COMPLETE"
	CodePlayerNameEmpty   = "PLAYER_NAME_EMPTY"
	CodePlayerNotInRoom   = "PLAYER_NOT_IN_ROOM"
	CodePlayerFinished    = "PLAYER_FINISHED"
	CodeCellOutOfRange    = "CELL_OUT_OF_RANGE"
	CodeDigitOutOfRange   = "DIGIT_OUT_OF_RANGE"
	CodeCellGiven         = "CELL_GIVEN"
	CodeCellFilled        = "CELL_FILLED"
	CodeModeDisallowsOp   = "MODE_DISALLOWS_OPERATION"
	CodeNothingToUndo     = "NOTHING_TO_UNDO"
	CodeInvalidDifficulty = "INVALID_DIFFICULTY"
	CodeInvalidMode       = "INVALID_MODE"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	tag:    language.AmericanEnglish,
	messages: map[Code]string{
		CodeUnknown: "Something went wrong",

		// The client shows one message for both failure modes so a join
		// attempt does not reveal whether a room code exists.
		CodeRoomNotFound: "Room not found or full",
		CodeRoomFull:     "Room not found or full",

		CodeGameComplete:    "The puzzle is already complete",
		CodePlayerNameEmpty: "Player name cannot be empty",
		CodePlayerNotInRoom: "You are not in a room",
		CodePlayerFinished:  "You already finished your board",

		CodeCellOutOfRange:  "Cell position is out of range",
		CodeDigitOutOfRange: "Digit must be between 1 and 9",
		CodeCellGiven:       "That cell is part of the puzzle",
		CodeCellFilled:      "That cell is already filled",
		CodeModeDisallowsOp: "{{.Operation}} is not available in {{.Mode}} mode",
		CodeNothingToUndo:   "No moves of yours to undo",

		CodeInvalidDifficulty: "Unknown difficulty",
		CodeInvalidMode:       "Unknown game mode",
	},
}
