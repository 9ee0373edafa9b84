package domain

import (
	"errors"
	"strings"
)

// Mode selects the ruleset governing a room.
type Mode int

const (
	// ModeUnspecified represents an invalid mode value.
	ModeUnspecified Mode = iota
	// ModeCoop shares one board between all players.
	ModeCoop
	// ModeVersus gives every player a private copy of the same puzzle.
	ModeVersus
)

// ErrUnknownMode indicates an unrecognized mode name.
var ErrUnknownMode = errors.New("unknown game mode")

// ParseMode maps a wire-format mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "coop":
		return ModeCoop, nil
	case "versus":
		return ModeVersus, nil
	default:
		return ModeUnspecified, ErrUnknownMode
	}
}

// String returns the wire-format mode name.
func (m Mode) String() string {
	switch m {
	case ModeCoop:
		return "coop"
	case ModeVersus:
		return "versus"
	default:
		return "unspecified"
	}
}
