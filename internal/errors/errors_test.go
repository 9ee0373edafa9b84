package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeRoomFull, "room has four players")
	wrapped := fmt.Errorf("join: %w", err)

	if !stderrors.Is(wrapped, New(CodeRoomFull, "")) {
		t.Fatal("expected wrapped error to match by code")
	}
	if stderrors.Is(wrapped, New(CodeRoomNotFound, "")) {
		t.Fatal("expected mismatched code to not match")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(CodeUnknown, "wrapping", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(CodeCellGiven, "given")); got != CodeCellGiven {
		t.Fatalf("expected CodeCellGiven, got %s", got)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected CodeUnknown for plain error, got %s", got)
	}
	if got := GetCode(fmt.Errorf("ctx: %w", New(CodeRoomNotFound, "missing"))); got != CodeRoomNotFound {
		t.Fatalf("expected code through wrapping, got %s", got)
	}
}

func TestCategoryMapping(t *testing.T) {
	cases := []struct {
		code Code
		want Category
	}{
		{CodeRoomNotFound, CategoryNotFound},
		{CodePlayerNotInRoom, CategoryNotFound},
		{CodeRoomFull, CategoryFull},
		{CodeGameComplete, CategoryForbidden},
		{CodeCellGiven, CategoryForbidden},
		{CodeCellFilled, CategoryForbidden},
		{CodePlayerFinished, CategoryForbidden},
		{CodeModeDisallowsOp, CategoryForbidden},
		{CodeNothingToUndo, CategoryForbidden},
		{CodeInvalidDifficulty, CategoryInvalid},
		{CodeInvalidMode, CategoryInvalid},
		{CodeCellOutOfRange, CategoryInvalid},
		{CodeUnknown, CategoryInternal},
	}
	for _, tc := range cases {
		if got := tc.code.Category(); got != tc.want {
			t.Fatalf("code %s: expected category %d, got %d", tc.code, tc.want, got)
		}
	}
}

func TestUserMessage(t *testing.T) {
	msg := UserMessage(New(CodeRoomNotFound, "no such room"), "")
	if msg != "Room not found or full" {
		t.Fatalf("unexpected message: %q", msg)
	}

	// Full rooms surface the same user-facing text as missing rooms.
	if got := UserMessage(New(CodeRoomFull, "room full"), "en-US"); got != msg {
		t.Fatalf("expected identical message for full rooms, got %q", got)
	}
}

func TestUserMessageTemplating(t *testing.T) {
	err := WithMetadata(CodeModeDisallowsOp, "hint in versus", map[string]string{
		"Operation": "Hint",
		"Mode":      "versus",
	})
	msg := UserMessage(err, "en-US")
	if msg != "Hint is not available in versus mode" {
		t.Fatalf("unexpected templated message: %q", msg)
	}
}

func TestUserMessageFallsBackForPlainErrors(t *testing.T) {
	msg := UserMessage(stderrors.New("boom"), "en-US")
	if msg != "Something went wrong" {
		t.Fatalf("unexpected fallback message: %q", msg)
	}
}

func TestUserMessageMatchesLooseLocales(t *testing.T) {
	// Any English variant should match the en-US catalog rather than the
	// generic fallback path.
	msg := UserMessage(New(CodeRoomNotFound, "no such room"), "en-GB")
	if msg != "Room not found or full" {
		t.Fatalf("unexpected message for en-GB: %q", msg)
	}
}
