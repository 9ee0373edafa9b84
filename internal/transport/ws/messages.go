package ws

import "encoding/json"

// Envelope frames every message in both directions: an event name and an
// event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client-to-server events.
const (
	EventCreateRoom   = "createRoom"
	EventJoinRoom     = "joinRoom"
	EventMakeMove     = "makeMove"
	EventToggleNote   = "toggleNote"
	EventUseHint      = "useHint"
	EventUndo         = "undo"
	EventSendMessage  = "sendMessage"
	EventUpdateCursor = "updateCursor"
)

// Server-to-client events.
const (
	EventRoomCreated     = "roomCreated"
	EventRoomJoined      = "roomJoined"
	EventRoomUpdated     = "roomUpdated"
	EventWrongMove       = "wrongMove"
	EventGameWon         = "gameWon"
	EventMessageReceived = "messageReceived"
	EventCursorUpdated   = "cursorUpdated"
	EventError           = "error"
)

// CreateRoomRequest starts a new room with the sender as first player.
type CreateRoomRequest struct {
	Name       string `json:"name"`
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
}

// JoinRoomRequest seats the sender in an existing room by its code.
type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// MoveRequest places a digit, or clears the cell when Value is zero.
type MoveRequest struct {
	Row   int   `json:"row"`
	Col   int   `json:"col"`
	Value uint8 `json:"value"`
}

// NoteRequest toggles a pencil-mark digit.
type NoteRequest struct {
	Row   int   `json:"row"`
	Col   int   `json:"col"`
	Digit uint8 `json:"digit"`
}

// HintRequest reveals the digit at a cell.
type HintRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ChatRequest sends a chat line to the room.
type ChatRequest struct {
	Text string `json:"text"`
}

// CursorRequest reports the sender's selected cell.
type CursorRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// RoomCreatedPayload answers a createRoom request.
type RoomCreatedPayload struct {
	PlayerID string   `json:"playerId"`
	Room     RoomView `json:"room"`
}

// RoomJoinedPayload answers a joinRoom request.
type RoomJoinedPayload struct {
	PlayerID string   `json:"playerId"`
	Room     RoomView `json:"room"`
}

// RoomUpdatedPayload carries the viewer's projection after any state change.
type RoomUpdatedPayload struct {
	Room RoomView `json:"room"`
}

// WrongMovePayload tells the acting player their guess missed.
type WrongMovePayload struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	Penalty int `json:"penalty"`
}

// FinalScore is one row of the gameWon scoreboard.
type FinalScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// GameWonPayload announces completion with scores in descending order.
type GameWonPayload struct {
	Players []FinalScore `json:"players"`
}

// ChatPayload broadcasts a chat line.
type ChatPayload struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// CursorPayload broadcasts a player's selected cell.
type CursorPayload struct {
	PlayerID string `json:"playerId"`
	Color    string `json:"color"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

// ErrorPayload reports a failed request.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
