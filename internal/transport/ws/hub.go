// Package ws exposes gameplay over a websocket event protocol. Each message
// is a JSON envelope with an event name and payload; room state reaches
// clients as per-viewer projections that never include the solution.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/sudokulab/arena/internal/errors"
	"github.com/sudokulab/arena/internal/game/domain"
	"github.com/sudokulab/arena/internal/game/service"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	// sendBuffer bounds queued outbound messages per client; slow readers
	// past the buffer are disconnected.
	sendBuffer = 32
)

// Hub accepts websocket connections and routes game events between clients
// and the game service.
type Hub struct {
	service *service.Service
	origins []string

	mu      sync.Mutex
	clients map[string]*client            // player id -> connection
	rooms   map[string]map[string]*client // room id -> player id -> connection
}

// NewHub builds a hub. origins lists the allowed websocket origin patterns;
// empty means same-origin only.
func NewHub(svc *service.Service, origins []string) *Hub {
	return &Hub{
		service: svc,
		origins: origins,
		clients: make(map[string]*client),
		rooms:   make(map[string]map[string]*client),
	}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu       sync.Mutex
	playerID string
	roomID   string
}

func (c *client) identity() (playerID, roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID, c.roomID
}

func (c *client) setIdentity(playerID, roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.roomID = roomID
}

// ServeHTTP upgrades the request and runs the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		log.Printf("ws: accept: %v", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go c.writeLoop(ctx)
	h.readLoop(ctx, c)

	h.disconnect(c)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			c.sendError(errors.New(errors.CodeUnknown, "malformed envelope"))
			continue
		}
		if err := h.dispatch(ctx, c, envelope); err != nil {
			c.sendError(err)
		}
	}
}

func (c *client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// dispatch routes one inbound envelope. Returned errors are sent to the
// client as error events; forbidden attempts are swallowed the way a UI
// ignores a click on a given cell.
func (h *Hub) dispatch(ctx context.Context, c *client, envelope Envelope) error {
	switch envelope.Event {
	case EventCreateRoom:
		return h.handleCreateRoom(ctx, c, envelope.Data)
	case EventJoinRoom:
		return h.handleJoinRoom(ctx, c, envelope.Data)
	case EventMakeMove:
		return h.handleMakeMove(ctx, c, envelope.Data)
	case EventToggleNote:
		return h.handleToggleNote(ctx, c, envelope.Data)
	case EventUseHint:
		return h.handleUseHint(ctx, c, envelope.Data)
	case EventUndo:
		return h.handleUndo(ctx, c)
	case EventSendMessage:
		return h.handleChat(c, envelope.Data)
	case EventUpdateCursor:
		return h.handleCursor(c, envelope.Data)
	default:
		return errors.New(errors.CodeUnknown, fmt.Sprintf("unknown event %q", envelope.Event))
	}
}

func (h *Hub) handleCreateRoom(ctx context.Context, c *client, data json.RawMessage) error {
	var req CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.Wrap(errors.CodeUnknown, "decode createRoom", err)
	}
	playerID, room, err := h.service.CreateRoom(ctx, req.Name, req.Mode, req.Difficulty)
	if err != nil {
		return err
	}

	h.register(c, playerID, room.ID)
	c.sendEvent(EventRoomCreated, RoomCreatedPayload{
		PlayerID: playerID,
		Room:     projectRoom(room, playerID),
	})
	return nil
}

func (h *Hub) handleJoinRoom(ctx context.Context, c *client, data json.RawMessage) error {
	var req JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.Wrap(errors.CodeUnknown, "decode joinRoom", err)
	}
	playerID, room, err := h.service.JoinRoom(ctx, req.RoomID, req.Name)
	if err != nil {
		return err
	}

	h.register(c, playerID, room.ID)
	c.sendEvent(EventRoomJoined, RoomJoinedPayload{
		PlayerID: playerID,
		Room:     projectRoom(room, playerID),
	})
	h.broadcastRoom(room, playerID)
	return nil
}

func (h *Hub) handleMakeMove(ctx context.Context, c *client, data json.RawMessage) error {
	var req MoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.Wrap(errors.CodeUnknown, "decode makeMove", err)
	}
	playerID, _ := c.identity()
	outcome, room, err := h.service.MakeMove(ctx, playerID, req.Row, req.Col, req.Value)
	if err != nil {
		return suppressForbidden(err)
	}

	if !outcome.Applied && outcome.Penalty > 0 {
		c.sendEvent(EventWrongMove, WrongMovePayload{
			Row:     req.Row,
			Col:     req.Col,
			Penalty: outcome.Penalty,
		})
	}
	h.broadcastRoom(room, "")
	if outcome.Completed {
		h.broadcast(room.ID, EventGameWon, GameWonPayload{Players: finalScores(room)})
	}
	return nil
}

func (h *Hub) handleToggleNote(ctx context.Context, c *client, data json.RawMessage) error {
	var req NoteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.Wrap(errors.CodeUnknown, "decode toggleNote", err)
	}
	playerID, _ := c.identity()
	room, err := h.service.ToggleNote(ctx, playerID, req.Row, req.Col, req.Digit)
	if err != nil {
		return suppressForbidden(err)
	}
	h.broadcastRoom(room, "")
	return nil
}

func (h *Hub) handleUseHint(ctx context.Context, c *client, data json.RawMessage) error {
	var req HintRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.Wrap(errors.CodeUnknown, "decode useHint", err)
	}
	playerID, _ := c.identity()
	outcome, room, err := h.service.UseHint(ctx, playerID, req.Row, req.Col)
	if err != nil {
		return suppressForbidden(err)
	}
	h.broadcastRoom(room, "")
	if outcome.Completed {
		h.broadcast(room.ID, EventGameWon, GameWonPayload{Players: finalScores(room)})
	}
	return nil
}

func (h *Hub) handleUndo(ctx context.Context, c *client) error {
	playerID, _ := c.identity()
	room, err := h.service.Undo(ctx, playerID)
	if err != nil {
		return suppressForbidden(err)
	}
	h.broadcastRoom(room, "")
	return nil
}

func (h *Hub) handleChat(c *client, data json.RawMessage) error {
	var req ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.Wrap(errors.CodeUnknown, "decode sendMessage", err)
	}
	playerID, roomID := c.identity()
	if roomID == "" {
		return errors.New(errors.CodePlayerNotInRoom, "chat outside a room")
	}
	room, err := h.service.Room(playerID)
	if err != nil {
		return err
	}
	sender, ok := room.Player(playerID)
	if !ok {
		return errors.New(errors.CodePlayerNotInRoom, "chat sender not seated")
	}

	h.broadcast(roomID, EventMessageReceived, ChatPayload{
		PlayerID:  playerID,
		Name:      sender.Name,
		Color:     sender.Color,
		Text:      req.Text,
		Timestamp: time.Now().UnixMilli(),
	})
	return nil
}

// handleCursor relays cell selection to the rest of the room. Versus players
// work on private boards, so cursor traffic is dropped there.
func (h *Hub) handleCursor(c *client, data json.RawMessage) error {
	var req CursorRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.Wrap(errors.CodeUnknown, "decode updateCursor", err)
	}
	playerID, roomID := c.identity()
	if roomID == "" {
		return nil
	}
	room, err := h.service.Room(playerID)
	if err != nil {
		return nil
	}
	if room.Mode == domain.ModeVersus {
		return nil
	}
	sender, ok := room.Player(playerID)
	if !ok {
		return nil
	}

	h.broadcastExcept(roomID, playerID, EventCursorUpdated, CursorPayload{
		PlayerID: playerID,
		Color:    sender.Color,
		Row:      req.Row,
		Col:      req.Col,
	})
	return nil
}

// register records the client's seat and room membership. A client that was
// already seated leaves its previous game first so no stale seat keeps
// receiving broadcasts.
func (h *Hub) register(c *client, playerID, roomID string) {
	h.releaseSeat(c)
	c.setIdentity(playerID, roomID)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[playerID] = c
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]*client)
		h.rooms[roomID] = members
	}
	members[playerID] = c
}

// disconnect tears the client down and removes the player from their game.
func (h *Hub) disconnect(c *client) {
	h.releaseSeat(c)
	close(c.send)
}

// releaseSeat drops the client's current seat, if any, and removes the
// player from their game, notifying the remaining room members.
func (h *Hub) releaseSeat(c *client) {
	playerID, roomID := c.identity()
	if playerID == "" {
		return
	}
	c.setIdentity("", "")

	h.mu.Lock()
	delete(h.clients, playerID)
	if members, ok := h.rooms[roomID]; ok {
		delete(members, playerID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	_, room, completed, err := h.service.Leave(context.Background(), playerID)
	if err != nil {
		if errors.GetCode(err) != errors.CodePlayerNotInRoom {
			log.Printf("ws: leave: %v", err)
		}
		return
	}
	if room == nil {
		return
	}
	h.broadcastRoom(room, "")
	// The departing player may have been the last one still racing.
	if completed {
		h.broadcast(room.ID, EventGameWon, GameWonPayload{Players: finalScores(room)})
	}
}

// broadcastRoom sends each connected member their own projection of the room.
// exceptID skips one player, typically the one who just got a direct reply.
func (h *Hub) broadcastRoom(room *domain.Room, exceptID string) {
	h.mu.Lock()
	members := make(map[string]*client, len(h.rooms[room.ID]))
	for playerID, member := range h.rooms[room.ID] {
		members[playerID] = member
	}
	h.mu.Unlock()

	for playerID, member := range members {
		if playerID == exceptID {
			continue
		}
		member.sendEvent(EventRoomUpdated, RoomUpdatedPayload{Room: projectRoom(room, playerID)})
	}
}

// broadcast sends the same payload to every member of the room.
func (h *Hub) broadcast(roomID, event string, payload any) {
	h.broadcastExcept(roomID, "", event, payload)
}

func (h *Hub) broadcastExcept(roomID, exceptID, event string, payload any) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("ws: marshal %s: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for playerID, member := range h.rooms[roomID] {
		if playerID == exceptID {
			continue
		}
		member.enqueue(msg)
	}
}

func (c *client) sendEvent(event string, payload any) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("ws: marshal %s: %v", event, err)
		return
	}
	c.enqueue(msg)
}

func (c *client) sendError(err error) {
	c.sendEvent(EventError, ErrorPayload{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err, ""),
	})
}

// enqueue drops the message when the client's buffer is full rather than
// blocking the hub.
func (c *client) enqueue(msg []byte) {
	defer func() {
		// The send channel closes on disconnect; a racing broadcast is
		// harmless.
		_ = recover()
	}()
	select {
	case c.send <- msg:
	default:
		log.Printf("ws: dropping message to slow client")
	}
}

// suppressForbidden swallows errors the UI treats as no-ops.
func suppressForbidden(err error) error {
	if errors.GetCategory(err) == errors.CategoryForbidden {
		return nil
	}
	return err
}
