// Package audit records operational game events to the audit log. Emission
// is best effort: a failing or absent store never blocks gameplay.
package audit

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/sudokulab/arena/internal/storage"
)

// Event names recorded to the audit log.
const (
	EventRoomCreated   = "room_created"
	EventPlayerJoined  = "player_joined"
	EventPlayerLeft    = "player_left"
	EventRoomEvicted   = "room_evicted"
	EventGameCompleted = "game_completed"
)

// Emitter writes audit events.
type Emitter struct {
	store storage.AuditEventStore
	now   func() time.Time
}

// NewEmitter builds an emitter. A nil store disables emission.
func NewEmitter(store storage.AuditEventStore) *Emitter {
	return &Emitter{store: store, now: time.Now}
}

// Emit records one event. Failures are logged, not returned.
func (e *Emitter) Emit(ctx context.Context, event, roomID, playerID, detail string) {
	if e == nil || e.store == nil {
		return
	}
	record := storage.AuditEvent{
		OccurredAt: e.now().UTC(),
		Event:      event,
		RoomID:     roomID,
		PlayerID:   playerID,
		Detail:     detail,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.TraceID = sc.TraceID().String()
		record.SpanID = sc.SpanID().String()
	}
	if err := e.store.AppendAuditEvent(ctx, record); err != nil {
		log.Printf("audit: append %s event: %v", event, err)
	}
}
