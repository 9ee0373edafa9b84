// Package storage defines the persistence interfaces the service depends on.
// Implementations live in subpackages.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidArgument indicates a malformed record or query.
var ErrInvalidArgument = errors.New("invalid argument")

// AuditEvent is one operational record: a room was created, a player joined,
// a game completed. Events describe what happened, never board contents.
// TraceID and SpanID tie the record to the trace of the operation that
// produced it; both are empty when no span was recording.
type AuditEvent struct {
	ID         int64
	OccurredAt time.Time
	Event      string
	RoomID     string
	PlayerID   string
	Detail     string
	TraceID    string
	SpanID     string
}

// AuditEventStore appends and reads the operational audit log.
type AuditEventStore interface {
	AppendAuditEvent(ctx context.Context, event AuditEvent) error
	ListAuditEvents(ctx context.Context, roomID string, limit int) ([]AuditEvent, error)
}
