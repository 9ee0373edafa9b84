// Package sqlite implements the storage interfaces on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sudokulab/arena/internal/platform/storage/sqlitemigrate"
	"github.com/sudokulab/arena/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a SQLite-backed storage.AuditEventStore.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies pending
// migrations. Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sub migrations fs: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(db, migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendAuditEvent writes one audit record.
func (s *Store) AppendAuditEvent(ctx context.Context, event storage.AuditEvent) error {
	if strings.TrimSpace(event.Event) == "" {
		return fmt.Errorf("%w: event name is required", storage.ErrInvalidArgument)
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO audit_events (occurred_at, event, room_id, player_id, detail, trace_id, span_id)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		occurredAt.UTC().UnixMilli(),
		event.Event,
		event.RoomID,
		event.PlayerID,
		event.Detail,
		event.TraceID,
		event.SpanID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns a room's events, newest first. A non-positive limit
// defaults to 100.
func (s *Store) ListAuditEvents(ctx context.Context, roomID string, limit int) ([]storage.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, occurred_at, event, room_id, player_id, detail, trace_id, span_id
FROM audit_events
WHERE room_id = ?
ORDER BY occurred_at DESC, id DESC
LIMIT ?`, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []storage.AuditEvent
	for rows.Next() {
		var event storage.AuditEvent
		var occurredAt int64
		if err := rows.Scan(&event.ID, &occurredAt, &event.Event, &event.RoomID, &event.PlayerID, &event.Detail, &event.TraceID, &event.SpanID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.OccurredAt = time.UnixMilli(occurredAt).UTC()
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
