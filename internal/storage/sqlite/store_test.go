package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sudokulab/arena/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestAppendAndListAuditEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	events := []storage.AuditEvent{
		{OccurredAt: base, Event: "room_created", RoomID: "ABC123", PlayerID: "alice", Detail: "coop/easy"},
		{OccurredAt: base.Add(time.Minute), Event: "player_joined", RoomID: "ABC123", PlayerID: "bob"},
		{OccurredAt: base.Add(2 * time.Minute), Event: "room_created", RoomID: "XYZ789", PlayerID: "carol"},
	}
	for _, event := range events {
		if err := store.AppendAuditEvent(ctx, event); err != nil {
			t.Fatalf("append %s: %v", event.Event, err)
		}
	}

	got, err := store.ListAuditEvents(ctx, "ABC123", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events for ABC123, got %d", len(got))
	}
	if got[0].Event != "player_joined" || got[1].Event != "room_created" {
		t.Fatalf("expected newest first, got %s then %s", got[0].Event, got[1].Event)
	}
	if !got[1].OccurredAt.Equal(base) {
		t.Fatalf("expected occurred_at %v, got %v", base, got[1].OccurredAt)
	}
	if got[1].Detail != "coop/easy" {
		t.Fatalf("unexpected detail %q", got[1].Detail)
	}
}

func TestAuditEventTraceFieldsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := storage.AuditEvent{
		OccurredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Event:      "game_completed",
		RoomID:     "ABC123",
		PlayerID:   "alice",
		TraceID:    "0102030405060708090a0b0c0d0e0f10",
		SpanID:     "1112131415161718",
	}
	if err := store.AppendAuditEvent(ctx, event); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := store.ListAuditEvents(ctx, "ABC123", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].TraceID != event.TraceID || got[0].SpanID != event.SpanID {
		t.Fatalf("trace fields did not round trip: %q/%q", got[0].TraceID, got[0].SpanID)
	}
}

func TestListAuditEventsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		event := storage.AuditEvent{
			OccurredAt: time.Date(2026, 8, 1, 12, i, 0, 0, time.UTC),
			Event:      "move_made",
			RoomID:     "ABC123",
			PlayerID:   "alice",
		}
		if err := store.AppendAuditEvent(ctx, event); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.ListAuditEvents(ctx, "ABC123", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
}

func TestAppendAuditEventRequiresName(t *testing.T) {
	store := newTestStore(t)

	err := store.AppendAuditEvent(context.Background(), storage.AuditEvent{RoomID: "ABC123"})
	if !errors.Is(err, storage.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
