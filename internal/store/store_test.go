// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for tests
)

// newTestDB opens an in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	// A fresh connection would see an empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestEvent(t *testing.T, q *Queries, title, category string) Event {
	t.Helper()

	event, err := q.CreateEvent(context.Background(), CreateEventParams{
		Title:       title,
		Slug:        fmt.Sprintf("%s-%d", title, time.Now().UnixNano()),
		Description: "description",
		DateTime:    "2026-10-01 19:00",
		Location:    "Community Hall",
		Category:    category,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)

	// A second run must be a no-op, not an error.
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestUpgradeLegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	// Schema as an earlier deployment would have left it: no category,
	// view_count, image_data or slug on events.
	_, err = db.Exec(`CREATE TABLE events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date_time TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		is_published BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO events (title) VALUES ('Қалалық жәрмеңке')`); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate legacy store: %v", err)
	}

	q := New(db)
	events, err := q.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	got := events[0]
	if got.Category != DefaultEventCategory {
		t.Errorf("category = %q, want %q", got.Category, DefaultEventCategory)
	}
	if got.ViewCount != 0 {
		t.Errorf("view_count = %d, want 0", got.ViewCount)
	}
	if got.Slug == "" {
		t.Error("slug not backfilled")
	}
}

func TestEventViewCount(t *testing.T) {
	db := newTestDB(t)
	q := New(db)
	ctx := context.Background()

	event := newTestEvent(t, q, "Concert", "Music")

	for i := 0; i < 3; i++ {
		if err := q.IncrementEventViewCount(ctx, event.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	got, err := q.GetEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.ViewCount != 3 {
		t.Errorf("view_count = %d, want 3", got.ViewCount)
	}

	// Unknown ids are a silent no-op.
	if err := q.IncrementEventViewCount(ctx, 99999); err != nil {
		t.Errorf("increment unknown id: %v", err)
	}
}

func TestListEventsByCategory(t *testing.T) {
	db := newTestDB(t)
	q := New(db)
	ctx := context.Background()

	newTestEvent(t, q, "Concert", "Music")
	newTestEvent(t, q, "Marathon", "Sport")
	newTestEvent(t, q, "Jazz Night", "Music")

	tests := []struct {
		category string
		want     int
	}{
		{"Music", 2},
		{"Sport", 1},
		{"Theatre", 0},
	}
	for _, tt := range tests {
		events, err := q.ListEventsByCategory(ctx, tt.category)
		if err != nil {
			t.Fatalf("list by category %q: %v", tt.category, err)
		}
		if len(events) != tt.want {
			t.Errorf("category %q: got %d events, want %d", tt.category, len(events), tt.want)
		}
	}
}

func TestUnpublishedEventsHidden(t *testing.T) {
	db := newTestDB(t)
	q := New(db)
	ctx := context.Background()

	visible := newTestEvent(t, q, "Visible", "Music")
	res, err := db.Exec(`INSERT INTO events (title, slug, description, date_time, location, category, is_published, created_at)
		VALUES ('Hidden', 'hidden', 'd', '2026-10-01 19:00', 'Hall', 'Music', FALSE, CURRENT_TIMESTAMP)`)
	if err != nil {
		t.Fatalf("insert unpublished event: %v", err)
	}
	hiddenID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}

	events, err := q.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].ID != visible.ID {
		t.Fatalf("unpublished event leaked into listing: %+v", events)
	}

	if _, err := q.GetEvent(ctx, hiddenID); err != sql.ErrNoRows {
		t.Errorf("get unpublished event: err = %v, want sql.ErrNoRows", err)
	}
}

func TestRegistrationIdempotent(t *testing.T) {
	db := newTestDB(t)
	q := New(db)
	ctx := context.Background()

	event := newTestEvent(t, q, "Workshop", "Education")
	arg := CreateRegistrationParams{
		EventID:   event.ID,
		SessionID: "session-a",
		CreatedAt: time.Now().UTC(),
	}

	for i := 0; i < 2; i++ {
		if err := q.CreateRegistration(ctx, arg); err != nil {
			t.Fatalf("register attempt %d: %v", i+1, err)
		}
	}

	n, err := q.CountRegistrationsForEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("count registrations: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d registrations, want 1", n)
	}

	registered, err := q.IsRegistered(ctx, IsRegisteredParams{EventID: event.ID, SessionID: "session-a"})
	if err != nil {
		t.Fatalf("is registered: %v", err)
	}
	if !registered {
		t.Error("IsRegistered = false after registration")
	}

	registered, err = q.IsRegistered(ctx, IsRegisteredParams{EventID: event.ID, SessionID: "session-b"})
	if err != nil {
		t.Fatalf("is registered: %v", err)
	}
	if registered {
		t.Error("IsRegistered = true for a session that never registered")
	}
}

func TestTopCategoriesForSession(t *testing.T) {
	db := newTestDB(t)
	q := New(db)
	ctx := context.Background()

	record := func(sessionID, category string) {
		t.Helper()
		_, err := q.CreateInteraction(ctx, CreateInteractionParams{
			SessionID:       sessionID,
			ItemType:        ItemTypeEvent,
			ItemID:          1,
			InteractionType: InteractionView,
			Category:        sql.NullString{String: category, Valid: true},
			CreatedAt:       time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("create interaction: %v", err)
		}
	}

	for i := 0; i < 4; i++ {
		record("s1", "Music")
	}
	for i := 0; i < 3; i++ {
		record("s1", "Sport")
	}
	for i := 0; i < 2; i++ {
		record("s1", "Education")
	}
	record("s1", "Theatre")
	record("s2", "Food")

	got, err := q.TopCategoriesForSession(ctx, TopCategoriesForSessionParams{SessionID: "s1", Limit: 3})
	if err != nil {
		t.Fatalf("top categories: %v", err)
	}
	want := []string{"Music", "Sport", "Education"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTrendingEvents(t *testing.T) {
	db := newTestDB(t)
	q := New(db)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		event := newTestEvent(t, q, fmt.Sprintf("Event %d", i), "Music")
		for j := 0; j <= i; j++ {
			if err := q.IncrementEventViewCount(ctx, event.ID); err != nil {
				t.Fatalf("increment: %v", err)
			}
		}
	}

	top, err := q.TopEventsByViews(ctx, 6)
	if err != nil {
		t.Fatalf("top events: %v", err)
	}
	if len(top) != 6 {
		t.Fatalf("got %d events, want 6", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].ViewCount > top[i-1].ViewCount {
			t.Errorf("results not ordered by views: %d before %d", top[i-1].ViewCount, top[i].ViewCount)
		}
	}
}

func TestDeleteInteractionsBefore(t *testing.T) {
	db := newTestDB(t)
	q := New(db)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, age := range []time.Duration{0, 24 * time.Hour, 48 * time.Hour} {
		_, err := q.CreateInteraction(ctx, CreateInteractionParams{
			SessionID:       "s1",
			ItemType:        ItemTypeEvent,
			ItemID:          1,
			InteractionType: InteractionView,
			CreatedAt:       now.Add(-age),
		})
		if err != nil {
			t.Fatalf("create interaction: %v", err)
		}
	}

	deleted, err := q.DeleteInteractionsBefore(ctx, now.Add(-36*time.Hour))
	if err != nil {
		t.Fatalf("delete interactions: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted %d rows, want 1", deleted)
	}

	remaining, err := q.CountInteractionsForSession(ctx, "s1")
	if err != nil {
		t.Fatalf("count interactions: %v", err)
	}
	if remaining != 2 {
		t.Errorf("remaining = %d, want 2", remaining)
	}
}
