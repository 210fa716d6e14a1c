package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/olegiv/soyle-go/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "soyle-logging-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	})

	return db
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func logEvents(t *testing.T, db *sql.DB) []store.LogEvent {
	t.Helper()
	events, err := store.New(db).ListRecentLogEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentLogEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Handle_ErrorLevel(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Error("database connection failed", "host", "localhost", "port", 5432)

	events := logEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 log event, got %d", len(events))
	}
	if events[0].Level != LevelError {
		t.Errorf("Level = %q, want %q", events[0].Level, LevelError)
	}
	if events[0].Message != "database connection failed" {
		t.Errorf("Message = %q, want %q", events[0].Message, "database connection failed")
	}
}

func TestEventLogHandler_Handle_WarnLevel(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Warn("slow query detected", "duration_ms", 5000)

	events := logEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 log event, got %d", len(events))
	}
	if events[0].Level != LevelWarning {
		t.Errorf("Level = %q, want %q", events[0].Level, LevelWarning)
	}
}

func TestEventLogHandler_Handle_InfoNotLogged(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("server started", "addr", "localhost:8080")

	if events := logEvents(t, db); len(events) != 0 {
		t.Fatalf("expected no log events for INFO, got %d", len(events))
	}
}

func TestEventLogHandler_CategoryExtraction(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	tests := []struct {
		message  string
		attrs    []any
		category string
	}{
		{"something broke", []any{"category", "custom"}, "custom"},
		{"event submit rejected", nil, CategoryContent},
		{"interaction write failed", nil, CategoryTrack},
		{"cache backend unavailable", nil, CategoryCache},
		{"migration took too long", nil, CategoryStore},
		{"unexpected condition", nil, CategorySystem},
	}

	for _, tt := range tests {
		logger.Warn(tt.message, tt.attrs...)
	}

	events := logEvents(t, db)
	if len(events) != len(tests) {
		t.Fatalf("expected %d log events, got %d", len(tests), len(events))
	}

	// ListRecentLogEvents returns newest first.
	for i, tt := range tests {
		got := events[len(events)-1-i]
		if got.Category != tt.category {
			t.Errorf("%q: category = %q, want %q", tt.message, got.Category, tt.category)
		}
	}
}

func TestEventLogHandler_Metadata(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Error("request failed", "path", "/api/events", "status", 500)

	events := logEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 log event, got %d", len(events))
	}
	want := `{"path":"/api/events","status":"500"}`
	if events[0].Metadata != want {
		t.Errorf("Metadata = %q, want %q", events[0].Metadata, want)
	}
}
