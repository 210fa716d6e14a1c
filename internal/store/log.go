// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createLogEvent = `
INSERT INTO event_log (level, category, message, metadata, created_at)
VALUES (?, ?, ?, ?, ?)`

// CreateLogEventParams holds one application event for the audit trail.
type CreateLogEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateLogEvent appends an entry to the event log.
func (q *Queries) CreateLogEvent(ctx context.Context, arg CreateLogEventParams) error {
	_, err := q.db.ExecContext(ctx, createLogEvent,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt)
	return err
}

const deleteLogEventsBefore = `
DELETE FROM event_log WHERE created_at < ?`

// DeleteLogEventsBefore prunes log entries older than the cutoff and
// returns how many rows were removed.
func (q *Queries) DeleteLogEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteLogEventsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listRecentLogEvents = `
SELECT id, level, category, message, metadata, created_at
FROM event_log
ORDER BY created_at DESC, id DESC
LIMIT ?`

// ListRecentLogEvents returns the newest log entries, newest first.
func (q *Queries) ListRecentLogEvents(ctx context.Context, limit int64) ([]LogEvent, error) {
	rows, err := q.db.QueryContext(ctx, listRecentLogEvents, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []LogEvent
	for rows.Next() {
		var e LogEvent
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
