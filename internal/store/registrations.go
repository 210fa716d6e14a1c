// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createRegistration = `
INSERT OR IGNORE INTO event_registrations (event_id, session_id, created_at)
VALUES (?, ?, ?)`

// CreateRegistrationParams identifies the (event, session) pair to register.
type CreateRegistrationParams struct {
	EventID   int64
	SessionID string
	CreatedAt time.Time
}

// CreateRegistration records that a session registered for an event.
// Registering twice is a no-op success: the unique (event_id, session_id)
// pair absorbs the duplicate insert.
func (q *Queries) CreateRegistration(ctx context.Context, arg CreateRegistrationParams) error {
	_, err := q.db.ExecContext(ctx, createRegistration, arg.EventID, arg.SessionID, arg.CreatedAt)
	return err
}

const isRegistered = `
SELECT EXISTS(
    SELECT 1 FROM event_registrations WHERE event_id = ? AND session_id = ?
)`

// IsRegisteredParams identifies the pair to look up.
type IsRegisteredParams struct {
	EventID   int64
	SessionID string
}

// IsRegistered reports whether the session has registered for the event.
func (q *Queries) IsRegistered(ctx context.Context, arg IsRegisteredParams) (bool, error) {
	var registered bool
	err := q.db.QueryRowContext(ctx, isRegistered, arg.EventID, arg.SessionID).Scan(&registered)
	return registered, err
}

const countRegistrationsForEvent = `
SELECT COUNT(*) FROM event_registrations WHERE event_id = ?`

// CountRegistrationsForEvent returns how many sessions registered for an event.
func (q *Queries) CountRegistrationsForEvent(ctx context.Context, eventID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countRegistrationsForEvent, eventID).Scan(&n)
	return n, err
}

// RegisteredEventIDs returns the subset of the given event ids that the
// session has registered for. Listing endpoints use it to mark
// is_registered without a per-row query.
func (q *Queries) RegisteredEventIDs(ctx context.Context, sessionID string) (map[int64]bool, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT event_id FROM event_registrations WHERE session_id = ?", sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
