// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createInteraction = `
INSERT INTO user_interactions (session_id, item_type, item_id, interaction_type, category, country, device, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, session_id, item_type, item_id, interaction_type, category, country, device, created_at`

// CreateInteractionParams holds the fields for one tracked interaction.
// item_id is deliberately not checked against the content tables.
type CreateInteractionParams struct {
	SessionID       string
	ItemType        string
	ItemID          int64
	InteractionType string
	Category        sql.NullString
	Country         sql.NullString
	Device          sql.NullString
	CreatedAt       time.Time
}

func (q *Queries) CreateInteraction(ctx context.Context, arg CreateInteractionParams) (UserInteraction, error) {
	row := q.db.QueryRowContext(ctx, createInteraction,
		arg.SessionID,
		arg.ItemType,
		arg.ItemID,
		arg.InteractionType,
		arg.Category,
		arg.Country,
		arg.Device,
		arg.CreatedAt,
	)
	var i UserInteraction
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.ItemType,
		&i.ItemID,
		&i.InteractionType,
		&i.Category,
		&i.Country,
		&i.Device,
		&i.CreatedAt,
	)
	return i, err
}

const topCategoriesForSession = `
SELECT category
FROM user_interactions
WHERE session_id = ? AND category IS NOT NULL
GROUP BY category
ORDER BY COUNT(*) DESC
LIMIT ?`

// TopCategoriesForSessionParams selects the aggregation window.
type TopCategoriesForSessionParams struct {
	SessionID string
	Limit     int64
}

// TopCategoriesForSession returns the session's most interacted-with
// categories, highest count first. Ties order arbitrarily.
func (q *Queries) TopCategoriesForSession(ctx context.Context, arg TopCategoriesForSessionParams) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, topCategoriesForSession, arg.SessionID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const countInteractionsForSession = `
SELECT COUNT(*) FROM user_interactions WHERE session_id = ?`

// CountInteractionsForSession returns how many interactions a session has recorded.
func (q *Queries) CountInteractionsForSession(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countInteractionsForSession, sessionID).Scan(&n)
	return n, err
}

const deleteInteractionsBefore = `
DELETE FROM user_interactions WHERE created_at < ?`

// DeleteInteractionsBefore removes interactions older than the cutoff and
// returns how many rows were deleted. Used by the retention job.
func (q *Queries) DeleteInteractionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteInteractionsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
