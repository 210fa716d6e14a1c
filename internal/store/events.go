// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const eventColumns = `id, title, slug, description, date_time, location, category, image_data, is_published, view_count, created_at`

func scanEvent(row interface{ Scan(...any) error }) (Event, error) {
	var e Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Slug,
		&e.Description,
		&e.DateTime,
		&e.Location,
		&e.Category,
		&e.ImageData,
		&e.IsPublished,
		&e.ViewCount,
		&e.CreatedAt,
	)
	return e, err
}

func collectEvents(rows *sql.Rows) ([]Event, error) {
	defer func() { _ = rows.Close() }()
	var items []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const createEvent = `
INSERT INTO events (title, slug, description, date_time, location, category, image_data, is_published, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, ?)
RETURNING ` + eventColumns

// CreateEventParams holds the fields for a new event. Items are published
// unconditionally on creation; there is no draft state.
type CreateEventParams struct {
	Title       string
	Slug        string
	Description string
	DateTime    string
	Location    string
	Category    string
	ImageData   sql.NullString
	CreatedAt   time.Time
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.DateTime,
		arg.Location,
		arg.Category,
		arg.ImageData,
		arg.CreatedAt,
	)
	return scanEvent(row)
}

const listEvents = `
SELECT ` + eventColumns + `
FROM events
WHERE is_published = TRUE
ORDER BY date_time ASC`

// ListEvents returns all published events, soonest first.
func (q *Queries) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

const listEventsByCategory = `
SELECT ` + eventColumns + `
FROM events
WHERE is_published = TRUE AND category = ?
ORDER BY date_time ASC`

// ListEventsByCategory returns published events in one category, soonest first.
func (q *Queries) ListEventsByCategory(ctx context.Context, category string) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEventsByCategory, category)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

const getEvent = `
SELECT ` + eventColumns + `
FROM events
WHERE id = ? AND is_published = TRUE`

// GetEvent returns one published event by id.
func (q *Queries) GetEvent(ctx context.Context, id int64) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, getEvent, id))
}

const getEventBySlug = `
SELECT ` + eventColumns + `
FROM events
WHERE slug = ? AND is_published = TRUE`

// GetEventBySlug returns one published event by its URL slug.
func (q *Queries) GetEventBySlug(ctx context.Context, slug string) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, getEventBySlug, slug))
}

const incrementEventViewCount = `UPDATE events SET view_count = view_count + 1 WHERE id = ?`

// IncrementEventViewCount bumps the view counter for one event. A missing
// id affects zero rows and is not an error.
func (q *Queries) IncrementEventViewCount(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, incrementEventViewCount, id)
	return err
}

const topEventsByViews = `
SELECT ` + eventColumns + `
FROM events
WHERE is_published = TRUE
ORDER BY view_count DESC
LIMIT ?`

// TopEventsByViews returns the most viewed published events.
func (q *Queries) TopEventsByViews(ctx context.Context, limit int64) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, topEventsByViews, limit)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// TopEventsByViewsInCategories returns the most viewed published events
// restricted to the given categories. The IN clause is expanded by hand
// because the category list length is only known at runtime.
func (q *Queries) TopEventsByViewsInCategories(ctx context.Context, categories []string, limit int64) ([]Event, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(categories)), ",")
	query := `
SELECT ` + eventColumns + `
FROM events
WHERE is_published = TRUE AND category IN (` + placeholders + `)
ORDER BY view_count DESC
LIMIT ?`
	args := make([]any, 0, len(categories)+1)
	for _, c := range categories {
		args = append(args, c)
	}
	args = append(args, limit)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

const listEventCategories = `
SELECT DISTINCT category
FROM events
WHERE is_published = TRUE
ORDER BY category`

// ListEventCategories returns the distinct categories among published events.
func (q *Queries) ListEventCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listEventCategories)
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
