// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const businessColumns = `id, name, category, description, contact_instagram, contact_whatsapp, logo_data, is_published, view_count, created_at`

func scanBusiness(row interface{ Scan(...any) error }) (Business, error) {
	var b Business
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Category,
		&b.Description,
		&b.ContactInstagram,
		&b.ContactWhatsapp,
		&b.LogoData,
		&b.IsPublished,
		&b.ViewCount,
		&b.CreatedAt,
	)
	return b, err
}

func collectBusinesses(rows *sql.Rows) ([]Business, error) {
	defer func() { _ = rows.Close() }()
	var items []Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

const createBusiness = `
INSERT INTO businesses (name, category, description, contact_instagram, contact_whatsapp, logo_data, is_published, created_at)
VALUES (?, ?, ?, ?, ?, ?, TRUE, ?)
RETURNING ` + businessColumns

// CreateBusinessParams holds the fields for a new business listing.
type CreateBusinessParams struct {
	Name             string
	Category         string
	Description      string
	ContactInstagram sql.NullString
	ContactWhatsapp  sql.NullString
	LogoData         sql.NullString
	CreatedAt        time.Time
}

func (q *Queries) CreateBusiness(ctx context.Context, arg CreateBusinessParams) (Business, error) {
	row := q.db.QueryRowContext(ctx, createBusiness,
		arg.Name,
		arg.Category,
		arg.Description,
		arg.ContactInstagram,
		arg.ContactWhatsapp,
		arg.LogoData,
		arg.CreatedAt,
	)
	return scanBusiness(row)
}

const listBusinesses = `
SELECT ` + businessColumns + `
FROM businesses
WHERE is_published = TRUE
ORDER BY created_at DESC`

// ListBusinesses returns all published businesses, newest first.
func (q *Queries) ListBusinesses(ctx context.Context) ([]Business, error) {
	rows, err := q.db.QueryContext(ctx, listBusinesses)
	if err != nil {
		return nil, err
	}
	return collectBusinesses(rows)
}

const listBusinessesByCategory = `
SELECT ` + businessColumns + `
FROM businesses
WHERE is_published = TRUE AND category = ?
ORDER BY created_at DESC`

// ListBusinessesByCategory returns published businesses in one category, newest first.
func (q *Queries) ListBusinessesByCategory(ctx context.Context, category string) ([]Business, error) {
	rows, err := q.db.QueryContext(ctx, listBusinessesByCategory, category)
	if err != nil {
		return nil, err
	}
	return collectBusinesses(rows)
}

const getBusiness = `
SELECT ` + businessColumns + `
FROM businesses
WHERE id = ? AND is_published = TRUE`

// GetBusiness returns one published business by id.
func (q *Queries) GetBusiness(ctx context.Context, id int64) (Business, error) {
	return scanBusiness(q.db.QueryRowContext(ctx, getBusiness, id))
}

const incrementBusinessViewCount = `UPDATE businesses SET view_count = view_count + 1 WHERE id = ?`

// IncrementBusinessViewCount bumps the view counter for one business.
// A missing id affects zero rows and is not an error.
func (q *Queries) IncrementBusinessViewCount(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, incrementBusinessViewCount, id)
	return err
}

const topBusinessesByViews = `
SELECT ` + businessColumns + `
FROM businesses
WHERE is_published = TRUE
ORDER BY view_count DESC
LIMIT ?`

// TopBusinessesByViews returns the most viewed published businesses.
func (q *Queries) TopBusinessesByViews(ctx context.Context, limit int64) ([]Business, error) {
	rows, err := q.db.QueryContext(ctx, topBusinessesByViews, limit)
	if err != nil {
		return nil, err
	}
	return collectBusinesses(rows)
}

// TopBusinessesByViewsInCategories returns the most viewed published
// businesses restricted to the given categories.
func (q *Queries) TopBusinessesByViewsInCategories(ctx context.Context, categories []string, limit int64) ([]Business, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(categories)), ",")
	query := `
SELECT ` + businessColumns + `
FROM businesses
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
	return collectBusinesses(rows)
}

const listBusinessCategories = `
SELECT DISTINCT category
FROM businesses
WHERE is_published = TRUE
ORDER BY category`

// ListBusinessCategories returns the distinct categories among published businesses.
func (q *Queries) ListBusinessCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listBusinessCategories)
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
