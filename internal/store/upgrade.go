// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/olegiv/soyle-go/internal/util"
)

// legacyColumn describes an optional column that older stores may lack.
type legacyColumn struct {
	name string
	ddl  string
}

var legacyEventColumns = []legacyColumn{
	{"category", "ALTER TABLE events ADD COLUMN category TEXT NOT NULL DEFAULT 'Other'"},
	{"view_count", "ALTER TABLE events ADD COLUMN view_count INTEGER NOT NULL DEFAULT 0"},
	{"image_data", "ALTER TABLE events ADD COLUMN image_data TEXT"},
	{"slug", "ALTER TABLE events ADD COLUMN slug TEXT NOT NULL DEFAULT ''"},
}

var legacyBusinessColumns = []legacyColumn{
	{"view_count", "ALTER TABLE businesses ADD COLUMN view_count INTEGER NOT NULL DEFAULT 0"},
	{"logo_data", "ALTER TABLE businesses ADD COLUMN logo_data TEXT"},
}

var legacyInteractionColumns = []legacyColumn{
	{"country", "ALTER TABLE user_interactions ADD COLUMN country TEXT"},
	{"device", "ALTER TABLE user_interactions ADD COLUMN device TEXT"},
}

// UpgradeLegacy adds columns that stores created by older schema versions
// are missing. Column presence is probed via PRAGMA table_info rather than
// by attempting a statement and inspecting the failure; every change is
// additive and the whole routine is idempotent. Any error is fatal to
// startup.
func UpgradeLegacy(db *sql.DB) error {
	for table, cols := range map[string][]legacyColumn{
		"events":            legacyEventColumns,
		"businesses":        legacyBusinessColumns,
		"user_interactions": legacyInteractionColumns,
	} {
		exists, err := tableExists(db, table)
		if err != nil {
			return fmt.Errorf("probing table %s: %w", table, err)
		}
		if !exists {
			continue
		}
		if err := addMissingColumns(db, table, cols); err != nil {
			return err
		}
	}

	// Events created before slugs existed need one before the unique
	// index in the versioned migrations can be built.
	if exists, err := tableExists(db, "events"); err == nil && exists {
		if has, err := columnExists(db, "events", "slug"); err == nil && has {
			if err := backfillEventSlugs(db); err != nil {
				return fmt.Errorf("backfilling event slugs: %w", err)
			}
		}
	}

	return nil
}

func addMissingColumns(db *sql.DB, table string, cols []legacyColumn) error {
	for _, col := range cols {
		has, err := columnExists(db, table, col.name)
		if err != nil {
			return fmt.Errorf("probing column %s.%s: %w", table, col.name, err)
		}
		if has {
			continue
		}
		if _, err := db.Exec(col.ddl); err != nil {
			return fmt.Errorf("adding column %s.%s: %w", table, col.name, err)
		}
		slog.Info("added missing column to legacy table", "table", table, "column", col.name)
	}
	return nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var found string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// backfillEventSlugs assigns a slug to every event that lacks one. The id
// suffix keeps backfilled slugs unique without a lookup loop.
func backfillEventSlugs(db *sql.DB) error {
	rows, err := db.Query("SELECT id, title FROM events WHERE slug = ''")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	type pending struct {
		id    int64
		title string
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.title); err != nil {
			return err
		}
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range todo {
		slug := util.Slugify(p.title)
		if slug == "" {
			slug = "event"
		}
		slug = fmt.Sprintf("%s-%d", slug, p.id)
		if _, err := db.Exec("UPDATE events SET slug = ? WHERE id = ?", slug, p.id); err != nil {
			return err
		}
	}
	if len(todo) > 0 {
		slog.Info("backfilled event slugs", "count", len(todo))
	}
	return nil
}
