// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Item type values for user interactions.
const (
	ItemTypeEvent    = "event"
	ItemTypeBusiness = "business"
)

// Interaction type values.
const (
	InteractionView  = "view"
	InteractionClick = "click"
	InteractionSave  = "save"
)

// DefaultEventCategory is assigned when a submitted event names no category.
const DefaultEventCategory = "Other"

// Event is a community event listing. Rows are never deleted or
// unpublished by any exposed operation; only view_count mutates.
type Event struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	DateTime    string
	Location    string
	Category    string
	ImageData   sql.NullString
	IsPublished bool
	ViewCount   int64
	CreatedAt   time.Time
}

// Business is a local business listing.
type Business struct {
	ID               int64
	Name             string
	Category         string
	Description      string
	ContactInstagram sql.NullString
	ContactWhatsapp  sql.NullString
	LogoData         sql.NullString
	IsPublished      bool
	ViewCount        int64
	CreatedAt        time.Time
}

// UserInteraction is one recorded (session, item, action) tuple. The
// category field is a snapshot taken at interaction time.
type UserInteraction struct {
	ID              int64
	SessionID       string
	ItemType        string
	ItemID          int64
	InteractionType string
	Category        sql.NullString
	Country         sql.NullString
	Device          sql.NullString
	CreatedAt       time.Time
}

// EventRegistration records that a session registered for an event.
// The (event_id, session_id) pair is unique.
type EventRegistration struct {
	ID        int64
	EventID   int64
	SessionID string
	CreatedAt time.Time
}

// LogEvent is one row in the application event log.
type LogEvent struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}
