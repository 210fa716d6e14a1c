// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures cookie-backed visitor sessions persisted
// in SQLite.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

// Lifetime is how long a visitor session lasts. Interaction history and
// recommendations key off the session, so it is deliberately long-lived.
const Lifetime = 365 * 24 * time.Hour

// sidKey is the session data key holding the visitor identifier.
const sidKey = "sid"

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	// Use SQLite store
	sm.Store = sqlite3store.New(db)

	// Configure session
	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only
	if !isDev {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}

	return sm
}

// SID returns the stable visitor identifier for the current session,
// minting one on first use. The scs token itself is not issued until the
// response is written, so a fresh request needs its own identifier.
func SID(ctx context.Context, sm *scs.SessionManager) string {
	if id := sm.GetString(ctx, sidKey); id != "" {
		return id
	}
	id := uuid.NewString()
	sm.Put(ctx, sidKey, id)
	return id
}
