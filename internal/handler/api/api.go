// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API handlers for the bulletin board.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/soyle-go/internal/cache"
	"github.com/olegiv/soyle-go/internal/geoip"
	"github.com/olegiv/soyle-go/internal/imaging"
	"github.com/olegiv/soyle-go/internal/session"
	"github.com/olegiv/soyle-go/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	queries   *store.Queries
	cache     cache.Cache
	geo       *geoip.Lookup
	sessions  *scs.SessionManager
	processor *imaging.Processor
}

// NewHandler creates a new API handler. The geo lookup may be disabled
// and the cache may be a memory fallback; both are always non-nil.
func NewHandler(db *sql.DB, c cache.Cache, geo *geoip.Lookup, sessions *scs.SessionManager) *Handler {
	return &Handler{
		db:        db,
		queries:   store.New(db),
		cache:     c,
		geo:       geo,
		sessions:  sessions,
		processor: imaging.NewProcessor(),
	}
}

// sessionID resolves the session token for a request: an explicit
// client-supplied token wins, otherwise the cookie-backed session is
// used, minting a fresh token when the session is new.
func (h *Handler) sessionID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if h.sessions == nil {
		return ""
	}
	return session.SID(r.Context(), h.sessions)
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	resp := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	WriteJSON(w, statusCode, resp)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 response with per-field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}
