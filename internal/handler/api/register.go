// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/olegiv/soyle-go/internal/store"
)

// RegisterEventRequest is the body of POST /api/register-event. The
// session_id is optional; the cookie-backed session is used when absent.
type RegisterEventRequest struct {
	EventID   int64  `json:"event_id"`
	SessionID string `json:"session_id,omitempty"`
}

// MessageResponse is the generic success acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterEvent handles POST /api/register-event. Registration is
// idempotent: registering twice for the same event succeeds without
// creating a duplicate row.
func (h *Handler) RegisterEvent(w http.ResponseWriter, r *http.Request) {
	var req RegisterEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.EventID <= 0 {
		WriteValidationError(w, map[string]string{"event_id": "must be a positive integer"})
		return
	}

	sessionID := h.sessionID(r, req.SessionID)
	if sessionID == "" {
		WriteValidationError(w, map[string]string{"session_id": "is required"})
		return
	}

	// GetEvent only returns published rows, so an unpublished event is
	// indistinguishable from a missing one here.
	if _, err := h.queries.GetEvent(r.Context(), req.EventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Event not found")
			return
		}
		WriteInternalError(w, "Failed to register for event")
		return
	}

	err := h.queries.CreateRegistration(r.Context(), store.CreateRegistrationParams{
		EventID:   req.EventID,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to register for event")
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Registered for event",
	})
}
