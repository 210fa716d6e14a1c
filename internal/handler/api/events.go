// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/soyle-go/internal/markup"
	"github.com/olegiv/soyle-go/internal/store"
	"github.com/olegiv/soyle-go/internal/util"
)

// EventResponse is the API shape of an event listing.
type EventResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html"`
	DateTime        string    `json:"date_time"`
	Location        string    `json:"location"`
	Category        string    `json:"category"`
	ImageData       string    `json:"image_data,omitempty"`
	ViewCount       int64     `json:"view_count"`
	IsRegistered    bool      `json:"is_registered"`
	CreatedAt       time.Time `json:"created_at"`
}

func newEventResponse(e store.Event, registered bool) EventResponse {
	return EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Slug:            e.Slug,
		Description:     e.Description,
		DescriptionHTML: markup.RenderDescription(e.Description),
		DateTime:        e.DateTime,
		Location:        e.Location,
		Category:        e.Category,
		ImageData:       util.StringOrEmpty(e.ImageData),
		ViewCount:       e.ViewCount,
		IsRegistered:    registered,
		CreatedAt:       e.CreatedAt,
	}
}

// eventResponses marks each event as registered or not for the session.
// An empty session ID skips the registration lookup entirely.
func (h *Handler) eventResponses(r *http.Request, events []store.Event, sessionID string) ([]EventResponse, error) {
	registered := map[int64]bool{}
	if sessionID != "" {
		var err error
		registered, err = h.queries.RegisteredEventIDs(r.Context(), sessionID)
		if err != nil {
			return nil, err
		}
	}

	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, newEventResponse(e, registered[e.ID]))
	}
	return out, nil
}

// ListEvents handles GET /api/events with optional category and
// session_id query parameters. The response is a plain JSON array.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	sessionID := h.sessionID(r, r.URL.Query().Get("session_id"))

	var (
		events []store.Event
		err    error
	)
	if category != "" {
		events, err = h.queries.ListEventsByCategory(r.Context(), category)
	} else {
		events, err = h.queries.ListEvents(r.Context())
	}
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}

	resp, err := h.eventResponses(r, events, sessionID)
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetEvent handles GET /api/events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	event, err := h.queries.GetEvent(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "Event not found")
		return
	}
	if err != nil {
		WriteInternalError(w, "Failed to get event")
		return
	}

	h.writeEvent(w, r, event)
}

// GetEventBySlug handles GET /api/events/slug/{slug}.
func (h *Handler) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		WriteBadRequest(w, "Invalid event slug", nil)
		return
	}

	event, err := h.queries.GetEventBySlug(r.Context(), slug)
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "Event not found")
		return
	}
	if err != nil {
		WriteInternalError(w, "Failed to get event")
		return
	}

	h.writeEvent(w, r, event)
}

func (h *Handler) writeEvent(w http.ResponseWriter, r *http.Request, event store.Event) {
	registered := false
	if sid := h.sessionID(r, r.URL.Query().Get("session_id")); sid != "" {
		var err error
		registered, err = h.queries.IsRegistered(r.Context(), store.IsRegisteredParams{
			EventID:   event.ID,
			SessionID: sid,
		})
		if err != nil {
			WriteInternalError(w, "Failed to get event")
			return
		}
	}
	WriteJSON(w, http.StatusOK, newEventResponse(event, registered))
}
