// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the API router, mounted under /api by the server.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/events", h.ListEvents)
	r.Get("/events/{id}", h.GetEvent)
	r.Get("/events/slug/{slug}", h.GetEventBySlug)
	r.Get("/businesses", h.ListBusinesses)
	r.Get("/businesses/{id}", h.GetBusiness)
	r.Get("/categories", h.ListCategories)
	r.Get("/recommendations/{sessionID}", h.Recommendations)
	r.Post("/track", h.Track)
	r.Post("/register-event", h.RegisterEvent)
	r.Post("/submit", h.Submit)

	return r
}
