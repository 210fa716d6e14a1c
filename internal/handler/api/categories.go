// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const categoriesCacheKey = "categories"

// CategoriesResponse holds the distinct categories present among
// published content, split by content type.
type CategoriesResponse struct {
	Events     []string `json:"events"`
	Businesses []string `json:"businesses"`
}

// ListCategories handles GET /api/categories. The result is cached
// until a submission invalidates it.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if cached, err := h.cache.Get(r.Context(), categoriesCacheKey); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	eventCats, err := h.queries.ListEventCategories(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list categories")
		return
	}
	businessCats, err := h.queries.ListBusinessCategories(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list categories")
		return
	}

	resp := CategoriesResponse{
		Events:     eventCats,
		Businesses: businessCats,
	}
	if resp.Events == nil {
		resp.Events = []string{}
	}
	if resp.Businesses == nil {
		resp.Businesses = []string{}
	}

	if body, err := json.Marshal(resp); err == nil {
		if err := h.cache.Set(r.Context(), categoriesCacheKey, body, 0); err != nil {
			slog.Warn("failed to cache categories", "category", "cache", "error", err)
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}

// invalidateContentCaches drops cached listings after a submission.
func (h *Handler) invalidateContentCaches(r *http.Request) {
	if err := h.cache.Delete(r.Context(), categoriesCacheKey); err != nil {
		slog.Warn("failed to invalidate categories cache", "category", "cache", "error", err)
	}
	if err := h.cache.DeleteByPrefix(r.Context(), trendingCachePrefix); err != nil {
		slog.Warn("failed to invalidate trending cache", "category", "cache", "error", err)
	}
}
