// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/soyle-go/internal/store"
)

const (
	trendingCachePrefix = "trending:"
	trendingCacheKey    = trendingCachePrefix + "bundle"

	favoriteCategoryLimit = 3
	recommendationLimit   = 6
)

// RecommendationsResponse is the personalized content bundle for one
// session. An empty favorite_categories list marks a trending fallback.
type RecommendationsResponse struct {
	Events             []EventResponse    `json:"events"`
	Businesses         []BusinessResponse `json:"businesses"`
	FavoriteCategories []string           `json:"favorite_categories"`
}

// Recommendations handles GET /api/recommendations/{sessionID}.
//
// The session's top categories by interaction count drive the bundle;
// a session with no history falls back to globally trending content.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		WriteBadRequest(w, "Missing session ID", nil)
		return
	}

	favorites, err := h.queries.TopCategoriesForSession(r.Context(), store.TopCategoriesForSessionParams{
		SessionID: sessionID,
		Limit:     favoriteCategoryLimit,
	})
	if err != nil {
		WriteInternalError(w, "Failed to load recommendations")
		return
	}

	if len(favorites) == 0 {
		h.writeTrending(w, r, sessionID)
		return
	}

	events, err := h.queries.TopEventsByViewsInCategories(r.Context(), favorites, recommendationLimit)
	if err != nil {
		WriteInternalError(w, "Failed to load recommendations")
		return
	}
	businesses, err := h.queries.TopBusinessesByViewsInCategories(r.Context(), favorites, recommendationLimit)
	if err != nil {
		WriteInternalError(w, "Failed to load recommendations")
		return
	}

	eventResp, err := h.eventResponses(r, events, sessionID)
	if err != nil {
		WriteInternalError(w, "Failed to load recommendations")
		return
	}

	WriteJSON(w, http.StatusOK, RecommendationsResponse{
		Events:             eventResp,
		Businesses:         newBusinessResponses(businesses),
		FavoriteCategories: favorites,
	})
}

// trendingBundle is the cached, session-independent part of the
// trending response. is_registered is per session and is never cached;
// a session can hold registrations while still being cold-start, since
// registering creates no interaction row.
type trendingBundle struct {
	Events     []store.Event    `json:"events"`
	Businesses []store.Business `json:"businesses"`
}

// writeTrending serves the global top-views bundle for sessions with no
// interaction history.
func (h *Handler) writeTrending(w http.ResponseWriter, r *http.Request, sessionID string) {
	bundle, ok := h.cachedTrending(r.Context())
	if !ok {
		events, err := h.queries.TopEventsByViews(r.Context(), recommendationLimit)
		if err != nil {
			WriteInternalError(w, "Failed to load recommendations")
			return
		}
		businesses, err := h.queries.TopBusinessesByViews(r.Context(), recommendationLimit)
		if err != nil {
			WriteInternalError(w, "Failed to load recommendations")
			return
		}
		bundle = trendingBundle{Events: events, Businesses: businesses}

		if body, err := json.Marshal(bundle); err == nil {
			if err := h.cache.Set(r.Context(), trendingCacheKey, body, 0); err != nil {
				slog.Warn("failed to cache trending bundle", "category", "cache", "error", err)
			}
		}
	}

	eventResp, err := h.eventResponses(r, bundle.Events, sessionID)
	if err != nil {
		WriteInternalError(w, "Failed to load recommendations")
		return
	}

	WriteJSON(w, http.StatusOK, RecommendationsResponse{
		Events:             eventResp,
		Businesses:         newBusinessResponses(bundle.Businesses),
		FavoriteCategories: []string{},
	})
}

func (h *Handler) cachedTrending(ctx context.Context) (trendingBundle, bool) {
	cached, err := h.cache.Get(ctx, trendingCacheKey)
	if err != nil {
		return trendingBundle{}, false
	}
	var bundle trendingBundle
	if err := json.Unmarshal(cached, &bundle); err != nil {
		return trendingBundle{}, false
	}
	return bundle, true
}
