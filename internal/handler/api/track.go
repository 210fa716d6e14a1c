// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/soyle-go/internal/geoip"
	"github.com/olegiv/soyle-go/internal/middleware"
	"github.com/olegiv/soyle-go/internal/store"
	"github.com/olegiv/soyle-go/internal/util"
)

// TrackRequest is the body of POST /api/track.
type TrackRequest struct {
	ItemType        string `json:"item_type"`
	ItemID          int64  `json:"item_id"`
	InteractionType string `json:"interaction_type"`
	Category        string `json:"category,omitempty"`
}

// TrackResponse echoes the session token the interaction was recorded
// under so the client can persist it.
type TrackResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

func validItemType(t string) bool {
	return t == store.ItemTypeEvent || t == store.ItemTypeBusiness
}

func validInteractionType(t string) bool {
	switch t {
	case store.InteractionView, store.InteractionClick, store.InteractionSave:
		return true
	}
	return false
}

// deviceType classifies the client from its User-Agent header.
func deviceType(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	ua := useragent.Parse(userAgent)
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	}
	return "unknown"
}

// Track handles POST /api/track. The interaction row is always
// appended; the item_id is not checked against the content tables. A
// "view" interaction additionally increments the item's view count,
// where a missing item is a silent no-op.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	details := map[string]string{}
	if !validItemType(req.ItemType) {
		details["item_type"] = "must be 'event' or 'business'"
	}
	if req.ItemID <= 0 {
		details["item_id"] = "must be a positive integer"
	}
	if !validInteractionType(req.InteractionType) {
		details["interaction_type"] = "must be 'view', 'click' or 'save'"
	}
	if len(details) > 0 {
		WriteValidationError(w, details)
		return
	}

	sessionID := h.sessionID(r, "")

	country := ""
	if h.geo != nil {
		country = h.geo.LookupCountry(middleware.ClientIP(r))
	}
	device := deviceType(r.UserAgent())

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		WriteInternalError(w, "Failed to record interaction")
		return
	}
	defer func() { _ = tx.Rollback() }()

	qtx := h.queries.WithTx(tx)
	_, err = qtx.CreateInteraction(r.Context(), store.CreateInteractionParams{
		SessionID:       sessionID,
		ItemType:        req.ItemType,
		ItemID:          req.ItemID,
		InteractionType: req.InteractionType,
		Category:        util.NullStringFromValue(req.Category),
		Country:         util.NullStringFromValue(country),
		Device:          util.NullStringFromValue(device),
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to record interaction")
		return
	}

	if req.InteractionType == store.InteractionView {
		if req.ItemType == store.ItemTypeEvent {
			err = qtx.IncrementEventViewCount(r.Context(), req.ItemID)
		} else {
			err = qtx.IncrementBusinessViewCount(r.Context(), req.ItemID)
		}
		if err != nil {
			WriteInternalError(w, "Failed to record interaction")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		WriteInternalError(w, "Failed to record interaction")
		return
	}

	// A view changes the global top-by-views ranking.
	if req.InteractionType == store.InteractionView {
		if err := h.cache.DeleteByPrefix(r.Context(), trendingCachePrefix); err != nil {
			slog.Warn("failed to invalidate trending cache", "category", "cache", "error", err)
		}
	}

	slog.Debug("interaction recorded",
		"category", "track",
		"session_id", sessionID,
		"item_type", req.ItemType,
		"item_id", req.ItemID,
		"interaction_type", req.InteractionType,
		"country", geoip.CountryName(country),
		"device", device,
	)

	WriteJSON(w, http.StatusOK, TrackResponse{
		Success:   true,
		SessionID: sessionID,
	})
}
