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

// BusinessResponse is the API shape of a business listing.
type BusinessResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	DescriptionHTML  string    `json:"description_html"`
	ContactInstagram string    `json:"contact_instagram,omitempty"`
	ContactWhatsapp  string    `json:"contact_whatsapp,omitempty"`
	LogoData         string    `json:"logo_data,omitempty"`
	ViewCount        int64     `json:"view_count"`
	CreatedAt        time.Time `json:"created_at"`
}

func newBusinessResponse(b store.Business) BusinessResponse {
	return BusinessResponse{
		ID:               b.ID,
		Name:             b.Name,
		Category:         b.Category,
		Description:      b.Description,
		DescriptionHTML:  markup.RenderDescription(b.Description),
		ContactInstagram: util.StringOrEmpty(b.ContactInstagram),
		ContactWhatsapp:  util.StringOrEmpty(b.ContactWhatsapp),
		LogoData:         util.StringOrEmpty(b.LogoData),
		ViewCount:        b.ViewCount,
		CreatedAt:        b.CreatedAt,
	}
}

func newBusinessResponses(businesses []store.Business) []BusinessResponse {
	out := make([]BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, newBusinessResponse(b))
	}
	return out
}

// ListBusinesses handles GET /api/businesses with an optional category
// query parameter. The response is a plain JSON array.
func (h *Handler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var (
		businesses []store.Business
		err        error
	)
	if category != "" {
		businesses, err = h.queries.ListBusinessesByCategory(r.Context(), category)
	} else {
		businesses, err = h.queries.ListBusinesses(r.Context())
	}
	if err != nil {
		WriteInternalError(w, "Failed to list businesses")
		return
	}

	WriteJSON(w, http.StatusOK, newBusinessResponses(businesses))
}

// GetBusiness handles GET /api/businesses/{id}.
func (h *Handler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid business ID", nil)
		return
	}

	business, err := h.queries.GetBusiness(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "Business not found")
		return
	}
	if err != nil {
		WriteInternalError(w, "Failed to get business")
		return
	}

	WriteJSON(w, http.StatusOK, newBusinessResponse(business))
}
