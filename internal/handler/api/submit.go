// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/soyle-go/internal/markup"
	"github.com/olegiv/soyle-go/internal/store"
	"github.com/olegiv/soyle-go/internal/util"
)

const maxTitleLength = 200

// SubmitRequest is the body of POST /api/submit: a content type
// discriminator plus the type-specific fields.
type SubmitRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SubmitEventData holds the fields of an event submission.
type SubmitEventData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DateTime    string `json:"date_time"`
	Location    string `json:"location"`
	Category    string `json:"category,omitempty"`
	ImageData   string `json:"image_data,omitempty"`
}

// SubmitBusinessData holds the fields of a business submission.
type SubmitBusinessData struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	Description      string `json:"description"`
	ContactInstagram string `json:"contact_instagram,omitempty"`
	ContactWhatsapp  string `json:"contact_whatsapp,omitempty"`
	LogoData         string `json:"logo_data,omitempty"`
}

// Submit handles POST /api/submit. Submissions are published
// immediately; there is no moderation queue.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	switch req.Type {
	case store.ItemTypeEvent:
		h.submitEvent(w, r, req.Data)
	case store.ItemTypeBusiness:
		h.submitBusiness(w, r, req.Data)
	default:
		WriteValidationError(w, map[string]string{"type": "must be 'event' or 'business'"})
	}
}

func (h *Handler) submitEvent(w http.ResponseWriter, r *http.Request, raw json.RawMessage) {
	var data SubmitEventData
	if err := json.Unmarshal(raw, &data); err != nil {
		WriteBadRequest(w, "Invalid event data", nil)
		return
	}

	data.Title = markup.SanitizeText(data.Title)
	data.Location = markup.SanitizeText(data.Location)
	data.Category = markup.SanitizeText(data.Category)

	details := map[string]string{}
	if data.Title == "" {
		details["title"] = "is required"
	} else if utf8.RuneCountInString(data.Title) > maxTitleLength {
		details["title"] = fmt.Sprintf("must be at most %d characters", maxTitleLength)
	}
	if data.Description == "" {
		details["description"] = "is required"
	}
	if data.DateTime == "" {
		details["date_time"] = "is required"
	}
	if data.Location == "" {
		details["location"] = "is required"
	}

	imageData, imgErr := h.normalizeImage(data.ImageData)
	if imgErr != "" {
		details["image_data"] = imgErr
	}
	if len(details) > 0 {
		WriteValidationError(w, details)
		return
	}

	if data.Category == "" {
		data.Category = store.DefaultEventCategory
	}

	event, err := h.createEventWithSlug(r, store.CreateEventParams{
		Title:       data.Title,
		Description: data.Description,
		DateTime:    data.DateTime,
		Location:    data.Location,
		Category:    data.Category,
		ImageData:   util.NullStringFromValue(imageData),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to submit event")
		return
	}

	h.invalidateContentCaches(r)
	slog.Info("event submitted", "category", "event", "id", event.ID, "slug", event.Slug)

	WriteJSON(w, http.StatusCreated, MessageResponse{
		Success: true,
		Message: "Event submitted",
	})
}

func (h *Handler) submitBusiness(w http.ResponseWriter, r *http.Request, raw json.RawMessage) {
	var data SubmitBusinessData
	if err := json.Unmarshal(raw, &data); err != nil {
		WriteBadRequest(w, "Invalid business data", nil)
		return
	}

	data.Name = markup.SanitizeText(data.Name)
	data.Category = markup.SanitizeText(data.Category)
	data.ContactInstagram = markup.SanitizeText(data.ContactInstagram)
	data.ContactWhatsapp = markup.SanitizeText(data.ContactWhatsapp)

	details := map[string]string{}
	if data.Name == "" {
		details["name"] = "is required"
	} else if utf8.RuneCountInString(data.Name) > maxTitleLength {
		details["name"] = fmt.Sprintf("must be at most %d characters", maxTitleLength)
	}
	if data.Category == "" {
		details["category"] = "is required"
	}
	if data.Description == "" {
		details["description"] = "is required"
	}

	logoData, imgErr := h.normalizeImage(data.LogoData)
	if imgErr != "" {
		details["logo_data"] = imgErr
	}
	if len(details) > 0 {
		WriteValidationError(w, details)
		return
	}

	business, err := h.queries.CreateBusiness(r.Context(), store.CreateBusinessParams{
		Name:             data.Name,
		Category:         data.Category,
		Description:      data.Description,
		ContactInstagram: util.NullStringFromValue(data.ContactInstagram),
		ContactWhatsapp:  util.NullStringFromValue(data.ContactWhatsapp),
		LogoData:         util.NullStringFromValue(logoData),
		CreatedAt:        time.Now().UTC(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to submit business")
		return
	}

	h.invalidateContentCaches(r)
	slog.Info("business submitted", "category", "business", "id", business.ID, "name", business.Name)

	WriteJSON(w, http.StatusCreated, MessageResponse{
		Success: true,
		Message: "Business submitted",
	})
}

// normalizeImage runs an optional data-URI payload through the image
// processor. Returns the normalized data URI, or a validation message.
func (h *Handler) normalizeImage(dataURI string) (string, string) {
	if dataURI == "" {
		return "", ""
	}
	result, err := h.processor.Normalize(dataURI)
	if err != nil {
		return "", "must be a valid base64 image data URI"
	}
	return result.DataURI, ""
}

// createEventWithSlug inserts the event under a slug derived from its
// title. Slug uniqueness is claimed by the insert itself rather than a
// prior existence check, so two concurrent submissions with the same
// title cannot both take a slug; the collision retries with the next
// suffix.
func (h *Handler) createEventWithSlug(r *http.Request, arg store.CreateEventParams) (store.Event, error) {
	base := util.Slugify(arg.Title)
	if base == "" {
		base = "event"
	}

	arg.Slug = base
	for i := 2; ; i++ {
		event, err := h.queries.CreateEvent(r.Context(), arg)
		if err == nil {
			return event, nil
		}
		if !isSlugConflict(err) {
			return store.Event{}, err
		}
		arg.Slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Both drivers report "UNIQUE constraint failed: events.slug" in the
// error text; neither exposes a typed constraint error.
func isSlugConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: events.slug")
}
