// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/olegiv/soyle-go/internal/cache"
	"github.com/olegiv/soyle-go/internal/geoip"
	"github.com/olegiv/soyle-go/internal/store"
	"github.com/olegiv/soyle-go/internal/util"
)

// newTestHandler creates a Handler backed by an in-memory database
// with the full schema applied.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// A fresh connection would see an empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewHandler(db, cache.New(cache.DefaultOptions()), geoip.NewLookup(), nil)
}

// createTestEvent inserts a published event and returns it.
func createTestEvent(t *testing.T, h *Handler, title, category string) store.Event {
	t.Helper()

	slug := fmt.Sprintf("%s-%d", util.Slugify(title), time.Now().UnixNano())
	event, err := h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Title:       title,
		Slug:        slug,
		Description: "Test description",
		DateTime:    "2026-06-01T19:00",
		Location:    "Main Square",
		Category:    category,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// createTestBusiness inserts a published business and returns it.
func createTestBusiness(t *testing.T, h *Handler, name, category string) store.Business {
	t.Helper()

	business, err := h.queries.CreateBusiness(context.Background(), store.CreateBusinessParams{
		Name:        name,
		Category:    category,
		Description: "Test description",
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to create test business: %v", err)
	}
	return business
}

// trackView records a view interaction and bumps the view count, the
// same way the Track handler does.
func trackView(t *testing.T, h *Handler, sessionID, itemType string, itemID int64, category string) {
	t.Helper()

	ctx := context.Background()
	_, err := h.queries.CreateInteraction(ctx, store.CreateInteractionParams{
		SessionID:       sessionID,
		ItemType:        itemType,
		ItemID:          itemID,
		InteractionType: store.InteractionView,
		Category:        util.NullStringFromValue(category),
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to create interaction: %v", err)
	}

	if itemType == store.ItemTypeEvent {
		err = h.queries.IncrementEventViewCount(ctx, itemID)
	} else {
		err = h.queries.IncrementBusinessViewCount(ctx, itemID)
	}
	if err != nil {
		t.Fatalf("failed to increment view count: %v", err)
	}
}

// newGetRequest creates a GET request with optional chi URL parameters.
func newGetRequest(target string, urlParams map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return withURLParams(r, urlParams)
}

// newJSONRequest creates a request with a JSON-encoded body.
func newJSONRequest(method, target string, body any) *http.Request {
	data, _ := json.Marshal(body)
	r := httptest.NewRequest(method, target, bytes.NewReader(data))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func withURLParams(r *http.Request, urlParams map[string]string) *http.Request {
	if len(urlParams) == 0 {
		return r
	}
	rctx := chi.NewRouteContext()
	for k, v := range urlParams {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// executeHandler runs a handler function and returns the recorder.
func executeHandler(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

// decodeJSON unmarshals a response body into out.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
}

// decodeError unmarshals an error envelope and returns its code.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	decodeJSON(t, w, &resp)
	return resp.Error.Code
}
