// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"
)

func TestRegisterEvent(t *testing.T) {
	h := newTestHandler(t)
	event := createTestEvent(t, h, "Jazz Night", "Music")

	body := RegisterEventRequest{EventID: event.ID, SessionID: "s1"}
	w := executeHandler(h.RegisterEvent, newJSONRequest(http.MethodPost, "/api/register-event", body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp MessageResponse
	decodeJSON(t, w, &resp)
	if !resp.Success {
		t.Error("expected success true")
	}

	n, err := h.queries.CountRegistrationsForEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("failed to count registrations: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 registration, got %d", n)
	}
}

func TestRegisterEvent_Idempotent(t *testing.T) {
	h := newTestHandler(t)
	event := createTestEvent(t, h, "Jazz Night", "Music")

	body := RegisterEventRequest{EventID: event.ID, SessionID: "s1"}
	for i := 0; i < 2; i++ {
		w := executeHandler(h.RegisterEvent, newJSONRequest(http.MethodPost, "/api/register-event", body))
		if w.Code != http.StatusOK {
			t.Fatalf("call %d: expected status 200, got %d", i+1, w.Code)
		}
	}

	n, err := h.queries.CountRegistrationsForEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("failed to count registrations: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 registration after duplicate call, got %d", n)
	}
}

func TestRegisterEvent_NotFound(t *testing.T) {
	h := newTestHandler(t)

	body := RegisterEventRequest{EventID: 9999, SessionID: "s1"}
	w := executeHandler(h.RegisterEvent, newJSONRequest(http.MethodPost, "/api/register-event", body))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if code := decodeError(t, w); code != "not_found" {
		t.Errorf("expected error code not_found, got %q", code)
	}
}

func TestRegisterEvent_UnpublishedEvent(t *testing.T) {
	h := newTestHandler(t)

	res, err := h.db.Exec(`INSERT INTO events (title, slug, description, date_time, location, category, is_published, view_count, created_at)
		VALUES ('Hidden', 'hidden', 'desc', '2026-06-01T19:00', 'Main Square', 'Other', FALSE, 0, CURRENT_TIMESTAMP)`)
	if err != nil {
		t.Fatalf("failed to insert unpublished event: %v", err)
	}
	hiddenID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to get insert id: %v", err)
	}

	body := RegisterEventRequest{EventID: hiddenID, SessionID: "s1"}
	w := executeHandler(h.RegisterEvent, newJSONRequest(http.MethodPost, "/api/register-event", body))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unpublished event, got %d", w.Code)
	}

	n, err := h.queries.CountRegistrationsForEvent(context.Background(), hiddenID)
	if err != nil {
		t.Fatalf("failed to count registrations: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no registration rows, got %d", n)
	}
}

func TestRegisterEvent_MissingSessionID(t *testing.T) {
	h := newTestHandler(t)
	event := createTestEvent(t, h, "Jazz Night", "Music")

	body := RegisterEventRequest{EventID: event.ID}
	w := executeHandler(h.RegisterEvent, newJSONRequest(http.MethodPost, "/api/register-event", body))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}
}
