// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"
)

func TestListBusinesses(t *testing.T) {
	h := newTestHandler(t)
	createTestBusiness(t, h, "Corner Cafe", "Food")
	createTestBusiness(t, h, "City Gym", "Fitness")

	w := executeHandler(h.ListBusinesses, newGetRequest("/api/businesses", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var businesses []BusinessResponse
	decodeJSON(t, w, &businesses)
	if len(businesses) != 2 {
		t.Fatalf("expected 2 businesses, got %d", len(businesses))
	}
}

func TestListBusinesses_CategoryFilter(t *testing.T) {
	h := newTestHandler(t)
	createTestBusiness(t, h, "Corner Cafe", "Food")
	createTestBusiness(t, h, "Bakery", "Food")
	createTestBusiness(t, h, "City Gym", "Fitness")

	w := executeHandler(h.ListBusinesses, newGetRequest("/api/businesses?category=Food", nil))

	var businesses []BusinessResponse
	decodeJSON(t, w, &businesses)
	if len(businesses) != 2 {
		t.Fatalf("expected 2 Food businesses, got %d", len(businesses))
	}
	for _, b := range businesses {
		if b.Category != "Food" {
			t.Errorf("expected category Food, got %q", b.Category)
		}
	}
}

func TestGetBusiness(t *testing.T) {
	h := newTestHandler(t)
	business := createTestBusiness(t, h, "Corner Cafe", "Food")

	w := executeHandler(h.GetBusiness, newGetRequest("/api/businesses/1", map[string]string{
		"id": fmt.Sprintf("%d", business.ID),
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got BusinessResponse
	decodeJSON(t, w, &got)
	if got.Name != "Corner Cafe" {
		t.Errorf("expected name Corner Cafe, got %q", got.Name)
	}
}

func TestGetBusiness_NotFound(t *testing.T) {
	h := newTestHandler(t)

	w := executeHandler(h.GetBusiness, newGetRequest("/api/businesses/9999", map[string]string{"id": "9999"}))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
