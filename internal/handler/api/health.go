// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/soyle-go/internal/version"
)

// HealthResponse reports service liveness and dependency status.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Checks   map[string]string `json:"checks"`
	Uptime   string            `json:"uptime"`
	DateTime string            `json:"datetime"`
}

var startTime = time.Now()

// Health handles GET /health. Returns 503 when the database is
// unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database": "ok",
	}
	status := "ok"
	code := http.StatusOK

	if err := h.db.PingContext(r.Context()); err != nil {
		checks["database"] = "unreachable"
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	if _, err := h.cache.Has(r.Context(), "health"); err != nil {
		checks["cache"] = "unreachable"
	} else {
		checks["cache"] = "ok"
	}

	WriteJSON(w, code, HealthResponse{
		Status:   status,
		Version:  version.Get().Version,
		Checks:   checks,
		Uptime:   time.Since(startTime).Round(time.Second).String(),
		DateTime: time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthLive handles GET /health/live. The process is alive if it can
// answer at all.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady handles GET /health/ready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
