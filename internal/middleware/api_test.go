package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, http.StatusNotFound, "not_found", "Event not found", map[string]string{"id": "42"})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error.Code != "not_found" {
		t.Errorf("code = %q, want not_found", body.Error.Code)
	}
	if body.Error.Message != "Event not found" {
		t.Errorf("message = %q", body.Error.Message)
	}
	if body.Error.Details["id"] != "42" {
		t.Errorf("details = %v", body.Error.Details)
	}
}

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter(1, 2)
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 2 allowed, third request rejected.
	if code := send("1.2.3.4"); code != http.StatusOK {
		t.Errorf("request 1: status = %d", code)
	}
	if code := send("1.2.3.4"); code != http.StatusOK {
		t.Errorf("request 2: status = %d", code)
	}
	if code := send("1.2.3.4"); code != http.StatusTooManyRequests {
		t.Errorf("request 3: status = %d, want 429", code)
	}

	// A different client is unaffected.
	if code := send("5.6.7.8"); code != http.StatusOK {
		t.Errorf("other client: status = %d", code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		realIP     string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"x-real-ip wins", "9.9.9.9", "1.1.1.1", "2.2.2.2:1234", "9.9.9.9"},
		{"forwarded first entry", "", "1.1.1.1, 3.3.3.3", "2.2.2.2:1234", "1.1.1.1"},
		{"remote addr port stripped", "", "", "2.2.2.2:1234", "2.2.2.2"},
		{"remote addr without port", "", "", "2.2.2.2", "2.2.2.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")
	lc.get("c")

	if cleared := lc.clearIfExceeds(10); cleared {
		t.Error("cache cleared below threshold")
	}
	if cleared := lc.clearIfExceeds(2); !cleared {
		t.Error("cache not cleared above threshold")
	}
	if len(lc.limiters) != 0 {
		t.Errorf("limiters remaining after clear: %d", len(lc.limiters))
	}
}
