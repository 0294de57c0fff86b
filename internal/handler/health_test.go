package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msomdec/todo-api/internal/handler"
)

func TestHandleHealthz(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantCode   int
		wantStatus string
	}{
		{"store reachable", nil, http.StatusOK, "ok"},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ping := func(context.Context) error { return tt.pingErr }

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			w := httptest.NewRecorder()
			handler.HandleHealthz(ping).ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected Content-Type application/json, got %s", ct)
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["status"] != tt.wantStatus {
				t.Fatalf("expected status=%s, got %s", tt.wantStatus, body["status"])
			}
		})
	}
}

func TestHandleHealthzRouting(t *testing.T) {
	app := newTestApp(t)

	var body map[string]string
	if code := app.do(t, http.MethodGet, "/healthz", "", nil, &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}

	app.db.Close()
	if code := app.do(t, http.MethodGet, "/healthz", "", nil, &body); code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 after store closed, got %d", code)
	}
}

func TestHandleHome(t *testing.T) {
	app := newTestApp(t)

	var body map[string]string
	if code := app.do(t, http.MethodGet, "/", "", nil, &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["message"] == "" {
		t.Fatal("expected a greeting message")
	}

	if code := app.do(t, http.MethodGet, "/nope", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", code)
	}
}
