package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// PingFunc reports whether the backing store is reachable.
type PingFunc func(ctx context.Context) error

const pingTimeout = 2 * time.Second

// HandleHealthz responds with {"status":"ok"} while the store answers a
// ping, and 503 {"status":"unavailable"} otherwise.
func HandleHealthz(ping PingFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := ping(ctx); err != nil {
			slog.Error("ping store", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// HandleHome answers the bare root path with a greeting.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World!"})
}
