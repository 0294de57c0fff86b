package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/msomdec/todo-api/internal/service"
	"github.com/rs/cors"
)

type contextKey string

const userIDContextKey contextKey = "userID"

// UserIDFromContext returns the authenticated user ID attached by
// RequireAuth, or "" when the request is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDContextKey).(string)
	return id
}

// RequireAuth is middleware that protects routes requiring authentication.
// It reads a bearer token from the Authorization header, verifies it and
// injects the user ID into the request context. Missing, malformed,
// tampered and expired tokens all get the same 401.
//
// The guard does not look the user up. A token for a user the store no
// longer has passes here; SQLite rejects task creation for it through the
// owner foreign key, while MongoDB has no such constraint and stores the
// task under the stale id.
func RequireAuth(tokens *service.TokenService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthenticated", "")
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthenticated", "")
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		if rec, ok := w.(*statusRecorder); ok {
			rec.userID = userID
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// SecurityHeaders sets conservative headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// CORS allows credentialed cross-origin requests from origin only.
// Preflight requests are answered with 204.
func CORS(origin string, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:       []string{origin},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:       []string{"Authorization", "Content-Type"},
		AllowCredentials:     true,
		OptionsSuccessStatus: http.StatusNoContent,
	}).Handler(next)
}

// LogRequests logs one line per request once the handler returns.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", rec.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if ip := clientIP(r); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(r.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if rec.userID != "" {
			fields = append(fields, "user_id", rec.userID)
		}

		switch {
		case status >= http.StatusInternalServerError:
			slog.Error("http request", fields...)
		case status >= http.StatusBadRequest:
			slog.Warn("http request", fields...)
		default:
			slog.Info("http request", fields...)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	userID string
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
