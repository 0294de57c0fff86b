package handler

import (
	"net/http"

	"github.com/msomdec/todo-api/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, tokens *service.TokenService, tasks *service.TaskService, ping PingFunc) {
	authHandler := NewAuthHandler(auth)
	taskHandler := NewTaskHandler(tasks)

	mux.HandleFunc("GET /healthz", HandleHealthz(ping))
	mux.HandleFunc("GET /{$}", HandleHome)

	// Public auth endpoints.
	mux.HandleFunc("POST /register", authHandler.HandleRegister)
	mux.HandleFunc("POST /login", authHandler.HandleLogin)

	// Protected endpoints.
	mux.Handle("GET /auth", RequireAuth(tokens, http.HandlerFunc(authHandler.HandleAuth)))
	mux.Handle("POST /todos", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleCreate)))
	mux.Handle("GET /todos", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleList)))
	mux.Handle("GET /todos/{id}", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleGet)))
	mux.Handle("PUT /todos/{id}", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleUpdate)))
	mux.Handle("PATCH /todos/{id}", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleUpdateStatus)))
	mux.Handle("DELETE /todos/{id}", RequireAuth(tokens, http.HandlerFunc(taskHandler.HandleDelete)))
}

// WithJSONFallbacks answers requests no route matches with JSON 404 and
// 405 bodies instead of the mux's plain-text defaults.
func WithJSONFallbacks(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		fallback := &discardWriter{header: http.Header{}}
		h.ServeHTTP(fallback, r)

		if fallback.status == http.StatusMethodNotAllowed {
			if allow := fallback.header.Get("Allow"); allow != "" {
				w.Header().Set("Allow", allow)
			}
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
			return
		}
		writeError(w, http.StatusNotFound, "Not found", "")
	})
}

// discardWriter records the status and headers of the mux's built-in
// error handlers and drops their body.
type discardWriter struct {
	header http.Header
	status int
}

func (d *discardWriter) Header() http.Header { return d.header }

func (d *discardWriter) Write(b []byte) (int, error) { return len(b), nil }

func (d *discardWriter) WriteHeader(code int) {
	if d.status == 0 {
		d.status = code
	}
}
