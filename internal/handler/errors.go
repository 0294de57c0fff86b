package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/todo-api/internal/domain"
)

// writeServiceError maps a service error to its HTTP response. fallback is
// the message used for unclassified (store) failures, whose error text is
// passed through as the detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, domain.ErrDuplicateIdentity):
		writeError(w, http.StatusBadRequest, "User already exists", "")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials", "")
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Unauthenticated", "")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Task not found", "")
	default:
		slog.Error(fallback, "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}
