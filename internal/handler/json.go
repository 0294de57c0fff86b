package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every failed request.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response. detail is omitted when empty.
func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorResponse{Message: message, Error: detail})
}

// readJSON decodes the request body into the given destination.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
