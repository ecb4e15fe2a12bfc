// Package handlers contains the JSON HTTP handlers for the skill service.
// Handlers are grouped by resource (categories, skills) and receive their
// dependencies through the handler struct. This is the only layer that
// translates business error kinds into HTTP status codes.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HBTGmbH/pwr-skill-service/internal/apperr"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError renders a business error with its mapped status, and any
// other error as an opaque 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if e := apperr.As(err); e != nil {
		writeJSON(w, e.Status(), e)
		return
	}
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
}

// idParam parses an integer URL parameter.
func idParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name, "must be an integer")
	}
	return id, nil
}
