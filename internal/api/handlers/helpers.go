package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logger"
)

const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode failed", err, map[string]interface{}{"method": r.Method, "path": r.URL.Path})
	}
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors to status codes. Unknown errors are
// logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrDayNotFound),
		errors.Is(err, domain.ErrSectionNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidParagraphIndex),
		errors.Is(err, domain.ErrUnknownNoteField),
		errors.Is(err, domain.ErrInvalidSyncMode):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrWeatherUnavailable),
		errors.Is(err, domain.ErrPlacesUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "upstream timeout")
	default:
		logger.Error(op+" failed", err, map[string]interface{}{"method": r.Method, "path": r.URL.Path})
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads exactly one JSON object into dst. It writes the error
// response itself and reports false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}
