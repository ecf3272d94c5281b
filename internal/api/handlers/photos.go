package handlers

import (
	"net/http"
	"strconv"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

type PhotoHandler struct {
	Photos *services.PhotoService
}

// Lookup serves GET /photos?q=...&lat=...&lng=... where lat and lng are optional.
func (h *PhotoHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var bias *domain.Coordinates
	if q.Get("lat") != "" || q.Get("lng") != "" {
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
		if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			writeError(w, r, http.StatusBadRequest, "lat and lng must be valid coordinates")
			return
		}
		bias = &domain.Coordinates{Lat: lat, Lng: lng}
	}

	res, err := h.Photos.Lookup(r.Context(), q.Get("q"), bias)
	if err != nil {
		writeServiceError(w, r, "photo lookup", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
