package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/services"
)

// TripHandler serves the merged itinerary, the parsed schedule and the
// place resolution endpoints.
type TripHandler struct {
	Trip     *services.TripService
	Resolver *services.PlaceResolver
	Now      func() time.Time
}

func (h *TripHandler) Days(w http.ResponseWriter, r *http.Request) {
	days, err := h.Trip.Days(r.Context())
	if err != nil {
		writeServiceError(w, r, "list days", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ListDaysResponse{Days: days})
}

func (h *TripHandler) Day(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "day must be a number")
		return
	}

	day, err := h.Trip.Day(r.Context(), n)
	if err != nil {
		writeServiceError(w, r, "get day", err)
		return
	}
	writeJSON(w, r, http.StatusOK, day)
}

func (h *TripHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.Trip.Schedule(r.Context())
	if err != nil {
		writeServiceError(w, r, "parse schedule", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ScheduleResponse{Schedule: schedule})
}

func (h *TripHandler) Subpoints(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	lines, err := h.Trip.Subpoints(r.Context(), date)
	if err != nil {
		writeServiceError(w, r, "subpoints", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.SubpointsResponse{Date: date, Lines: lines})
}

func (h *TripHandler) Section(w http.ResponseWriter, r *http.Request) {
	section, err := h.Trip.SectionAt(r.Context(), chi.URLParam(r, "date"), chi.URLParam(r, "time"))
	if err != nil {
		writeServiceError(w, r, "section", err)
		return
	}
	writeJSON(w, r, http.StatusOK, section)
}

func (h *TripHandler) Today(w http.ResponseWriter, r *http.Request) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	today, ok, err := h.Trip.Today(r.Context(), now())
	if err != nil {
		writeServiceError(w, r, "today", err)
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "no trip days")
		return
	}
	writeJSON(w, r, http.StatusOK, today)
}

// ResolvePlaces runs one lookup batch. A client disconnect cancels the
// batch; results already written to the cache are kept.
func (h *TripHandler) ResolvePlaces(w http.ResponseWriter, r *http.Request) {
	report, err := h.Trip.ResolvePlaces(r.Context())
	if err != nil {
		writeServiceError(w, r, "resolve places", err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (h *TripHandler) PlaceCache(w http.ResponseWriter, r *http.Request) {
	places, err := h.Resolver.Cache(r.Context())
	if err != nil {
		writeServiceError(w, r, "place cache", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.PlaceCacheResponse{Places: places})
}

func (h *TripHandler) EvictPlace(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, r, http.StatusBadRequest, "key is required")
		return
	}
	if err := h.Resolver.Evict(r.Context(), services.NormalizeKey(key)); err != nil {
		writeServiceError(w, r, "evict place", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
