package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"trip-planner-service/internal/services"
)

type WeatherHandler struct {
	Weather *services.WeatherService
	Loc     *time.Location
}

func cityParam(r *http.Request) string {
	raw := chi.URLParam(r, "city")
	if city, err := url.PathUnescape(raw); err == nil {
		raw = city
	}
	return strings.TrimSpace(raw)
}

func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	city := cityParam(r)
	view, err := h.Weather.Current(r.Context(), city)
	if err != nil {
		writeServiceError(w, r, "current weather", err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// Forecast returns the 5-day forecast, or a single day for ?date=YYYY-MM-DD.
func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	city := cityParam(r)

	if raw := r.URL.Query().Get("date"); raw != "" {
		loc := h.Loc
		if loc == nil {
			loc = time.UTC
		}
		date, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day, err := h.Weather.ForecastForDate(r.Context(), city, date)
		if err != nil {
			writeServiceError(w, r, "forecast for date", err)
			return
		}
		if day == nil {
			writeError(w, r, http.StatusNotFound, "no forecast for date")
			return
		}
		writeJSON(w, r, http.StatusOK, day)
		return
	}

	days, err := h.Weather.Forecast(r.Context(), city)
	if err != nil {
		writeServiceError(w, r, "forecast", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"city": city, "days": days})
}

func (h *WeatherHandler) Overview(w http.ResponseWriter, r *http.Request) {
	views, err := h.Weather.Overview(r.Context(), services.TripCities)
	if err != nil {
		writeServiceError(w, r, "weather overview", err)
		return
	}
	writeJSON(w, r, http.StatusOK, views)
}
