package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/services"
)

// Deps are the services the HTTP layer talks to.
type Deps struct {
	Trip     *services.TripService
	Resolver *services.PlaceResolver
	Docs     *services.DocumentService
	Sync     *services.SyncService
	Weather  *services.WeatherService
	Photos   *services.PhotoService
	Extract  handlers.ExtractFunc
	Location *time.Location
	Now      func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	trip := &handlers.TripHandler{Trip: d.Trip, Resolver: d.Resolver, Now: d.Now}
	doc := &handlers.DocumentHandler{Docs: d.Docs, Sync: d.Sync, Extract: d.Extract}
	notes := &handlers.NotesHandler{Sync: d.Sync, Trip: d.Trip}
	sync := &handlers.SyncHandler{Sync: d.Sync}
	weather := &handlers.WeatherHandler{Weather: d.Weather, Loc: d.Location}
	photos := &handlers.PhotoHandler{Photos: d.Photos}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(loggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Get("/days", trip.Days)
	r.Get("/days/{day}", trip.Day)
	r.Get("/schedule", trip.Schedule)
	r.Get("/schedule/{date}/subpoints", trip.Subpoints)
	r.Get("/schedule/{date}/sections/{time}", trip.Section)
	r.Get("/today", trip.Today)

	r.Route("/document", func(r chi.Router) {
		r.Get("/", doc.Get)
		r.Put("/", doc.Replace)
		r.Patch("/paragraphs/{index}", doc.UpdateParagraph)
		r.Post("/reset", doc.Reset)
		r.Get("/export", doc.Export)
		r.Post("/import", doc.Import)
		r.Post("/sync", doc.Push)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", notes.List)
		r.Get("/export", notes.Export)
		r.Put("/{day}", notes.SetFreeText)
		r.Put("/{day}/{field}", notes.SetField)
		r.Delete("/{day}", notes.Delete)
	})

	r.Post("/sync", sync.Pull)
	r.Get("/sync/status", sync.Status)
	r.Put("/sync/mode", sync.SetMode)
	r.Put("/sync/user", sync.SetUser)

	r.Get("/weather", weather.Overview)
	r.Get("/weather/{city}", weather.Current)
	r.Get("/weather/{city}/forecast", weather.Forecast)

	r.Get("/photos", photos.Lookup)

	r.Post("/places/resolve", trip.ResolvePlaces)
	r.Get("/places/cache", trip.PlaceCache)
	r.Delete("/places/cache/{key}", trip.EvictPlace)

	return r
}
