package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/cloud"
	"trip-planner-service/internal/adapters/extract"
	"trip-planner-service/internal/adapters/places"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/adapters/weather"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logger"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
	"trip-planner-service/internal/tripdata"
)

const photoCacheTTL = 30 * 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters (SQLite, Postgres, Redis, Google, OpenWeather,
// Apps Script) behind ports and starts the HTTP server.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("configuration rejected", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		logger.Fatal("invalid log level", err)
	}
	loc := cfg.Location()

	sqliteDB, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		logger.Fatal("open local database", err)
	}
	defer sqliteDB.Close()

	if err := initAndSeed(sqliteDB, cfg.SeedPath); err != nil {
		logger.Fatal("init local database", err)
	}

	days, err := tripdata.Load()
	if err != nil {
		logger.Fatal("load trip data", err)
	}

	placeCache, closePlaces, err := openPlaceCache(cfg, sqliteDB)
	if err != nil {
		logger.Fatal("open place cache", err)
	}
	defer closePlaces()

	photoCache, closePhotos, err := openPhotoCache(cfg, sqliteDB)
	if err != nil {
		logger.Fatal("open photo cache", err)
	}
	defer closePhotos()

	// One rate-limited client serves both resolution and photo lookups.
	google := places.NewGoogleClient(cfg.GoogleMapsAPIKey, places.WithRateLimit(cfg.PlacesRatePerSec))
	if cfg.GoogleMapsAPIKey == "" {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, place lookups disabled")
	}
	resolver := services.NewPlaceResolver(
		places.NewSearchGeocoder(google),
		placeCache,
		services.NewKnownPlaces(days),
		cfg.PlacesBatchLimit,
	)

	docs := services.NewDocumentService(repositories.NewSqliteDocumentRepository(sqliteDB))
	notes := repositories.NewSqliteNoteRepository(sqliteDB)
	syncSvc := services.NewSyncService(
		cloud.NewAppsScriptClient(cfg.AppsScriptURL, nil),
		notes,
		docs,
		repositories.NewSqliteSettingsRepository(sqliteDB),
		cfg.UserName,
	)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := syncSvc.Init(initCtx); err != nil {
		logger.Error("initial sync failed", err)
	}
	cancelInit()

	scheduler := services.NewSyncScheduler(syncSvc, cfg.SyncInterval)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("start sync scheduler", err)
	}
	defer scheduler.Stop()

	router := api.NewRouter(api.Deps{
		Trip:     services.NewTripService(days, docs, notes, resolver, loc),
		Resolver: resolver,
		Docs:     docs,
		Sync:     syncSvc,
		Weather:  services.NewWeatherService(weather.NewOpenWeatherClient(cfg.WeatherAPIKey, weather.WithLocation(loc))),
		Photos:   services.NewPhotoService(google, photoCache),
		Extract:  extractUpload,
		Location: loc,
		Now:      func() time.Time { return time.Now().In(loc) },
	})

	// Timeouts are tuned for cold-cache place resolution (external API latency).
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", map[string]interface{}{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", err)
		}
	case sig := <-stop:
		logger.Info("shutting down", map[string]interface{}{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", err)
		}
	}
}

// initAndSeed creates the local schema and loads the original document once.
func initAndSeed(sqliteDB *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(sqliteDB); err != nil {
		return err
	}

	seeded, err := repositories.IsSeeded(context.Background(), sqliteDB)
	if err != nil {
		return err
	}
	if seeded || seedPath == "" {
		return nil
	}

	n, err := repositories.SeedFromJSON(sqliteDB, seedPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("seed file missing, starting with an empty document", map[string]interface{}{"path": seedPath})
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("document seeded", map[string]interface{}{"path": seedPath, "paragraphs": n})
	return nil
}

// openPlaceCache prefers the shared Postgres cache when DATABASE_URL is set.
func openPlaceCache(cfg config.Config, sqliteDB *sql.DB) (ports.PlaceCache, func(), error) {
	if cfg.DatabaseURL == "" {
		return cache.NewSqlitePlaceCache(sqliteDB), func() {}, nil
	}

	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitPlaceCacheSchema(pg); err != nil {
		pg.Close()
		return nil, nil, err
	}
	logger.Info("using shared postgres place cache")
	return cache.NewSQLPlaceCache(pg), func() { pg.Close() }, nil
}

// openPhotoCache prefers Redis when REDIS_URL is set.
func openPhotoCache(cfg config.Config, sqliteDB *sql.DB) (ports.PhotoCache, func(), error) {
	if cfg.RedisURL == "" {
		return cache.NewSqlitePhotoCache(sqliteDB), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	logger.Info("using redis photo cache")
	return cache.NewRedisPhotoCache(client, photoCacheTTL), func() { client.Close() }, nil
}

func extractUpload(filename string, r io.Reader) (string, error) {
	ex, err := extract.ForFile(filename)
	if err != nil {
		return "", err
	}
	return ex.Extract(r)
}
