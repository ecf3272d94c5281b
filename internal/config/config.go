package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     int    `validate:"gt=0,lte=65535"`
	LogLevel string `validate:"oneof=trace debug info warn warning error"`
	Timezone string `validate:"required"`

	// Local state
	DBPath   string `validate:"required"`
	SeedPath string

	// Optional shared caches
	DatabaseURL string `validate:"omitempty,url"`
	RedisURL    string `validate:"omitempty,url"`

	// Remote sync endpoint
	AppsScriptURL string `validate:"omitempty,url"`
	UserName      string
	SyncInterval  time.Duration `validate:"gte=1s"`

	// Third-party APIs
	GoogleMapsAPIKey string
	WeatherAPIKey    string

	// Place resolution
	PlacesBatchLimit int     `validate:"gt=0"`
	PlacesRatePerSec float64 `validate:"gt=0"`
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     GetInt("PORT", 8080),
		LogLevel: strings.ToLower(Get("LOG_LEVEL", "info")),
		Timezone: Get("TIMEZONE", "America/Mexico_City"),

		DBPath:   Get("DB_PATH", "data/trip.db"),
		SeedPath: Get("SEED_PATH", "data/seeds/reiseplan-text.json"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		AppsScriptURL: os.Getenv("APPS_SCRIPT_URL"),
		UserName:      Get("USER_NAME", "Reisender"),
		SyncInterval:  GetDuration("SYNC_INTERVAL", 30*time.Second),

		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		WeatherAPIKey:    os.Getenv("WEATHER_API_KEY"),

		PlacesBatchLimit: GetInt("PLACES_BATCH_LIMIT", 12),
		PlacesRatePerSec: GetFloat("PLACES_RATE_PER_SEC", 2),
	}
}

// Validate checks ranges and URL formats.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid config: timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
