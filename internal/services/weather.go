package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logger"
	"trip-planner-service/internal/ports"
)

// TripCities are the bases shown in the weather overview.
var TripCities = []string{"Mexico City", "Tulum", "Playa del Carmen"}

// IconURL returns the image URL for a weather icon code.
func IconURL(code string) string {
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", code)
}

// Advice gives short packing hints for a temperature, description and
// humidity. Parts are joined with " • ".
func Advice(temp int, description string, humidity int) string {
	var parts []string

	switch {
	case temp > 30:
		parts = append(parts, "☀️ Sehr warm - Sonnenschutz & viel Wasser!")
	case temp > 25:
		parts = append(parts, "🌤️ Angenehm warm - leichte Kleidung")
	case temp < 15:
		parts = append(parts, "🧥 Kühl - Jacke mitnehmen")
	}

	desc := strings.ToLower(description)
	if strings.Contains(desc, "regen") || strings.Contains(desc, "rain") {
		parts = append(parts, "☔ Regenschirm empfohlen")
	}

	if humidity > 80 {
		parts = append(parts, "💧 Hohe Luftfeuchtigkeit")
	}

	return strings.Join(parts, " • ")
}

// WeatherView is current weather decorated for display.
type WeatherView struct {
	domain.CurrentWeather
	IconURL string `json:"icon_url"`
	Advice  string `json:"advice"`
}

// ForecastView is a forecast day decorated for display.
type ForecastView struct {
	domain.DailyForecast
	IconURL string `json:"icon_url"`
	Advice  string `json:"advice"`
}

type WeatherService struct {
	provider ports.WeatherProvider
}

func NewWeatherService(provider ports.WeatherProvider) *WeatherService {
	return &WeatherService{provider: provider}
}

func (s *WeatherService) Current(ctx context.Context, city string) (*WeatherView, error) {
	w, err := s.provider.Current(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("current weather %q: %w", city, err)
	}
	return &WeatherView{
		CurrentWeather: *w,
		IconURL:        IconURL(w.Icon),
		Advice:         Advice(w.Temp, w.Description, w.Humidity),
	}, nil
}

func (s *WeatherService) Forecast(ctx context.Context, city string) ([]ForecastView, error) {
	days, err := s.provider.Forecast(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("forecast %q: %w", city, err)
	}
	out := make([]ForecastView, 0, len(days))
	for _, d := range days {
		out = append(out, ForecastView{
			DailyForecast: d,
			IconURL:       IconURL(d.Icon),
			Advice:        Advice(d.TempAvg, d.Description, 0),
		})
	}
	return out, nil
}

// ForecastForDate returns the forecast for one calendar day, or nil when
// the day is outside the forecast window.
func (s *WeatherService) ForecastForDate(ctx context.Context, city string, date time.Time) (*domain.DailyForecast, error) {
	days, err := s.provider.Forecast(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("forecast for date %q: %w", city, err)
	}
	key := domain.ForecastDateKey(date)
	for i := range days {
		if days[i].Date == key {
			return &days[i], nil
		}
	}
	return nil, nil
}

// Overview fetches current weather for several cities concurrently. A city
// that fails maps to nil; only an unconfigured provider fails the call.
func (s *WeatherService) Overview(ctx context.Context, cities []string) (map[string]*WeatherView, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]*WeatherView, len(cities))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, city := range cities {
		city := city
		g.Go(func() error {
			view, err := s.Current(gctx, city)
			if errors.Is(err, domain.ErrWeatherUnavailable) {
				return err
			}
			if err != nil {
				logger.Warn("weather unavailable for city", map[string]interface{}{"city": city, "error": err.Error()})
				view = nil
			}
			mu.Lock()
			out[city] = view
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("weather overview: %w", err)
	}
	return out, nil
}
