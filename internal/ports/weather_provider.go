package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for retrieving weather for a city.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (*domain.CurrentWeather, error)
	Forecast(ctx context.Context, city string) ([]domain.DailyForecast, error)
}
