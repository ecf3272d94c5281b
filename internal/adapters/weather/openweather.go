package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultTimeout = 10 * time.Second

	forecastDays = 5
)

// OpenWeatherClient fetches current weather and the 5-day/3-hour forecast
// for Mexican cities. It implements ports.WeatherProvider.
type OpenWeatherClient struct {
	session *http.Client
	apiKey  string
	baseURL string
	loc     *time.Location
}

type Option func(*OpenWeatherClient)

func WithBaseURL(baseURL string) Option {
	return func(c *OpenWeatherClient) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenWeatherClient) { c.session = client }
}

// WithLocation sets the zone used to group forecast entries into days.
func WithLocation(loc *time.Location) Option {
	return func(c *OpenWeatherClient) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func NewOpenWeatherClient(apiKey string, opts ...Option) *OpenWeatherClient {
	c := &OpenWeatherClient{
		session: &http.Client{Timeout: DefaultTimeout},
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type currentResponse struct {
	Main    mainBlock   `json:"main"`
	Weather []condition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type forecastResponse struct {
	List []struct {
		Dt      int64       `json:"dt"`
		Main    mainBlock   `json:"main"`
		Weather []condition `json:"weather"`
		Rain    struct {
			ThreeHours float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

func (c *OpenWeatherClient) Current(ctx context.Context, city string) (cw *domain.CurrentWeather, err error) {
	defer obs.Time(ctx, "weather.current")(&err)

	var body currentResponse
	if err := c.getJSON(ctx, "/weather", city, &body); err != nil {
		return nil, fmt.Errorf("current weather %s: %w", city, err)
	}

	out := &domain.CurrentWeather{
		City:      city,
		Temp:      round(body.Main.Temp),
		FeelsLike: round(body.Main.FeelsLike),
		Humidity:  body.Main.Humidity,
		Wind:      body.Wind.Speed,
	}
	if len(body.Weather) > 0 {
		out.Description = body.Weather[0].Description
		out.Icon = body.Weather[0].Icon
	}
	return out, nil
}

// Forecast groups the 3-hourly entries by local calendar day. The first
// entry of a day supplies description, icon and rain.
func (c *OpenWeatherClient) Forecast(ctx context.Context, city string) (days []domain.DailyForecast, err error) {
	defer obs.Time(ctx, "weather.forecast")(&err)

	var body forecastResponse
	if err := c.getJSON(ctx, "/forecast", city, &body); err != nil {
		return nil, fmt.Errorf("forecast %s: %w", city, err)
	}

	type bucket struct {
		day   domain.DailyForecast
		temps []float64
	}
	var order []string
	buckets := map[string]*bucket{}

	for _, item := range body.List {
		key := domain.ForecastDateKey(time.Unix(item.Dt, 0).In(c.loc))
		b, ok := buckets[key]
		if !ok {
			b = &bucket{day: domain.DailyForecast{Date: key, Rain: item.Rain.ThreeHours}}
			if len(item.Weather) > 0 {
				b.day.Description = item.Weather[0].Description
				b.day.Icon = item.Weather[0].Icon
			}
			buckets[key] = b
			order = append(order, key)
		}
		b.temps = append(b.temps, item.Main.Temp)
	}

	days = make([]domain.DailyForecast, 0, forecastDays)
	for _, key := range order {
		if len(days) == forecastDays {
			break
		}
		b := buckets[key]
		lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
		for _, t := range b.temps {
			lo = math.Min(lo, t)
			hi = math.Max(hi, t)
			sum += t
		}
		b.day.TempMin = round(lo)
		b.day.TempMax = round(hi)
		b.day.TempAvg = round(sum / float64(len(b.temps)))
		days = append(days, b.day)
	}
	return days, nil
}

func (c *OpenWeatherClient) getJSON(ctx context.Context, path, city string, dst any) error {
	if c.apiKey == "" {
		return domain.ErrWeatherUnavailable
	}

	q := url.Values{}
	q.Set("q", city+",MX")
	q.Set("units", "metric")
	q.Set("lang", "de")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("Code %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// round matches half-up rounding toward positive infinity.
func round(f float64) int {
	return int(math.Floor(f + 0.5))
}
