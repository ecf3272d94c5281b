package domain

import (
	"fmt"
	"time"
)

// CurrentWeather is a snapshot for one city.
type CurrentWeather struct {
	City        string  `json:"city"`
	Temp        int     `json:"temp"`
	FeelsLike   int     `json:"feelsLike"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	Wind        float64 `json:"wind"`
}

// DailyForecast aggregates the 3-hourly entries of one calendar day.
type DailyForecast struct {
	Date        string  `json:"date"`
	TempMin     int     `json:"tempMin"`
	TempMax     int     `json:"tempMax"`
	TempAvg     int     `json:"tempAvg"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Rain        float64 `json:"rain"`
}

// SyncMode selects whether edits are pushed to the remote endpoint.
type SyncMode string

const (
	SyncModeCloud SyncMode = "cloud"
	SyncModeLocal SyncMode = "local"
)

func (m SyncMode) Valid() bool { return m == SyncModeCloud || m == SyncModeLocal }

// Toggle flips between cloud and local.
func (m SyncMode) Toggle() SyncMode {
	if m == SyncModeCloud {
		return SyncModeLocal
	}
	return SyncModeCloud
}

// ForecastDateKey renders a calendar date the way forecasts are grouped: "D.M.YYYY".
func ForecastDateKey(t time.Time) string {
	return fmt.Sprintf("%d.%d.%d", t.Day(), int(t.Month()), t.Year())
}
