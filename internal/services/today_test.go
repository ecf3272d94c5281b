package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner-service/internal/domain"
)

func todayFixture() []domain.TripDay {
	return []domain.TripDay{
		{Day: 1, Date: "09.04", Title: "Centro", Stops: []domain.Stop{
			{Name: "Zócalo", Time: "09:00"},
			{Name: "Bellas Artes", Time: "12:00"},
			{Name: "Garibaldi", Time: "20:00"},
		}},
		{Day: 5, Date: "13.04", Title: "Puebla", Stops: []domain.Stop{
			{Name: "Busterminal TAPO", Time: "07:30"},
		}},
		{Day: 3, Date: "11.04", Title: "Coyoacán", Stops: []domain.Stop{
			{Name: "Casa Azul", Time: "10:00"},
		}},
	}
}

func TestTodayInfoExactDayPicksNextStop(t *testing.T) {
	now := time.Date(2025, 4, 9, 11, 15, 0, 0, time.UTC)
	notes := map[string]domain.Note{}

	got, ok := TodayInfo(todayFixture(), notes, now)
	require.True(t, ok)
	assert.True(t, got.IsToday)
	assert.Equal(t, 1, got.Day.Day)
	require.NotNil(t, got.NextStop)
	assert.Equal(t, "Bellas Artes", got.NextStop.Name)
	assert.Equal(t, "Bellas Artes", got.Meeting)
}

func TestTodayInfoLateEveningFallsBackToLastStop(t *testing.T) {
	now := time.Date(2025, 4, 9, 23, 0, 0, 0, time.UTC)
	notes := map[string]domain.Note{"1": {MeetingPoint: " Metro Allende "}}

	got, ok := TodayInfo(todayFixture(), notes, now)
	require.True(t, ok)
	assert.Equal(t, "Garibaldi", got.NextStop.Name)
	assert.Equal(t, "Metro Allende", got.Meeting)
	assert.Equal(t, " Metro Allende ", got.Note.MeetingPoint)
}

func TestTodayInfoPicksNextUpcomingDay(t *testing.T) {
	// The year is ignored; dates are anchored to the travel year.
	now := time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC)

	got, ok := TodayInfo(todayFixture(), nil, now)
	require.True(t, ok)
	assert.False(t, got.IsToday)
	assert.Equal(t, "11.04", got.Day.Date)
	assert.Equal(t, "Casa Azul", got.NextStop.Name)
}

func TestTodayInfoAfterTripShowsFirstDay(t *testing.T) {
	now := time.Date(2025, 12, 24, 8, 0, 0, 0, time.UTC)

	got, ok := TodayInfo(todayFixture(), nil, now)
	require.True(t, ok)
	assert.Equal(t, "09.04", got.Day.Date)
	assert.Equal(t, "Zócalo", got.NextStop.Name)
}

func TestTodayInfoWithoutDays(t *testing.T) {
	_, ok := TodayInfo(nil, nil, time.Now())
	assert.False(t, ok)
}
