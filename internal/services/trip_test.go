package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner-service/internal/adapters/places"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/tripdata"
)

func newTripFixture(t *testing.T, doc []string) (*TripService, *places.MockPlaces, *memNotes) {
	t.Helper()
	days, err := tripdata.Load()
	require.NoError(t, err)

	provider := places.NewMockPlaces(map[string]places.MockPlace{
		"Palacio de Iturbide, Mexico": {Name: "Palacio de Iturbide", PlaceID: "az", Coords: domain.Coordinates{Lat: 19.4337, Lng: -99.1379}},
	})
	resolver := NewPlaceResolver(places.NewSearchGeocoder(provider), newMemPlaceCache(), NewKnownPlaces(days), 0)
	notes := newMemNotes()
	docs := NewDocumentService(&memDocs{original: doc})
	return NewTripService(days, docs, notes, resolver, time.UTC), provider, notes
}

func TestTripServiceResolveThenMerge(t *testing.T) {
	days, err := tripdata.Load()
	require.NoError(t, err)
	var first domain.TripDay
	for _, d := range days {
		if d.Day == 1 {
			first = d
		}
	}
	require.NotEmpty(t, first.Stops)
	anchor := first.Stops[len(first.Stops)-1].Time

	svc, provider, _ := newTripFixture(t, []string{
		first.Date,
		"Abend " + anchor,
		"Palacio de Iturbide: Kaffee",
	})
	ctx := context.Background()

	report, err := svc.ResolvePlaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Resolved)
	assert.Equal(t, 1, provider.Calls("Palacio de Iturbide, Mexico"))

	day, err := svc.Day(ctx, 1)
	require.NoError(t, err)
	assert.True(t, day.HasStopNamed("Palacio de Iturbide"))
	assert.True(t, day.HasStopNamed("Navarte (Start)"))

	_, err = svc.Day(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrDayNotFound)

	lines, err := svc.Subpoints(ctx, first.Date)
	require.NoError(t, err)
	assert.Equal(t, []string{"Palacio de Iturbide: Kaffee"}, lines)

	lines, err = svc.Subpoints(ctx, "31.12")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestTripServiceTodayUsesNotes(t *testing.T) {
	svc, _, notes := newTripFixture(t, nil)
	notes.notes["1"] = domain.Note{MeetingPoint: "Metro Insurgentes"}

	days := svc.CanonicalDays()
	var date string
	for _, d := range days {
		if d.Day == 1 {
			date = d.Date
		}
	}
	parsed, err := time.Parse("02.01", date)
	require.NoError(t, err)
	now := time.Date(TravelYear, parsed.Month(), parsed.Day(), 6, 0, 0, 0, time.UTC)

	today, ok, err := svc.Today(context.Background(), now)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, today.IsToday)
	assert.Equal(t, "Metro Insurgentes", today.Meeting)

	text, err := svc.ExportNotes(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Treffpunkt: Metro Insurgentes")
}

func TestTripServiceSectionAtKeepsFirstForStartTime(t *testing.T) {
	svc, _, _ := newTripFixture(t, []string{
		"09.04",
		"Vormittag 10:00",
		"Parque de los Venados",
		"Alternative 10:00 - 12:00",
		"Roma Norte",
	})
	ctx := context.Background()

	section, err := svc.SectionAt(ctx, "09.04", "10:00")
	require.NoError(t, err)
	assert.Equal(t, "Vormittag 10:00", section.Label)
	assert.Equal(t, []string{"Parque de los Venados"}, section.Items)

	_, err = svc.SectionAt(ctx, "09.04", "12:00")
	assert.ErrorIs(t, err, domain.ErrSectionNotFound)

	_, err = svc.SectionAt(ctx, "10.04", "10:00")
	assert.ErrorIs(t, err, domain.ErrSectionNotFound)
}
