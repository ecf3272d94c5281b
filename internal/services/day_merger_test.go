package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner-service/internal/domain"
)

func stopNames(stops []domain.Stop) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.Name
	}
	return out
}

func TestEnsureHomeBaseAddsStartAndReturn(t *testing.T) {
	stops := []domain.Stop{
		{Name: "Zócalo", Time: "09:30"},
		{Name: "Bellas Artes", Time: "ca. mittags"},
		{Name: "Garibaldi", Time: "20:15"},
	}

	got := EnsureHomeBase(stops, Navarte)
	require.Len(t, got, 5)
	assert.Equal(t, "Navarte (Start)", got[0].Name)
	assert.Equal(t, "09:30", got[0].Time)
	assert.Equal(t, domain.StopKindBase, got[0].Kind)
	assert.Equal(t, Navarte.Coordinates, got[0].Coordinates)
	assert.Equal(t, "Navarte (Rückkehr)", got[4].Name)
	assert.Equal(t, "20:15", got[4].Time)
}

func TestEnsureHomeBaseFallsBackToDefaultTimes(t *testing.T) {
	got := EnsureHomeBase([]domain.Stop{{Name: "Xochimilco", Time: "flexibel"}}, Navarte)
	require.Len(t, got, 3)
	assert.Equal(t, "08:00", got[0].Time)
	assert.Equal(t, "22:00", got[2].Time)
}

func TestEnsureHomeBaseKeepsExistingBaseStops(t *testing.T) {
	stops := []domain.Stop{
		{Name: "Navarte Start", Time: "07:00"},
		{Name: "Coyoacán", Time: "10:00"},
		{Name: "Zurück nach Navarte (Rueckkehr)", Time: "19:00"},
	}
	got := EnsureHomeBase(stops, Navarte)
	assert.Equal(t, stopNames(stops), stopNames(got))
}

func TestMergeDaysAppliesHomeBaseOnlyInRange(t *testing.T) {
	days := []domain.TripDay{
		{Day: 0, Date: "08.04", Stops: []domain.Stop{{Name: "Flughafen", Time: "18:00"}}},
		{Day: 12, Date: "20.04", Stops: []domain.Stop{{Name: "Roma", Time: "10:00"}}},
		{Day: 13, Date: "21.04", Stops: []domain.Stop{{Name: "Tulum", Time: "10:00"}}},
	}

	merged := MergeDays(days, nil, NewKnownPlaces(days), nil, Navarte)
	require.Len(t, merged, 3)
	assert.Len(t, merged[0].Stops, 3)
	assert.Len(t, merged[1].Stops, 3)
	assert.Equal(t, []string{"Tulum"}, stopNames(merged[2].Stops))

	// Canonical records stay untouched.
	assert.Len(t, days[0].Stops, 1)
}

func TestMergeDaysInjectsResolvedPlacesAfterMatchingTime(t *testing.T) {
	days := []domain.TripDay{{
		Day:  13,
		Date: "21.04",
		Stops: []domain.Stop{
			{Name: "Tulum Ruinen", Time: "08:00"},
			{Name: "Playa Paraíso", Time: "12:00"},
		},
	}}
	schedule := ParseSchedule([]string{
		"21.04",
		"Früh 08:00",
		"Cenote Calavera",
		"Tulum Ruinen Eingang",
		"Abend 19:00",
		"Mercado Nocturno",
		"Nachmittag 12:00",
		"Casa Imaginaria",
		"Playa paraíso nochmal",
	})
	cache := map[string]domain.ResolvedPlace{
		"cenote calavera":  {Key: "cenote calavera", Name: "Cenote Calavera", Status: domain.PlaceStatusOK, Coordinates: domain.Coordinates{Lat: 20.24, Lng: -87.48}},
		"mercado nocturno": {Key: "mercado nocturno", Status: domain.PlaceStatusOK, Coordinates: domain.Coordinates{Lat: 20.2, Lng: -87.4}},
		"casa imaginaria":  {Key: "casa imaginaria", Status: domain.PlaceStatusNotFound},
	}

	merged := MergeDays(days, schedule, NewKnownPlaces(days), cache, Navarte)
	require.Len(t, merged, 1)

	stops := merged[0].Stops
	assert.Equal(t, []string{"Tulum Ruinen", "Cenote Calavera", "Playa Paraíso", "Mercado Nocturno"}, stopNames(stops))

	assert.Equal(t, "08:00", stops[1].Time)
	assert.Equal(t, "Optional", stops[1].Duration)
	assert.Equal(t, domain.StopKindOptional, stops[1].Kind)
	assert.Equal(t, "19:00", stops[3].Time)
}

func TestMergeDaysNeverDuplicatesCanonicalStops(t *testing.T) {
	days := []domain.TripDay{{
		Day:   3,
		Date:  "11.04",
		Stops: []domain.Stop{{Name: "Museo Frida Kahlo", Time: "10:00"}},
	}}
	schedule := ParseSchedule([]string{"11.04", "Vormittag 10:00", "Casa Azul", "Museo Frida Kahlo"})

	// A resolver hit whose name matches an existing stop in another case.
	cache := map[string]domain.ResolvedPlace{
		"casa azul": {Key: "casa azul", Name: "MUSEO FRIDA KAHLO", Status: domain.PlaceStatusOK},
	}

	merged := MergeDays(days, schedule, nil, cache, Navarte)
	names := stopNames(merged[0].Stops)
	assert.Equal(t, []string{"Navarte (Start)", "Museo Frida Kahlo", "Navarte (Rückkehr)"}, names)
}
