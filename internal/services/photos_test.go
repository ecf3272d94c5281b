package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner-service/internal/adapters/places"
	"trip-planner-service/internal/domain"
)

func samplePhotos(n int, prefix string) []domain.PlacePhoto {
	out := make([]domain.PlacePhoto, n)
	for i := range out {
		out[i] = domain.PlacePhoto{
			URL:          prefix + string(rune('a'+i)),
			Attributions: []string{"<a>Ana</a>"},
		}
	}
	return out
}

func TestPhotoLookupPrefersDetailsAndCaches(t *testing.T) {
	provider := places.NewMockPlaces(map[string]places.MockPlace{
		"Casa Azul": {PlaceID: "p1", Photos: samplePhotos(1, "search-"), Details: samplePhotos(7, "detail-")},
	})
	cache := newMemPhotoCache()
	svc := NewPhotoService(provider, cache)
	ctx := context.Background()

	res, err := svc.Lookup(ctx, " Casa Azul ", nil)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.False(t, res.FromCache)
	assert.Len(t, res.URLs, MaxPlacePhotos)
	assert.Equal(t, "detail-a", res.URLs[0])
	assert.Equal(t, "<a>Ana</a>", res.AttributionHTML)

	res, err = svc.Lookup(ctx, "Casa Azul", nil)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 1, provider.Calls("Casa Azul"))
}

func TestPhotoLookupFallsBackToSearchPhotos(t *testing.T) {
	provider := places.NewMockPlaces(map[string]places.MockPlace{
		"Cenote Azul": {PlaceID: "p2", Photos: samplePhotos(2, "search-")},
	})
	svc := NewPhotoService(provider, newMemPhotoCache())

	res, err := svc.Lookup(context.Background(), "Cenote Azul", &domain.TulumRegion)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, []string{"search-a", "search-b"}, res.URLs)
}

func TestPhotoLookupNegativeCaching(t *testing.T) {
	provider := places.NewMockPlaces(map[string]places.MockPlace{
		"Kein Foto": {PlaceID: "p3"},
	})
	provider.Statuses["Gesperrt"] = domain.PlaceStatusRequestDenied
	cache := newMemPhotoCache()
	svc := NewPhotoService(provider, cache)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := svc.Lookup(ctx, "Nirgendwo", nil)
		require.NoError(t, err)
		assert.False(t, res.OK)
		assert.Equal(t, domain.PlaceStatusZeroResults, res.Status)
		assert.Equal(t, i == 1, res.FromCache)

		res, err = svc.Lookup(ctx, "Kein Foto", nil)
		require.NoError(t, err)
		assert.False(t, res.OK)
		assert.Equal(t, i == 1, res.FromCache)

		res, err = svc.Lookup(ctx, "Gesperrt", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.PlaceStatusRequestDenied, res.Status)
		assert.False(t, res.FromCache)
	}

	assert.Equal(t, 1, provider.Calls("Nirgendwo"))
	assert.Equal(t, 1, provider.Calls("Kein Foto"))
	assert.Equal(t, 2, provider.Calls("Gesperrt"))

	assert.Equal(t, domain.PlaceStatus("DETAILS_NOT_FOUND"), cache.entries[PhotoCacheKey("Kein Foto", nil)].Status)
}

func TestPhotoLookupIgnoresTransientCacheEntries(t *testing.T) {
	provider := places.NewMockPlaces(map[string]places.MockPlace{
		"Zócalo": {PlaceID: "p4", Details: samplePhotos(1, "z-")},
	})
	cache := newMemPhotoCache()
	key := PhotoCacheKey("Zócalo", &domain.MexicoCity)
	cache.entries[key] = domain.CachedPhotos{Key: key, NotFound: true, Status: domain.PlaceStatusTimeout}
	svc := NewPhotoService(provider, cache)

	res, err := svc.Lookup(context.Background(), "Zócalo", &domain.MexicoCity)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1, provider.Calls("Zócalo"))
	assert.Equal(t, domain.PlaceStatusOK, cache.entries[key].Status)
}

func TestPhotoLookupEmptyQuery(t *testing.T) {
	svc := NewPhotoService(places.NewMockPlaces(nil), newMemPhotoCache())
	res, err := svc.Lookup(context.Background(), "   ", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PlaceStatusNoQuery, res.Status)
	assert.Empty(t, res.URLs)
}

func TestPhotoCacheKeySeparatesLocations(t *testing.T) {
	assert.NotEqual(t, PhotoCacheKey("Mercado", &domain.MexicoCity), PhotoCacheKey("Mercado", &domain.TulumRegion))
	assert.Equal(t, "mercado", PhotoCacheKey("Mercado", nil))
}

func TestPhotoLookupUnconfiguredProvider(t *testing.T) {
	svc := NewPhotoService(places.NewGoogleClient(""), newMemPhotoCache())
	_, err := svc.Lookup(context.Background(), "Zócalo", nil)
	assert.ErrorIs(t, err, domain.ErrPlacesUnavailable)
}
