package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/cloud"
	"trip-planner-service/internal/adapters/extract"
	"trip-planner-service/internal/adapters/places"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/adapters/weather"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/services"
	"trip-planner-service/internal/tripdata"
)

var seedDoc = []string{
	"09.04",
	"Vormittag 10:00",
	"Palacio de Iturbide: Architektur",
	"Kosten: 200 MXN",
	"Nachmittag 14:00",
	"Mercado de Medellín",
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	sqlDB, err := db.OpenSqlite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repositories.InitSchema(sqlDB))
	require.NoError(t, repositories.SeedParagraphs(context.Background(), sqlDB, seedDoc))

	days, err := tripdata.Load()
	require.NoError(t, err)

	provider := places.NewMockPlaces(map[string]places.MockPlace{
		"Palacio de Iturbide, Mexico": {Name: "Palacio de Iturbide", PlaceID: "it-geo", Coords: domain.Coordinates{Lat: 19.4337, Lng: -99.1379}},
		"Palacio de Iturbide":         {Name: "Palacio de Iturbide", PlaceID: "it", Details: []domain.PlacePhoto{{URL: "https://img/1"}}},
	})

	docs := services.NewDocumentService(repositories.NewSqliteDocumentRepository(sqlDB))
	notes := repositories.NewSqliteNoteRepository(sqlDB)
	resolver := services.NewPlaceResolver(places.NewSearchGeocoder(provider), cache.NewSqlitePlaceCache(sqlDB), services.NewKnownPlaces(days), 0)
	syncSvc := services.NewSyncService(cloud.NewAppsScriptClient("", nil), notes, docs, repositories.NewSqliteSettingsRepository(sqlDB), "Reisender")

	router := NewRouter(Deps{
		Trip:     services.NewTripService(days, docs, notes, resolver, time.UTC),
		Resolver: resolver,
		Docs:     docs,
		Sync:     syncSvc,
		Weather:  services.NewWeatherService(weather.NewOpenWeatherClient("")),
		Photos:   services.NewPhotoService(provider, cache.NewSqlitePhotoCache(sqlDB)),
		Extract: func(name string, r io.Reader) (string, error) {
			ex, err := extract.ForFile(name)
			if err != nil {
				return "", err
			}
			return ex.Extract(r)
		},
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, 4, 9, 9, 0, 0, 0, time.UTC) },
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, contentType string, body io.Reader) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	resp, b := do(t, srv, method, path, "application/json", r)
	if out != nil && len(b) > 0 {
		require.NoError(t, json.Unmarshal(b, out), string(b))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	var got map[string]string
	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/health", nil, &got))
	assert.Equal(t, "ok", got["status"])

	resp, _ := do(t, srv, http.MethodPost, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestDocumentLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var doc struct{ Paragraphs []string }
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/document", nil, &doc))
	assert.Equal(t, seedDoc, doc.Paragraphs)

	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPatch, "/document/paragraphs/2", map[string]string{"text": "Casa de los Azulejos"}, &doc))
	assert.Equal(t, "Casa de los Azulejos", doc.Paragraphs[2])

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodPatch, "/document/paragraphs/99", map[string]string{"text": "x"}, &errBody))
	assert.Contains(t, errBody["error"], "out of range")

	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodPut, "/document", map[string]any{"paragraphs": []string{"a"}, "extra": 1}, nil))

	resp, text := do(t, srv, http.MethodGet, "/document/export", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	resp, _ = do(t, srv, http.MethodPost, "/document/import", "text/plain", bytes.NewReader(text))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/document", nil, &doc))
	assert.Equal(t, "Casa de los Azulejos", doc.Paragraphs[2])
	assert.Len(t, doc.Paragraphs, len(seedDoc))

	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPost, "/document/reset", nil, &doc))
	assert.Equal(t, seedDoc, doc.Paragraphs)
}

func TestDocumentExportImportKeepsParagraphs(t *testing.T) {
	srv := newTestServer(t)

	paragraphs := []string{"09.04", "Zócalo  besuchen", "Kosten:\t200 MXN"}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPut, "/document", map[string][]string{"paragraphs": paragraphs}, nil))

	_, text := do(t, srv, http.MethodGet, "/document/export", "", nil)
	resp, b := do(t, srv, http.MethodPost, "/document/import", "text/plain", bytes.NewReader(text))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))

	var doc struct{ Paragraphs []string }
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/document", nil, &doc))
	assert.Equal(t, paragraphs, doc.Paragraphs)
}

func TestDocumentImportFromMarkdownUpload(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "plan.md")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "# 10.04\n\n## Vormittag 9:00\n\n- Teotihuacán\n")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, b := do(t, srv, http.MethodPost, "/document/import", mw.FormDataContentType(), &body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))

	var doc struct{ Paragraphs []string }
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, []string{"10.04", "Vormittag 9:00", "Teotihuacán"}, doc.Paragraphs)
}

func TestScheduleAndDays(t *testing.T) {
	srv := newTestServer(t)

	var sub struct {
		Date  string
		Lines []string
	}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/schedule/09.04/subpoints", nil, &sub))
	assert.Equal(t, []string{"Palacio de Iturbide: Architektur", "Kosten: 200 MXN", "Mercado de Medellín"}, sub.Lines)

	var report services.ResolveReport
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPost, "/places/resolve", nil, &report))
	assert.Equal(t, 1, report.Resolved)

	var day domain.TripDay
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/days/1", nil, &day))
	assert.True(t, day.HasStopNamed("Palacio de Iturbide"))

	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodGet, "/days/99", nil, nil))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodGet, "/days/eins", nil, nil))

	var cached struct {
		Places map[string]domain.ResolvedPlace
	}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/places/cache", nil, &cached))
	assert.Contains(t, cached.Places, "palacio de iturbide")

	resp, _ := do(t, srv, http.MethodDelete, "/places/cache/Palacio%20de%20Iturbide", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var afterEvict struct {
		Places map[string]domain.ResolvedPlace
	}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/places/cache", nil, &afterEvict))
	assert.NotContains(t, afterEvict.Places, "palacio de iturbide")
	assert.Len(t, afterEvict.Places, len(cached.Places)-1)
}

func TestSectionForStopTime(t *testing.T) {
	srv := newTestServer(t)

	var section domain.Section
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/schedule/09.04/sections/14:00", nil, &section))
	assert.Equal(t, "Nachmittag 14:00", section.Label)
	assert.Equal(t, []string{"Mercado de Medellín"}, section.Items)

	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodGet, "/schedule/09.04/sections/18:00", nil, nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodGet, "/schedule/31.12/sections/10:00", nil, nil))
}

func TestNotesInLocalMode(t *testing.T) {
	srv := newTestServer(t)

	var st services.SyncStatus
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPut, "/sync/mode", map[string]string{"mode": "local"}, &st))
	assert.Equal(t, domain.SyncModeLocal, st.Mode)

	var note struct {
		Day     string
		Note    domain.Note
		Preview string
	}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPut, "/notes/Tag%201/treffpunkt", map[string]string{"value": "Metro Insurgentes"}, &note))
	assert.Equal(t, "1", note.Day)
	assert.Equal(t, "Treffpunkt: Metro Insurgentes", note.Preview)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodPut, "/notes/1/farbe", map[string]string{"value": "rot"}, nil))

	var today services.Today
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/today", nil, &today))
	assert.True(t, today.IsToday)
	assert.Equal(t, "Metro Insurgentes", today.Meeting)

	resp, text := do(t, srv, http.MethodGet, "/notes/export", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(text), "Tag 1 - 09.04"))

	resp, _ = do(t, srv, http.MethodDelete, "/notes/1", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var list struct {
		Notes map[string]domain.Note
		Count int
	}
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/notes", nil, &list))
	assert.Zero(t, list.Count)
}

func TestSyncWithoutEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var res services.SyncResult
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPost, "/sync", nil, &res))
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "not configured")

	assert.Equal(t, http.StatusBadGateway, doJSON(t, srv, http.MethodPost, "/document/sync", nil, nil))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodPut, "/sync/mode", map[string]string{"mode": "hybrid"}, nil))

	var st services.SyncStatus
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodPut, "/sync/user", map[string]string{"user_name": "Ana"}, &st))
	assert.Equal(t, "Ana", st.UserName)
	assert.False(t, st.Online)
}

func TestWeatherUnavailable(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, srv, http.MethodGet, "/weather", nil, nil))
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, srv, http.MethodGet, "/weather/Tulum", nil, nil))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodGet, "/weather/Tulum/forecast?date=10.04", nil, nil))
}

func TestPhotos(t *testing.T) {
	srv := newTestServer(t)

	var res domain.PhotoResult
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/photos?q=Palacio+de+Iturbide", nil, &res))
	assert.True(t, res.OK)
	assert.Equal(t, []string{"https://img/1"}, res.URLs)

	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/photos?q=Palacio+de+Iturbide", nil, &res))
	assert.True(t, res.FromCache)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodGet, "/photos?q=x&lat=abc&lng=1", nil, nil))
}
