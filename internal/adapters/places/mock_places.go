package places

import (
	"context"
	"strings"
	"sync"

	"trip-planner-service/internal/domain"
)

// MockPlace is one canned search hit.
type MockPlace struct {
	Name    string
	PlaceID string
	Coords  domain.Coordinates
	Photos  []domain.PlacePhoto
	Details []domain.PlacePhoto
}

// MockPlaces answers searches from a fixed table keyed by query. Queries
// present in Statuses return that status instead. Calls are counted.
type MockPlaces struct {
	mu       sync.Mutex
	places   map[string]MockPlace
	Statuses map[string]domain.PlaceStatus
	calls    map[string]int
}

func NewMockPlaces(places map[string]MockPlace) *MockPlaces {
	return &MockPlaces{
		places:   places,
		Statuses: map[string]domain.PlaceStatus{},
		calls:    map[string]int{},
	}
}

func (m *MockPlaces) TextSearch(ctx context.Context, query string, bias *domain.Coordinates, radiusMeters int) (*domain.SearchResult, domain.PlaceStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[query]++
	if st, ok := m.Statuses[query]; ok {
		return nil, st, nil
	}
	p, ok := m.places[query]
	if !ok {
		return nil, domain.PlaceStatusZeroResults, nil
	}
	return &domain.SearchResult{PlaceID: p.PlaceID, Name: p.Name, Coordinates: p.Coords, Photos: p.Photos}, domain.PlaceStatusOK, nil
}

func (m *MockPlaces) PlacePhotos(ctx context.Context, placeID string) ([]domain.PlacePhoto, domain.PlaceStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.places {
		if p.PlaceID == placeID {
			if len(p.Details) == 0 {
				return nil, domain.PlaceStatusNotFound, nil
			}
			return p.Details, domain.PlaceStatusOK, nil
		}
	}
	return nil, domain.PlaceStatusNotFound, nil
}

// Calls reports how often query was searched.
func (m *MockPlaces) Calls(query string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[query]
}

// TotalCalls reports all searches, optionally filtered by a query substring.
func (m *MockPlaces) TotalCalls(contains string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for q, c := range m.calls {
		if strings.Contains(q, contains) {
			n += c
		}
	}
	return n
}
