package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for the external places/photos service.
type PhotoProvider interface {
	// TextSearch returns the first hit for query. A non-OK status with a nil
	// error is a valid negative outcome.
	TextSearch(ctx context.Context, query string, bias *domain.Coordinates, radiusMeters int) (*domain.SearchResult, domain.PlaceStatus, error)
	// PlacePhotos returns the photos of a place by id.
	PlacePhotos(ctx context.Context, placeID string) ([]domain.PlacePhoto, domain.PlaceStatus, error)
}
