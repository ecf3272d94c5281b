package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for resolving free text into a place near a bias location.
type Geocoder interface {
	// Return the top match for query, or a ResolvedPlace carrying a
	// non-OK status. An error is only returned for unexpected failures.
	Geocode(ctx context.Context, query string, bias domain.Coordinates, radiusMeters int) (domain.ResolvedPlace, error)
}
