package places

import (
	"context"
	"errors"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logger"
	"trip-planner-service/internal/ports"
)

// SearchGeocoder resolves free text through a place text search.
type SearchGeocoder struct {
	search ports.PhotoProvider
}

func NewSearchGeocoder(search ports.PhotoProvider) *SearchGeocoder {
	return &SearchGeocoder{search: search}
}

// Geocode maps the top search hit to a resolved place. Transport failures
// become TIMEOUT or EXCEPTION statuses; only a missing API key is an error.
func (g *SearchGeocoder) Geocode(
	ctx context.Context,
	query string,
	bias domain.Coordinates,
	radiusMeters int,
) (domain.ResolvedPlace, error) {
	res, status, err := g.search.TextSearch(ctx, query, &bias, radiusMeters)
	if err != nil {
		if errors.Is(err, domain.ErrPlacesUnavailable) {
			return domain.ResolvedPlace{}, err
		}
		st := domain.PlaceStatusException
		if errors.Is(err, context.DeadlineExceeded) {
			st = domain.PlaceStatusTimeout
		}
		logger.Warn("geocode search failed", map[string]interface{}{"query": query, "status": st, "error": err.Error()})
		return domain.ResolvedPlace{Status: st}, nil
	}

	if status != domain.PlaceStatusOK || res == nil {
		if status == "" || status == domain.PlaceStatusZeroResults {
			status = domain.PlaceStatusNotFound
		}
		return domain.ResolvedPlace{Status: status}, nil
	}

	return domain.ResolvedPlace{
		Name:        res.Name,
		Coordinates: res.Coordinates,
		Status:      domain.PlaceStatusOK,
	}, nil
}
