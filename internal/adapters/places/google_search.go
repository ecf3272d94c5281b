package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

type placePhotoJSON struct {
	PhotoReference   string   `json:"photo_reference"`
	HTMLAttributions []string `json:"html_attributions"`
}

type textSearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Photos []placePhotoJSON `json:"photos"`
	} `json:"results"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Photos []placePhotoJSON `json:"photos"`
	} `json:"result"`
}

// TextSearch returns the top hit for query near bias.
func (c *GoogleClient) TextSearch(
	ctx context.Context,
	query string,
	bias *domain.Coordinates,
	radiusMeters int,
) (_ *domain.SearchResult, _ domain.PlaceStatus, err error) {
	defer obs.Time(ctx, "places.TextSearch")(&err)

	if !c.configured() {
		return nil, "", domain.ErrPlacesUnavailable
	}

	params := url.Values{}
	params.Set("query", query)
	if bias != nil {
		params.Set("location", fmt.Sprintf("%f,%f", bias.Lat, bias.Lng))
		params.Set("radius", strconv.Itoa(radiusMeters))
	}

	var decoded textSearchResponse
	if err := c.getJSON(ctx, "/maps/api/place/textsearch/json", params, &decoded); err != nil {
		return nil, "", fmt.Errorf("text search %q: %w", query, err)
	}

	status := domain.PlaceStatus(decoded.Status)
	if status != domain.PlaceStatusOK || len(decoded.Results) == 0 {
		if status == domain.PlaceStatusOK {
			status = domain.PlaceStatusZeroResults
		}
		return nil, status, nil
	}

	top := decoded.Results[0]
	return &domain.SearchResult{
		PlaceID:     top.PlaceID,
		Name:        top.Name,
		Coordinates: domain.Coordinates{Lat: top.Geometry.Location.Lat, Lng: top.Geometry.Location.Lng},
		Photos:      c.photos(top.Photos),
	}, domain.PlaceStatusOK, nil
}

// PlacePhotos fetches the photo list of a place via the details endpoint.
func (c *GoogleClient) PlacePhotos(ctx context.Context, placeID string) (_ []domain.PlacePhoto, _ domain.PlaceStatus, err error) {
	defer obs.Time(ctx, "places.PlacePhotos")(&err)

	if !c.configured() {
		return nil, "", domain.ErrPlacesUnavailable
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "photos")

	var decoded detailsResponse
	if err := c.getJSON(ctx, "/maps/api/place/details/json", params, &decoded); err != nil {
		return nil, "", fmt.Errorf("place details %q: %w", placeID, err)
	}

	status := domain.PlaceStatus(decoded.Status)
	if status != domain.PlaceStatusOK {
		return nil, status, nil
	}
	return c.photos(decoded.Result.Photos), status, nil
}

func (c *GoogleClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, path, params)
	})
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *GoogleClient) photos(in []placePhotoJSON) []domain.PlacePhoto {
	out := make([]domain.PlacePhoto, 0, len(in))
	for _, p := range in {
		if p.PhotoReference == "" {
			continue
		}
		out = append(out, domain.PlacePhoto{
			URL:          c.PhotoURL(p.PhotoReference),
			Attributions: p.HTMLAttributions,
		})
	}
	return out
}

// PhotoURL builds the image URL for a photo reference.
func (c *GoogleClient) PhotoURL(reference string) string {
	q := url.Values{}
	q.Set("maxwidth", strconv.Itoa(photoMaxWidth))
	q.Set("maxheight", strconv.Itoa(photoMaxHeight))
	q.Set("photo_reference", reference)
	q.Set("key", c.apiKey)
	return c.baseURL + "/maps/api/place/photo?" + q.Encode()
}
