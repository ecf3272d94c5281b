package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logger"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

const (
	MaxPlacePhotos     = 5
	PhotoSearchRadius  = 5000
	photoLookupTimeout = 9 * time.Second
)

// PhotoService finds place photos and caches both hits and real misses.
type PhotoService struct {
	provider ports.PhotoProvider
	cache    ports.PhotoCache
	timeout  time.Duration
}

func NewPhotoService(provider ports.PhotoProvider, cache ports.PhotoCache) *PhotoService {
	return &PhotoService{provider: provider, cache: cache, timeout: photoLookupTimeout}
}

// PhotoCacheKey combines the query with a coarse bias location.
func PhotoCacheKey(query string, bias *domain.Coordinates) string {
	loc := ""
	if bias != nil {
		loc = bias.LocationKey()
	}
	return NormalizeKey(query + loc)
}

// Lookup returns up to MaxPlacePhotos photo URLs for query.
func (s *PhotoService) Lookup(ctx context.Context, query string, bias *domain.Coordinates) (res domain.PhotoResult, err error) {
	defer obs.Time(ctx, "photo_lookup")(&err)

	q := strings.TrimSpace(query)
	if q == "" {
		return photoMiss(domain.PlaceStatusNoQuery, false), nil
	}

	key := PhotoCacheKey(q, bias)
	if hit, ok := s.fromCache(ctx, key); ok {
		return hit, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	place, status, err := s.provider.TextSearch(ctx, q, bias, PhotoSearchRadius)
	if err != nil {
		if errors.Is(err, domain.ErrPlacesUnavailable) {
			return domain.PhotoResult{}, err
		}
		status = statusForError(ctx, err)
		logger.Warn("photo search failed", map[string]interface{}{"query": q, "status": status, "error": err.Error()})
	}

	if status != domain.PlaceStatusOK || place == nil {
		if status == "" {
			status = domain.PlaceStatusZeroResults
		}
		if status != domain.PlaceStatusRequestDenied {
			s.store(ctx, domain.CachedPhotos{Key: key, NotFound: true, Status: status})
		}
		return photoMiss(status, false), nil
	}

	photos := place.Photos
	var missStatus domain.PlaceStatus
	if place.PlaceID != "" {
		details, ds, err := s.provider.PlacePhotos(ctx, place.PlaceID)
		switch {
		case err != nil:
			logger.Warn("place details failed", map[string]interface{}{"place_id": place.PlaceID, "error": err.Error()})
			missStatus = domain.PlaceStatus("DETAILS_" + string(domain.PlaceStatusException))
		case ds == domain.PlaceStatusOK && len(details) > 0:
			photos = details
		default:
			if ds == "" {
				ds = "UNKNOWN"
			}
			missStatus = domain.PlaceStatus("DETAILS_" + string(ds))
		}
	}

	urls, attribution := collectPhotos(photos)
	if len(urls) == 0 {
		if missStatus == "" {
			missStatus = domain.PlaceStatusNoPhoto
		}
		s.store(ctx, domain.CachedPhotos{Key: key, NotFound: true, Status: missStatus})
		return photoMiss(missStatus, false), nil
	}

	s.store(ctx, domain.CachedPhotos{Key: key, URLs: urls, AttributionHTML: attribution, Status: domain.PlaceStatusOK})
	return domain.PhotoResult{OK: true, Status: domain.PlaceStatusOK, URLs: urls, AttributionHTML: attribution}, nil
}

func (s *PhotoService) fromCache(ctx context.Context, key string) (domain.PhotoResult, bool) {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Error("photo cache read failed", err, map[string]interface{}{"key": key})
		return domain.PhotoResult{}, false
	}
	if cached == nil || cached.Status.Transient() {
		return domain.PhotoResult{}, false
	}
	if cached.NotFound {
		status := cached.Status
		if status == "" {
			status = "CACHED_NOT_FOUND"
		}
		return photoMiss(status, true), true
	}
	if len(cached.URLs) == 0 {
		return domain.PhotoResult{}, false
	}
	status := cached.Status
	if status == "" {
		status = domain.PlaceStatusOK
	}
	return domain.PhotoResult{OK: true, Status: status, URLs: cached.URLs, AttributionHTML: cached.AttributionHTML, FromCache: true}, true
}

func (s *PhotoService) store(ctx context.Context, entry domain.CachedPhotos) {
	// The lookup deadline may already be spent; cache writes get their own.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.cache.Put(wctx, entry); err != nil {
		logger.Error("photo cache write failed", err, map[string]interface{}{"key": entry.Key})
	}
}

func collectPhotos(photos []domain.PlacePhoto) ([]string, string) {
	if len(photos) > MaxPlacePhotos {
		photos = photos[:MaxPlacePhotos]
	}

	urls := []string{}
	var parts []string
	seen := make(map[string]struct{})
	for _, p := range photos {
		if p.URL != "" {
			urls = append(urls, p.URL)
		}
		for _, a := range p.Attributions {
			if a == "" {
				continue
			}
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			parts = append(parts, a)
		}
	}
	return urls, strings.Join(parts, " ")
}

func statusForError(ctx context.Context, err error) domain.PlaceStatus {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.PlaceStatusTimeout
	}
	return domain.PlaceStatusException
}

func photoMiss(status domain.PlaceStatus, fromCache bool) domain.PhotoResult {
	return domain.PhotoResult{OK: false, Status: status, URLs: []string{}, FromCache: fromCache}
}
