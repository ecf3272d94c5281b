package domain

import (
	"strings"
	"time"
)

// PlaceStatus is the outcome of an external place lookup.
type PlaceStatus string

const (
	PlaceStatusOK            PlaceStatus = "OK"
	PlaceStatusNotFound      PlaceStatus = "NOT_FOUND"
	PlaceStatusZeroResults   PlaceStatus = "ZERO_RESULTS"
	PlaceStatusNoPhoto       PlaceStatus = "NO_PHOTO"
	PlaceStatusNoQuery       PlaceStatus = "NO_QUERY"
	PlaceStatusRequestDenied PlaceStatus = "REQUEST_DENIED"
	PlaceStatusTimeout       PlaceStatus = "TIMEOUT"
	PlaceStatusException     PlaceStatus = "EXCEPTION"
)

// Transient reports whether a status reflects a condition that may clear
// up (credentials, network) and must therefore never be served from a
// negative cache.
func (s PlaceStatus) Transient() bool {
	switch PlaceStatus(strings.ToUpper(string(s))) {
	case PlaceStatusRequestDenied, PlaceStatusTimeout, PlaceStatusException:
		return true
	}
	return false
}

// PlaceCandidate is a heuristically extracted place mention.
type PlaceCandidate struct {
	Label string `json:"label"`
	Key   string `json:"key"`
}

// ResolvedPlace is a cached lookup result keyed by normalized text.
// Name and Coordinates are only meaningful when Status is OK.
type ResolvedPlace struct {
	Key         string      `json:"key"`
	Name        string      `json:"name,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Status      PlaceStatus `json:"status"`
	ResolvedAt  time.Time   `json:"resolved_at"`
}

func (p ResolvedPlace) Found() bool { return p.Status == PlaceStatusOK }

// Retryable reports whether the cached entry should be treated as a miss.
func (p ResolvedPlace) Retryable() bool { return p.Status.Transient() }

// PhotoResult is the outcome of a place photo lookup.
type PhotoResult struct {
	OK              bool        `json:"ok"`
	Status          PlaceStatus `json:"status"`
	URLs            []string    `json:"urls"`
	AttributionHTML string      `json:"attribution_html"`
	FromCache       bool        `json:"from_cache"`
}

// CachedPhotos is the persisted form of a photo lookup.
type CachedPhotos struct {
	Key             string      `json:"key"`
	URLs            []string    `json:"urls,omitempty"`
	AttributionHTML string      `json:"attribution_html,omitempty"`
	NotFound        bool        `json:"not_found,omitempty"`
	Status          PlaceStatus `json:"status"`
}

// SearchResult is the top hit of a place text search.
type SearchResult struct {
	PlaceID     string
	Name        string
	Coordinates Coordinates
	Photos      []PlacePhoto
}

// PlacePhoto references a photo returned by the places provider.
type PlacePhoto struct {
	URL          string
	Attributions []string
}
