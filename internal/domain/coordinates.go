package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

// LocationKey renders a coarse "@lat,lng" suffix used to separate cache
// entries for the same query near different places.
func (c Coordinates) LocationKey() string {
	return fmt.Sprintf("@%.3f,%.3f", c.Lat, c.Lng)
}

var (
	// MexicoCity is the default search bias for the first travel phase.
	MexicoCity = Coordinates{Lat: 19.4326, Lng: -99.1332}
	// TulumRegion is the search bias for the Caribbean phase.
	TulumRegion = Coordinates{Lat: 20.2114, Lng: -87.4654}
)
