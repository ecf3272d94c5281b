package domain

import "strings"

const (
	StopKindBase     = "base"
	StopKindOptional = "optional"
)

// Stop is a single point in a day's itinerary.
// Time is a plain "HH:MM" string, not a timestamp.
type Stop struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Coordinates `yaml:",inline"`
	Time        string `json:"time" yaml:"time"`
	Duration    string `json:"duration" yaml:"duration"`
	Distance    string `json:"distance,omitempty" yaml:"distance"`
	Kind        string `json:"kind,omitempty" yaml:"kind" validate:"omitempty,oneof=base optional"`
}

// TripDay is a hand-authored itinerary day. Records are static trip data
// and are never mutated at runtime; derived views copy the stop slice.
type TripDay struct {
	Day            int    `json:"day" yaml:"day" validate:"gte=0"`
	Date           string `json:"date" yaml:"date" validate:"required,len=5"`
	Title          string `json:"title" yaml:"title" validate:"required"`
	Stops          []Stop `json:"stops" yaml:"stops" validate:"dive"`
	Description    string `json:"description" yaml:"description"`
	Hint           string `json:"hint,omitempty" yaml:"hint"`
	TotalDistance  string `json:"total_distance,omitempty" yaml:"total_distance"`
	TotalDriveTime string `json:"total_drive_time,omitempty" yaml:"total_drive_time"`
}

// HasStopNamed reports whether a stop with the given name exists (case-insensitive).
func (d TripDay) HasStopNamed(name string) bool {
	for _, s := range d.Stops {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

// CloneStops returns a copy of the day's stops so callers can reshape them
// without touching the canonical record.
func (d TripDay) CloneStops() []Stop {
	out := make([]Stop, len(d.Stops))
	copy(out, d.Stops)
	return out
}
