// Package tripdata holds the hand-authored itinerary shipped with the binary.
package tripdata

import (
	_ "embed"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"trip-planner-service/internal/domain"
)

//go:embed trip.yaml
var tripYAML []byte

var dateRe = regexp.MustCompile(`^\d{2}\.\d{2}$`)

// Load parses and validates the embedded itinerary.
func Load() ([]domain.TripDay, error) {
	return Parse(tripYAML)
}

// Parse decodes an itinerary document. Days must carry unique day numbers
// and "DD.MM" dates.
func Parse(data []byte) ([]domain.TripDay, error) {
	var days []domain.TripDay
	if err := yaml.Unmarshal(data, &days); err != nil {
		return nil, fmt.Errorf("trip data: parse yaml: %w", err)
	}

	v := validator.New()
	seen := make(map[int]struct{}, len(days))
	for i, d := range days {
		if err := v.Struct(d); err != nil {
			return nil, fmt.Errorf("trip data: day at index %d: %w", i, err)
		}
		if !dateRe.MatchString(d.Date) {
			return nil, fmt.Errorf("trip data: day %d: date %q is not DD.MM", d.Day, d.Date)
		}
		if _, ok := seen[d.Day]; ok {
			return nil, fmt.Errorf("trip data: duplicate day %d", d.Day)
		}
		seen[d.Day] = struct{}{}
	}

	return days, nil
}

// DayByDate maps "DD.MM" to day numbers.
func DayByDate(days []domain.TripDay) map[string]int {
	out := make(map[string]int, len(days))
	for _, d := range days {
		out[d.Date] = d.Day
	}
	return out
}
