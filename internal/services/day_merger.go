package services

import (
	"strings"

	"trip-planner-service/internal/domain"
)

// HomeBase is the lodging every day of the first travel phase starts and
// ends at.
type HomeBase struct {
	Name        string
	Label       string
	Coordinates domain.Coordinates
	FirstDay    int
	LastDay     int
	// Fallback times when no stop of the day carries a clock time.
	DefaultStart  string
	DefaultReturn string
}

// Navarte is the Mexico City base used for days 0 to 12.
var Navarte = HomeBase{
	Name:          "navarte",
	Label:         "Navarte",
	Coordinates:   domain.Coordinates{Lat: 19.3987, Lng: -99.1547},
	FirstDay:      0,
	LastDay:       12,
	DefaultStart:  "08:00",
	DefaultReturn: "22:00",
}

func (b HomeBase) covers(day int) bool { return day >= b.FirstDay && day <= b.LastDay }

// MergeDays combines canonical days with the parsed schedule and the
// resolved-place cache. Input days are never modified.
func MergeDays(
	days []domain.TripDay,
	schedule map[string]*domain.DaySchedule,
	known *KnownPlaces,
	cache map[string]domain.ResolvedPlace,
	base HomeBase,
) []domain.TripDay {
	out := make([]domain.TripDay, 0, len(days))
	for _, d := range days {
		merged := d
		merged.Stops = d.CloneStops()
		if base.covers(d.Day) {
			merged.Stops = EnsureHomeBase(merged.Stops, base)
		}
		merged.Stops = injectSubpointPlaces(merged, schedule[d.Date], known, cache)
		out = append(out, merged)
	}
	return out
}

// EnsureHomeBase adds synthetic start and return stops at the home base
// unless the day already names them.
func EnsureHomeBase(stops []domain.Stop, base HomeBase) []domain.Stop {
	list := make([]domain.Stop, 0, len(stops)+2)

	startTime := firstClockTime(stops, base.DefaultStart)
	returnTime := lastClockTime(stops, base.DefaultReturn)

	hasStart, hasReturn := false, false
	for _, s := range stops {
		name := strings.ToLower(s.Name)
		if !strings.Contains(name, base.Name) {
			continue
		}
		if strings.Contains(name, "start") {
			hasStart = true
		}
		if strings.Contains(name, "rückkehr") || strings.Contains(name, "rueckkehr") {
			hasReturn = true
		}
	}

	if !hasStart {
		list = append(list, domain.Stop{
			Name:        base.Label + " (Start)",
			Coordinates: base.Coordinates,
			Time:        startTime,
			Duration:    "Start",
			Kind:        domain.StopKindBase,
		})
	}
	list = append(list, stops...)
	if !hasReturn {
		list = append(list, domain.Stop{
			Name:        base.Label + " (Rückkehr)",
			Coordinates: base.Coordinates,
			Time:        returnTime,
			Duration:    "Ende",
			Kind:        domain.StopKindBase,
		})
	}
	return list
}

func firstClockTime(stops []domain.Stop, fallback string) string {
	for _, s := range stops {
		if t := strings.TrimSpace(s.Time); clockTimeOnly.MatchString(t) {
			return t
		}
	}
	return fallback
}

func lastClockTime(stops []domain.Stop, fallback string) string {
	for i := len(stops) - 1; i >= 0; i-- {
		if t := strings.TrimSpace(stops[i].Time); clockTimeOnly.MatchString(t) {
			return t
		}
	}
	return fallback
}

// injectSubpointPlaces splices places mentioned under timed sections right
// after the first stop with the same time. Times without such a stop are
// appended at the end in first-queued order.
func injectSubpointPlaces(
	trip domain.TripDay,
	day *domain.DaySchedule,
	known *KnownPlaces,
	cache map[string]domain.ResolvedPlace,
) []domain.Stop {
	stops := trip.Stops
	if day == nil || len(day.Sections) == 0 {
		return stops
	}

	queuedNames := make(map[string]struct{})
	queued := make(map[string][]domain.Stop)
	var timeOrder []string

	for _, section := range day.Sections {
		if section.StartTime == "" {
			continue
		}
		for _, line := range section.Items {
			name, coords, ok := placeForLine(line, known, cache)
			if !ok {
				continue
			}
			key := strings.ToLower(name)
			if key == "" {
				continue
			}
			if _, dup := queuedNames[key]; dup || trip.HasStopNamed(name) {
				continue
			}
			queuedNames[key] = struct{}{}

			if _, seen := queued[section.StartTime]; !seen {
				timeOrder = append(timeOrder, section.StartTime)
			}
			queued[section.StartTime] = append(queued[section.StartTime], domain.Stop{
				Name:        name,
				Coordinates: coords,
				Time:        section.StartTime,
				Duration:    "Optional",
				Kind:        domain.StopKindOptional,
			})
		}
	}

	if len(queued) == 0 {
		return stops
	}

	out := make([]domain.Stop, 0, len(stops)+len(queuedNames))
	inserted := make(map[string]struct{}, len(queued))
	for _, s := range stops {
		out = append(out, s)
		t := strings.TrimSpace(s.Time)
		if _, done := inserted[t]; done {
			continue
		}
		if extra, ok := queued[t]; ok {
			out = append(out, extra...)
			inserted[t] = struct{}{}
		}
	}
	for _, t := range timeOrder {
		if _, done := inserted[t]; !done {
			out = append(out, queued[t]...)
		}
	}
	return out
}

// placeForLine prefers the canonical index and falls back to a found cache
// entry for the line's candidate key.
func placeForLine(line string, known *KnownPlaces, cache map[string]domain.ResolvedPlace) (string, domain.Coordinates, bool) {
	if kp, ok := known.Find(line); ok {
		return kp.Name, kp.Coordinates, true
	}
	cand, ok := ExtractPlaceCandidate(line)
	if !ok {
		return "", domain.Coordinates{}, false
	}
	hit, ok := cache[cand.Key]
	if !ok || !hit.Found() {
		return "", domain.Coordinates{}, false
	}
	name := hit.Name
	if name == "" {
		name = cand.Label
	}
	return name, hit.Coordinates, true
}
