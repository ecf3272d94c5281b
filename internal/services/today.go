package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
)

// TravelYear anchors "DD.MM" trip dates to a calendar year.
const TravelYear = 2025

// Today is the "what's next" view for the current moment.
type Today struct {
	Day      domain.TripDay `json:"day"`
	NextStop *domain.Stop   `json:"next_stop,omitempty"`
	Meeting  string         `json:"meeting"`
	Note     domain.Note    `json:"note"`
	IsToday  bool           `json:"is_today"`
}

// TodayInfo picks the trip day matching now, else the next upcoming day,
// else the first day. On the exact day the next stop is the first one at
// or after the current clock time.
func TodayInfo(days []domain.TripDay, notes map[string]domain.Note, now time.Time) (*Today, bool) {
	if len(days) == 0 {
		return nil, false
	}

	todayKey := now.Format("02.01")

	type dated struct {
		day  domain.TripDay
		date time.Time
	}
	var schedule []dated
	for _, d := range days {
		if t, ok := tripDate(d.Date, now.Location()); ok {
			schedule = append(schedule, dated{day: d, date: t})
		}
	}
	sort.SliceStable(schedule, func(i, j int) bool { return schedule[i].date.Before(schedule[j].date) })

	var chosen *domain.TripDay
	for i := range days {
		if days[i].Date == todayKey {
			chosen = &days[i]
			break
		}
	}
	if chosen == nil {
		nowInTravelYear := time.Date(TravelYear, now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		for i := range schedule {
			if !schedule[i].date.Before(nowInTravelYear) {
				chosen = &schedule[i].day
				break
			}
		}
		if chosen == nil && len(schedule) > 0 {
			chosen = &schedule[0].day
		}
	}
	if chosen == nil {
		return nil, false
	}

	isToday := chosen.Date == todayKey
	var next *domain.Stop
	if len(chosen.Stops) > 0 {
		s := chosen.Stops[0]
		next = &s
	}
	if isToday && len(chosen.Stops) > 0 {
		nowMinutes := now.Hour()*60 + now.Minute()
		last := chosen.Stops[len(chosen.Stops)-1]
		next = &last
		for _, s := range chosen.Stops {
			if m, ok := minutesOfDay(s.Time); ok && m >= nowMinutes {
				s := s
				next = &s
				break
			}
		}
	}

	note := notes[strconv.Itoa(chosen.Day)]
	meeting := strings.TrimSpace(note.MeetingPoint)
	if meeting == "" && next != nil {
		meeting = strings.TrimSpace(next.Name)
	}

	return &Today{Day: *chosen, NextStop: next, Meeting: meeting, Note: note, IsToday: isToday}, true
}

func tripDate(ddmm string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("02.01", ddmm, loc)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(TravelYear, t.Month(), t.Day(), 0, 0, 0, 0, loc), true
}

func minutesOfDay(hhmm string) (int, bool) {
	m := clockTimeOnly.FindStringSubmatch(strings.TrimSpace(hhmm))
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm, true
}
