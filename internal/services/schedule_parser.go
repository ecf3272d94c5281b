package services

import (
	"regexp"
	"strings"

	"trip-planner-service/internal/domain"
)

var (
	dateLineRe    = regexp.MustCompile(`^(\d{2}\.\d{2})`)
	timeOfDayRe   = regexp.MustCompile(`(?i)^(Vormittag|Nachmittag|Abend|Früh|Morgen|Mittag|Nacht)\b`)
	timeTokenRe   = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)
	headingSepRe  = regexp.MustCompile(`[:\-–]`)
	timeRangeRe   = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[-–]\s*(\d{1,2}:\d{2})`)
	singleTimeRe  = regexp.MustCompile(`(\d{1,2}:\d{2})`)
	clockTimeOnly = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseSchedule groups document paragraphs into per-date schedules.
//
// A line starting with "DD.MM" opens a date context and closes any open
// section. Lines before the first date are dropped. Headings open a new
// section; every other line goes to the open section or, failing that, to
// the day's unassigned list.
func ParseSchedule(paragraphs []string) map[string]*domain.DaySchedule {
	byDate := make(map[string]*domain.DaySchedule)

	var (
		current *domain.DaySchedule
		section *domain.Section
	)

	for _, p := range paragraphs {
		line := strings.TrimSpace(p)
		if line == "" {
			continue
		}

		if m := dateLineRe.FindStringSubmatch(line); m != nil {
			date := m[1]
			if _, ok := byDate[date]; !ok {
				byDate[date] = domain.NewDaySchedule(date)
			}
			current = byDate[date]
			section = nil
			continue
		}

		if current == nil {
			continue
		}

		if IsSectionHeading(line) {
			start, end := ParseTimeRange(line)
			section = &domain.Section{
				Label:     line,
				StartTime: start,
				EndTime:   end,
				Items:     []string{},
			}
			current.AddSection(section)
			continue
		}

		if section != nil {
			section.Items = append(section.Items, line)
		} else {
			current.Unassigned = append(current.Unassigned, line)
		}
	}

	return byDate
}

// IsSectionHeading reports whether line opens a schedule section: it
// starts with a time-of-day word or carries a clock time next to a colon
// or dash.
func IsSectionHeading(line string) bool {
	if timeOfDayRe.MatchString(line) {
		return true
	}
	return timeTokenRe.MatchString(line) && headingSepRe.MatchString(line)
}

// ParseTimeRange extracts "start - end" or a single start time.
// Missing values are returned as empty strings.
func ParseTimeRange(text string) (start, end string) {
	if m := timeRangeRe.FindStringSubmatch(text); m != nil {
		return m[1], m[2]
	}
	if m := singleTimeRe.FindStringSubmatch(text); m != nil {
		return m[1], ""
	}
	return "", ""
}

// Subpoints flattens each day's section items followed by its unassigned lines.
func Subpoints(schedule map[string]*domain.DaySchedule) map[string][]string {
	out := make(map[string][]string, len(schedule))
	for date, day := range schedule {
		lines := []string{}
		for _, s := range day.Sections {
			for _, item := range s.Items {
				if t := strings.TrimSpace(item); t != "" {
					lines = append(lines, t)
				}
			}
		}
		for _, item := range day.Unassigned {
			if t := strings.TrimSpace(item); t != "" {
				lines = append(lines, t)
			}
		}
		out[date] = lines
	}
	return out
}
