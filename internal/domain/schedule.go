package domain

// Section is a labeled, optionally time-bounded block of a day's schedule.
// StartTime and EndTime are empty when the heading carries no time.
type Section struct {
	Label     string   `json:"label"`
	StartTime string   `json:"start_time,omitempty"`
	EndTime   string   `json:"end_time,omitempty"`
	Items     []string `json:"items"`
}

// DaySchedule groups the parsed document lines of one date.
// Sections are kept in document order; ByStartTime indexes only the
// first section seen for each start time.
type DaySchedule struct {
	Date        string              `json:"date"`
	Sections    []*Section          `json:"sections"`
	ByStartTime map[string]*Section `json:"-"`
	Unassigned  []string            `json:"unassigned"`
}

func NewDaySchedule(date string) *DaySchedule {
	return &DaySchedule{
		Date:        date,
		Sections:    []*Section{},
		ByStartTime: map[string]*Section{},
		Unassigned:  []string{},
	}
}

// AddSection appends a section and indexes it by start time when that slot is free.
func (d *DaySchedule) AddSection(s *Section) {
	d.Sections = append(d.Sections, s)
	if s.StartTime == "" {
		return
	}
	if _, ok := d.ByStartTime[s.StartTime]; !ok {
		d.ByStartTime[s.StartTime] = s
	}
}
