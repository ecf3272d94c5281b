package services

import (
	"context"
	"fmt"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// TripService recomputes the itinerary views from the canonical days, the
// current document and the place cache on every call.
type TripService struct {
	days     []domain.TripDay
	docs     *DocumentService
	notes    ports.NoteRepository
	resolver *PlaceResolver
	base     HomeBase
	loc      *time.Location
}

func NewTripService(
	days []domain.TripDay,
	docs *DocumentService,
	notes ports.NoteRepository,
	resolver *PlaceResolver,
	loc *time.Location,
) *TripService {
	if loc == nil {
		loc = time.UTC
	}
	return &TripService{
		days:     days,
		docs:     docs,
		notes:    notes,
		resolver: resolver,
		base:     Navarte,
		loc:      loc,
	}
}

// CanonicalDays returns the static itinerary.
func (s *TripService) CanonicalDays() []domain.TripDay { return s.days }

// Schedule parses the current document.
func (s *TripService) Schedule(ctx context.Context) (map[string]*domain.DaySchedule, error) {
	doc, err := s.docs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return ParseSchedule(doc), nil
}

// Subpoints returns the flattened schedule lines of one date.
func (s *TripService) Subpoints(ctx context.Context, date string) ([]string, error) {
	schedule, err := s.Schedule(ctx)
	if err != nil {
		return nil, err
	}
	lines, ok := Subpoints(schedule)[date]
	if !ok {
		return []string{}, nil
	}
	return lines, nil
}

// SectionAt returns the section that opens at startTime on date, the one a
// stop with that time shows its subpoints from.
func (s *TripService) SectionAt(ctx context.Context, date, startTime string) (*domain.Section, error) {
	schedule, err := s.Schedule(ctx)
	if err != nil {
		return nil, err
	}
	day, ok := schedule[date]
	if !ok {
		return nil, fmt.Errorf("section %s %s: %w", date, startTime, domain.ErrSectionNotFound)
	}
	section, ok := day.ByStartTime[startTime]
	if !ok {
		return nil, fmt.Errorf("section %s %s: %w", date, startTime, domain.ErrSectionNotFound)
	}
	return section, nil
}

// Days returns the merged itinerary.
func (s *TripService) Days(ctx context.Context) ([]domain.TripDay, error) {
	schedule, err := s.Schedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("merge days: %w", err)
	}
	cache, err := s.resolver.Cache(ctx)
	if err != nil {
		return nil, fmt.Errorf("merge days: %w", err)
	}
	return MergeDays(s.days, schedule, s.resolver.Known(), cache, s.base), nil
}

// Day returns one merged day by its ordinal.
func (s *TripService) Day(ctx context.Context, day int) (domain.TripDay, error) {
	days, err := s.Days(ctx)
	if err != nil {
		return domain.TripDay{}, err
	}
	for _, d := range days {
		if d.Day == day {
			return d, nil
		}
	}
	return domain.TripDay{}, fmt.Errorf("day %d: %w", day, domain.ErrDayNotFound)
}

// ResolvePlaces runs one lookup batch over the current document.
func (s *TripService) ResolvePlaces(ctx context.Context) (ResolveReport, error) {
	schedule, err := s.Schedule(ctx)
	if err != nil {
		return ResolveReport{}, fmt.Errorf("resolve places: %w", err)
	}
	return s.resolver.ResolvePending(ctx, schedule, s.days)
}

// Today returns the view for now in the trip's time zone.
func (s *TripService) Today(ctx context.Context, now time.Time) (*Today, bool, error) {
	days, err := s.Days(ctx)
	if err != nil {
		return nil, false, err
	}
	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("today: %w", err)
	}
	t, ok := TodayInfo(days, notes, now.In(s.loc))
	return t, ok, nil
}

// ExportNotes renders every note in trip order.
func (s *TripService) ExportNotes(ctx context.Context) (string, error) {
	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return "", fmt.Errorf("export notes: %w", err)
	}
	days, err := s.Days(ctx)
	if err != nil {
		return "", fmt.Errorf("export notes: %w", err)
	}
	return ExportNotes(days, notes), nil
}
