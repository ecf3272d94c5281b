package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logger"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

const (
	DefaultPlacesBatchLimit = 12
	PlaceSearchRadius       = 60000
	// Trip days from this ordinal on are searched around the Caribbean coast.
	caribbeanPhaseFirstDay = 13
	maxCandidateLength     = 80
)

var (
	nonPlacePrefixRe = regexp.MustCompile(`(?i)^(TICKETS|Kosten:|Hinweis:|Programm:|Rückkehr:|Abfahrt:|Frühstück|Lunch|Dinner|Option)`)
	durationWordRe   = regexp.MustCompile(`(?i)\bStunden\b|\bUhr\b|\bStd\b|\bMin\b`)
	capitalRe        = regexp.MustCompile(`\p{Lu}`)
	parentheticalRe  = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	whitespaceRunRe  = regexp.MustCompile(`\s+`)
	landmarkRe       = regexp.MustCompile(`(?i)(Mercado|Casa|Palacio|Catedral|Plaza|Torre|Parque|Alameda|Castillo|Basilica|Biblioteca|Cenote|Museo|Museum|Street|Avenue|Avenida|Centro|Jard[ií]n|Bosque|Iglesia|Church)`)
)

// ExtractPlaceCandidate derives a place mention from one schedule line.
// Lines that look like costs, meals, durations or time headings yield false.
func ExtractPlaceCandidate(line string) (domain.PlaceCandidate, bool) {
	raw := strings.TrimSpace(line)
	if raw == "" {
		return domain.PlaceCandidate{}, false
	}
	if nonPlacePrefixRe.MatchString(raw) {
		return domain.PlaceCandidate{}, false
	}
	if durationWordRe.MatchString(raw) && !capitalRe.MatchString(raw) {
		return domain.PlaceCandidate{}, false
	}
	if timeOfDayRe.MatchString(raw) {
		return domain.PlaceCandidate{}, false
	}

	base := raw
	if i := strings.Index(base, ":"); i >= 0 {
		base = base[:i]
	}
	if i := strings.Index(base, " - "); i >= 0 {
		base = base[:i]
	}
	base = StripParentheticals(base)
	if base == "" || utf8.RuneCountInString(base) > maxCandidateLength {
		return domain.PlaceCandidate{}, false
	}

	if !landmarkRe.MatchString(base) && !capitalRe.MatchString(base) {
		return domain.PlaceCandidate{}, false
	}

	return domain.PlaceCandidate{Label: base, Key: NormalizeKey(base)}, true
}

// StripParentheticals removes "(...)" asides and collapses whitespace.
func StripParentheticals(s string) string {
	s = parentheticalRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespaceRunRe.ReplaceAllString(s, " "))
}

// KnownPlace is a canonical stop usable as a resolution shortcut.
type KnownPlace struct {
	Name        string             `json:"name"`
	Coordinates domain.Coordinates `json:"coordinates"`
}

// KnownPlaces indexes canonical stop names in first-seen order.
// A later stop with the same lowercased name replaces the value but keeps
// the original position.
type KnownPlaces struct {
	order  []string
	byName map[string]KnownPlace
}

func NewKnownPlaces(days []domain.TripDay) *KnownPlaces {
	k := &KnownPlaces{byName: make(map[string]KnownPlace)}
	for _, d := range days {
		for _, s := range d.Stops {
			name := strings.TrimSpace(s.Name)
			if name == "" {
				continue
			}
			lower := strings.ToLower(name)
			if _, ok := k.byName[lower]; !ok {
				k.order = append(k.order, lower)
			}
			k.byName[lower] = KnownPlace{Name: name, Coordinates: s.Coordinates}
		}
	}
	return k
}

// Find returns the first known place whose lowercased name occurs in line.
func (k *KnownPlaces) Find(line string) (KnownPlace, bool) {
	if k == nil {
		return KnownPlace{}, false
	}
	text := strings.ToLower(line)
	for _, name := range k.order {
		if strings.Contains(text, name) {
			return k.byName[name], true
		}
	}
	return KnownPlace{}, false
}

func (k *KnownPlaces) Len() int {
	if k == nil {
		return 0
	}
	return len(k.order)
}

// PendingPlace is a candidate still waiting for an external lookup.
type PendingPlace struct {
	domain.PlaceCandidate
	Date string `json:"date"`
	Day  int    `json:"day"`
	// HasDay is false when the date has no canonical trip day.
	HasDay bool `json:"has_day"`
}

// ResolveReport summarises one resolution batch.
type ResolveReport struct {
	Attempted int                    `json:"attempted"`
	Resolved  int                    `json:"resolved"`
	NotFound  int                    `json:"not_found"`
	Failed    int                    `json:"failed"`
	Remaining int                    `json:"remaining"`
	Places    []domain.ResolvedPlace `json:"places"`
}

// PlaceResolver turns schedule lines into cached place lookups.
type PlaceResolver struct {
	geocoder   ports.Geocoder
	cache      ports.PlaceCache
	known      *KnownPlaces
	batchLimit int
	now        func() time.Time
}

func NewPlaceResolver(geocoder ports.Geocoder, cache ports.PlaceCache, known *KnownPlaces, batchLimit int) *PlaceResolver {
	if batchLimit <= 0 {
		batchLimit = DefaultPlacesBatchLimit
	}
	return &PlaceResolver{
		geocoder:   geocoder,
		cache:      cache,
		known:      known,
		batchLimit: batchLimit,
		now:        time.Now,
	}
}

// SearchCenter is the bias location for lookups of a given trip day.
func SearchCenter(day int, hasDay bool) domain.Coordinates {
	if hasDay && day >= caribbeanPhaseFirstDay {
		return domain.TulumRegion
	}
	return domain.MexicoCity
}

// PlaceQuery builds the external search text for a candidate label.
func PlaceQuery(label string) string {
	return label + ", Mexico"
}

// Pending lists candidates from section items that still need a lookup, in
// trip order. Lines naming a known place, keys already cached with a final
// status and repeated keys are skipped.
func (r *PlaceResolver) Pending(ctx context.Context, schedule map[string]*domain.DaySchedule, days []domain.TripDay) ([]PendingPlace, error) {
	dayByDate := make(map[string]int, len(days))
	for _, d := range days {
		dayByDate[d.Date] = d.Day
	}

	dates := make([]string, 0, len(schedule))
	for date := range schedule {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		di, iok := dayByDate[dates[i]]
		dj, jok := dayByDate[dates[j]]
		if iok != jok {
			return iok
		}
		if iok && di != dj {
			return di < dj
		}
		return dates[i] < dates[j]
	})

	seen := make(map[string]struct{})
	var candidates []PendingPlace
	for _, date := range dates {
		day, hasDay := dayByDate[date]
		for _, section := range schedule[date].Sections {
			for _, line := range section.Items {
				if _, ok := r.known.Find(line); ok {
					continue
				}
				cand, ok := ExtractPlaceCandidate(line)
				if !ok {
					continue
				}
				if _, dup := seen[cand.Key]; dup {
					continue
				}
				seen[cand.Key] = struct{}{}
				candidates = append(candidates, PendingPlace{PlaceCandidate: cand, Date: date, Day: day, HasDay: hasDay})
			}
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	keys := make([]string, len(candidates))
	for i, c := range candidates {
		keys[i] = c.Key
	}
	cached, err := r.cache.GetMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("pending places: read cache: %w", err)
	}

	pending := candidates[:0]
	for _, c := range candidates {
		if hit, ok := cached[c.Key]; ok && !hit.Retryable() {
			continue
		}
		pending = append(pending, c)
	}
	return pending, nil
}

// ResolvePending runs one capped batch of sequential lookups. Every outcome
// is written to the cache as soon as it arrives; a cancelled context stops
// the batch before the next lookup and discards an in-flight result.
func (r *PlaceResolver) ResolvePending(ctx context.Context, schedule map[string]*domain.DaySchedule, days []domain.TripDay) (report ResolveReport, err error) {
	defer obs.Time(ctx, "resolve_pending_places")(&err)

	pending, err := r.Pending(ctx, schedule, days)
	if err != nil {
		return report, fmt.Errorf("resolve pending: %w", err)
	}

	queue := pending
	if len(queue) > r.batchLimit {
		queue = queue[:r.batchLimit]
	}
	report.Remaining = len(pending) - len(queue)
	report.Places = []domain.ResolvedPlace{}

	for i, item := range queue {
		if err := ctx.Err(); err != nil {
			report.Remaining += len(queue) - i
			return report, fmt.Errorf("resolve pending: %w", err)
		}

		place, err := r.lookup(ctx, item)
		if err != nil {
			report.Remaining += len(queue) - i
			return report, fmt.Errorf("resolve pending: %w", err)
		}
		if err := ctx.Err(); err != nil {
			report.Remaining += len(queue) - i
			return report, fmt.Errorf("resolve pending: %w", err)
		}

		report.Attempted++
		switch {
		case place.Found():
			report.Resolved++
			logger.Info("place resolved", map[string]interface{}{"label": item.Label, "name": place.Name})
		case place.Retryable():
			report.Failed++
			logger.Warn("place lookup failed", map[string]interface{}{"label": item.Label, "status": place.Status})
		default:
			report.NotFound++
			logger.Warn("place not found", map[string]interface{}{"label": item.Label})
		}

		if err := r.cache.PutMany(ctx, map[string]domain.ResolvedPlace{place.Key: place}); err != nil {
			return report, fmt.Errorf("resolve pending: cache %q: %w", place.Key, err)
		}
		report.Places = append(report.Places, place)
	}

	return report, nil
}

// lookup queries one candidate. Only an unconfigured geocoder aborts the
// batch; other failures are recorded as a retryable status.
func (r *PlaceResolver) lookup(ctx context.Context, item PendingPlace) (domain.ResolvedPlace, error) {
	center := SearchCenter(item.Day, item.HasDay)
	place, err := r.geocoder.Geocode(ctx, PlaceQuery(item.Label), center, PlaceSearchRadius)
	if errors.Is(err, domain.ErrPlacesUnavailable) {
		return domain.ResolvedPlace{}, err
	}
	if err != nil {
		logger.Error("geocode failed", err, map[string]interface{}{"label": item.Label})
		place = domain.ResolvedPlace{Status: domain.PlaceStatusException}
	}

	place.Key = item.Key
	place.ResolvedAt = r.now().UTC()
	if place.Status == "" {
		place.Status = domain.PlaceStatusNotFound
	}
	if place.Found() && place.Name == "" {
		place.Name = item.Label
	}
	if !place.Found() {
		place.Name = ""
		place.Coordinates = domain.Coordinates{}
	}
	return place, nil
}

// Cache returns every cached resolution.
func (r *PlaceResolver) Cache(ctx context.Context) (map[string]domain.ResolvedPlace, error) {
	all, err := r.cache.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("place cache: %w", err)
	}
	return all, nil
}

// Evict removes one cached resolution so it is looked up again.
func (r *PlaceResolver) Evict(ctx context.Context, key string) error {
	if err := r.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("evict place %q: %w", key, err)
	}
	return nil
}

// Known exposes the canonical place index used for shortcuts.
func (r *PlaceResolver) Known() *KnownPlaces { return r.known }
