package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"trip-planner-service/internal/domain"
)

var firstDigitsRe = regexp.MustCompile(`\d+`)

// DecodeNoteValue classifies a stored or synced note payload.
func DecodeNoteValue(raw json.RawMessage) domain.NoteValue {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.EmptyNote{}
	}

	switch val := v.(type) {
	case string:
		return domain.RawNote{Text: val}
	case map[string]interface{}:
		text := val["text"]
		if text == nil {
			text = val["note"]
		}
		if s, ok := text.(string); ok {
			user, _ := val["user"].(string)
			return domain.CloudNote{Text: s, User: user, Timestamp: stringifyField(val["timestamp"])}
		}
		if n, ok := noteFromMap(val); ok {
			return domain.StructuredNote{Note: n}
		}
	}
	return domain.EmptyNote{}
}

// CoerceNote turns any note shape into the structured form. A raw string
// holding a JSON object with at least one note field is decoded; any other
// string becomes free text.
func CoerceNote(v domain.NoteValue) domain.Note {
	switch val := v.(type) {
	case domain.RawNote:
		trimmed := strings.TrimSpace(val.Text)
		if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
			var m map[string]interface{}
			if err := json.Unmarshal([]byte(trimmed), &m); err == nil {
				if n, ok := noteFromMap(m); ok {
					return n
				}
			}
		}
		return domain.Note{FreeText: val.Text}
	case domain.CloudNote:
		return CoerceNote(domain.RawNote{Text: val.Text})
	case domain.StructuredNote:
		return val.Note
	case domain.EmptyNote:
		return domain.Note{}
	}
	return domain.Note{}
}

func noteFromMap(m map[string]interface{}) (domain.Note, bool) {
	var n domain.Note
	found := false
	for _, f := range domain.NoteFields {
		v, ok := m[f]
		if !ok {
			continue
		}
		found = true
		if v != nil {
			n = n.WithField(f, stringifyField(v))
		}
	}
	return n, found
}

func stringifyField(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// NoteDayKey maps identifiers like "Tag 03" to the canonical day key "3".
// Keys without digits are kept as they are.
func NoteDayKey(raw string) string {
	m := firstDigitsRe.FindString(raw)
	if m == "" {
		return raw
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return raw
	}
	return strconv.Itoa(n)
}

// NormalizeNotes coerces a remote note map into structured notes keyed by
// day number. Colliding keys resolve in sorted order of the raw keys.
func NormalizeNotes(raw map[string]json.RawMessage) map[string]domain.Note {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]domain.Note, len(raw))
	for _, k := range keys {
		out[NoteDayKey(k)] = CoerceNote(DecodeNoteValue(raw[k]))
	}
	return out
}

// PreviewText picks the most relevant single line for a note summary.
func PreviewText(n domain.Note) string {
	switch {
	case strings.TrimSpace(n.FreeText) != "":
		return n.FreeText
	case strings.TrimSpace(n.MeetingPoint) != "":
		return "Treffpunkt: " + n.MeetingPoint
	case strings.TrimSpace(n.Tickets) != "":
		return "Tickets: " + n.Tickets
	case strings.TrimSpace(n.Links) != "":
		return "Links: " + n.Links
	case strings.TrimSpace(n.Bring) != "":
		return "Mitbringen: " + n.Bring
	case strings.TrimSpace(n.Costs) != "":
		return "Kosten: " + n.Costs
	}
	return ""
}

// CountNotes counts notes with any content.
func CountNotes(notes map[string]domain.Note) int {
	count := 0
	for _, n := range notes {
		if n.HasContent() {
			count++
		}
	}
	return count
}

// ExportNotes renders all non-empty notes as plain text in trip order.
func ExportNotes(days []domain.TripDay, notes map[string]domain.Note) string {
	var blocks []string
	for _, d := range days {
		n, ok := notes[strconv.Itoa(d.Day)]
		if !ok || !n.HasContent() {
			continue
		}

		var lines []string
		if v := strings.TrimSpace(n.Tickets); v != "" {
			lines = append(lines, "Tickets/Reservierung: "+v)
		}
		if v := strings.TrimSpace(n.MeetingPoint); v != "" {
			lines = append(lines, "Treffpunkt: "+v)
		}
		if v := strings.TrimSpace(n.Bring); v != "" {
			lines = append(lines, "Mitbringen: "+v)
		}
		if v := strings.TrimSpace(n.Costs); v != "" {
			lines = append(lines, "Kosten: "+v)
		}
		if v := strings.TrimSpace(n.Links); v != "" {
			lines = append(lines, "Links: "+v)
		}
		if v := strings.TrimSpace(n.FreeText); v != "" {
			lines = append(lines, "Notizen:\n"+v)
		}

		blocks = append(blocks, fmt.Sprintf("Tag %d - %s - %s\n%s\n\n", d.Day, d.Date, d.Title, strings.Join(lines, "\n")))
	}
	return strings.Join(blocks, "---\n\n")
}
