package domain

import "strings"

// Note is the structured per-day note with its six fixed fields.
type Note struct {
	FreeText     string `json:"freeText"`
	Tickets      string `json:"tickets"`
	MeetingPoint string `json:"treffpunkt"`
	Bring        string `json:"mitbringen"`
	Costs        string `json:"kosten"`
	Links        string `json:"links"`
}

// NoteFields lists the wire names of the note fields in display order.
var NoteFields = []string{"freeText", "tickets", "treffpunkt", "mitbringen", "kosten", "links"}

// IsNoteField reports whether name is one of NoteFields.
func IsNoteField(name string) bool {
	for _, f := range NoteFields {
		if f == name {
			return true
		}
	}
	return false
}

// Field returns the value stored under a wire field name.
func (n Note) Field(name string) string {
	switch name {
	case "freeText":
		return n.FreeText
	case "tickets":
		return n.Tickets
	case "treffpunkt":
		return n.MeetingPoint
	case "mitbringen":
		return n.Bring
	case "kosten":
		return n.Costs
	case "links":
		return n.Links
	}
	return ""
}

// WithField returns a copy of n with one field replaced. Unknown names
// leave the note unchanged.
func (n Note) WithField(name, value string) Note {
	switch name {
	case "freeText":
		n.FreeText = value
	case "tickets":
		n.Tickets = value
	case "treffpunkt":
		n.MeetingPoint = value
	case "mitbringen":
		n.Bring = value
	case "kosten":
		n.Costs = value
	case "links":
		n.Links = value
	}
	return n
}

// HasContent reports whether any field holds non-blank text.
func (n Note) HasContent() bool {
	for _, f := range NoteFields {
		if strings.TrimSpace(n.Field(f)) != "" {
			return true
		}
	}
	return false
}

// NoteValue is the set of shapes a stored or synced note can take.
// The interface is sealed; CoerceNote in the services package switches
// over every variant.
type NoteValue interface {
	isNoteValue()
}

// RawNote is a plain string payload. It may itself contain a JSON
// encoded structured note.
type RawNote struct {
	Text string
}

// StructuredNote is an already structured payload.
type StructuredNote struct {
	Note Note
}

// CloudNote is the remote endpoint's wrapper shape: {text|note, user, timestamp}.
type CloudNote struct {
	Text      string
	User      string
	Timestamp string
}

// EmptyNote stands for anything that carried no usable note.
type EmptyNote struct{}

func (RawNote) isNoteValue()        {}
func (StructuredNote) isNoteValue() {}
func (CloudNote) isNoteValue()      {}
func (EmptyNote) isNoteValue()      {}
