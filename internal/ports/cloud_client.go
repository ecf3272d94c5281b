package ports

import (
	"context"
	"encoding/json"
)

// CloudResponse is the loosely typed reply of the remote sync endpoint.
type CloudResponse struct {
	Status     string                     `json:"status"`
	Message    string                     `json:"message,omitempty"`
	Notes      map[string]json.RawMessage `json:"notes,omitempty"`
	Document   []string                   `json:"document,omitempty"`
	HTTPStatus int                        `json:"httpStatus,omitempty"`
	Preview    string                     `json:"preview,omitempty"`
}

func (r CloudResponse) Success() bool { return r.Status == "success" }

// Contract for the remote spreadsheet-backed sync endpoint.
// Implementations never return transport errors; failures are reported
// as a response with Status "error".
type CloudClient interface {
	GetAll(ctx context.Context) CloudResponse
	GetNotes(ctx context.Context) CloudResponse
	GetDocument(ctx context.Context) CloudResponse
	SaveNote(ctx context.Context, day, note, user string) CloudResponse
	SaveDocument(ctx context.Context, paragraphs []string, user string) CloudResponse
	DeleteNote(ctx context.Context, day string) CloudResponse
	CheckConnection(ctx context.Context) bool
}
