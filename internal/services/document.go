package services

import (
	"context"
	"fmt"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// NormalizeParagraphs splits raw text into trimmed, whitespace-collapsed,
// non-empty lines.
func NormalizeParagraphs(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(whitespaceRunRe.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ExportDocument renders paragraphs as plain text separated by blank lines.
func ExportDocument(paragraphs []string) string {
	return strings.Join(paragraphs, "\n\n")
}

// ImportDocument parses exported or hand-written text back into paragraphs.
// Lines are trimmed and empty ones dropped; inner spacing is kept so an
// export followed by an import returns the same paragraphs.
func ImportDocument(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// DocumentService manages the editable copy of the itinerary document.
type DocumentService struct {
	repo ports.DocumentRepository
}

func NewDocumentService(repo ports.DocumentRepository) *DocumentService {
	return &DocumentService{repo: repo}
}

// Get returns the edited document, or the seeded original when nothing was edited.
func (s *DocumentService) Get(ctx context.Context) (paragraphs []string, err error) {
	defer obs.Time(ctx, "document_get")(&err)

	doc, ok, err := s.repo.LoadDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if ok {
		return doc, nil
	}

	orig, err := s.repo.LoadOriginal(ctx)
	if err != nil {
		return nil, fmt.Errorf("get document: load original: %w", err)
	}
	return orig, nil
}

// Replace stores a whole new paragraph list.
func (s *DocumentService) Replace(ctx context.Context, paragraphs []string) (err error) {
	defer obs.Time(ctx, "document_replace")(&err)

	if paragraphs == nil {
		paragraphs = []string{}
	}
	if err := s.repo.SaveDocument(ctx, paragraphs); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// UpdateParagraph replaces the paragraph at index and returns the new document.
func (s *DocumentService) UpdateParagraph(ctx context.Context, index int, text string) ([]string, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("update paragraph: %w", err)
	}
	if index < 0 || index >= len(doc) {
		return nil, fmt.Errorf("update paragraph %d of %d: %w", index, len(doc), domain.ErrInvalidParagraphIndex)
	}

	next := make([]string, len(doc))
	copy(next, doc)
	next[index] = text

	if err := s.Replace(ctx, next); err != nil {
		return nil, fmt.Errorf("update paragraph: %w", err)
	}
	return next, nil
}

// Reset drops all edits and returns the seeded original.
func (s *DocumentService) Reset(ctx context.Context) ([]string, error) {
	if err := s.repo.ClearDocument(ctx); err != nil {
		return nil, fmt.Errorf("reset document: %w", err)
	}
	orig, err := s.repo.LoadOriginal(ctx)
	if err != nil {
		return nil, fmt.Errorf("reset document: %w", err)
	}
	return orig, nil
}
