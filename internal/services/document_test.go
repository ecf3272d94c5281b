package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner-service/internal/domain"
)

func TestNormalizeParagraphs(t *testing.T) {
	got := NormalizeParagraphs("09.04\r\n  Vormittag   9:00 \r\rZócalo\t besuchen\n\n  \n")
	assert.Equal(t, []string{"09.04", "Vormittag 9:00", "Zócalo besuchen"}, got)
	assert.Empty(t, NormalizeParagraphs(""))
}

func TestExportImportRoundTrip(t *testing.T) {
	docs := [][]string{
		{"09.04", "Vormittag 09:00", "Zócalo  besuchen", "  padded  ", "Nachmittag 14:00"},
		{"Reiseplan", "10.04", "Teotihuacán - Pirámide del Sol", "", "Kosten:\t200 MXN"},
		{},
	}
	for _, doc := range docs {
		want := []string{}
		for _, p := range doc {
			if p = strings.TrimSpace(p); p != "" {
				want = append(want, p)
			}
		}
		assert.Equal(t, want, ImportDocument(ExportDocument(doc)))
	}
}

func TestImportDocumentKeepsInnerSpacing(t *testing.T) {
	got := ImportDocument("09.04\r\nZócalo  besuchen \r\r\n  \n")
	assert.Equal(t, []string{"09.04", "Zócalo  besuchen"}, got)
}

func TestDocumentServiceFallsBackToOriginal(t *testing.T) {
	repo := &memDocs{original: []string{"09.04", "Zócalo"}}
	svc := NewDocumentService(repo)
	ctx := context.Background()

	doc, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"09.04", "Zócalo"}, doc)

	require.NoError(t, svc.Replace(ctx, []string{"10.04"}))
	doc, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.04"}, doc)

	doc, err = svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"09.04", "Zócalo"}, doc)

	doc, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"09.04", "Zócalo"}, doc)
}

func TestDocumentServiceUpdateParagraph(t *testing.T) {
	repo := &memDocs{original: []string{"09.04", "Zócalo", "Bellas Artes"}}
	svc := NewDocumentService(repo)
	ctx := context.Background()

	doc, err := svc.UpdateParagraph(ctx, 1, "Zócalo und Catedral")
	require.NoError(t, err)
	assert.Equal(t, []string{"09.04", "Zócalo und Catedral", "Bellas Artes"}, doc)

	// The original stays untouched.
	assert.Equal(t, "Zócalo", repo.original[1])

	for _, idx := range []int{-1, 3} {
		_, err = svc.UpdateParagraph(ctx, idx, "x")
		assert.ErrorIs(t, err, domain.ErrInvalidParagraphIndex)
	}
}
