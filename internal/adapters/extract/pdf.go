package extract

import (
	"fmt"
	"io"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor reads the plain text of every page. Pages that fail to
// decode are skipped.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(r io.Reader) (string, error) {
	tmp, size, cleanup, err := spool(r, "trip-pdf-*.pdf")
	if err != nil {
		return "", err
	}
	defer cleanup()

	reader, err := pdflib.NewReader(tmp, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			buf.WriteString(line.String())
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}
