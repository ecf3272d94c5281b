package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXExtractor emits one line per Word paragraph. Tables are flattened
// cell by cell.
type DOCXExtractor struct{}

func (e *DOCXExtractor) Extract(r io.Reader) (string, error) {
	tmp, size, cleanup, err := spool(r, "trip-docx-*.docx")
	if err != nil {
		return "", err
	}
	defer cleanup()

	doc, err := docx.Parse(tmp, size)
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			lines = append(lines, paragraphText(it))
		case *docx.Table:
			for _, row := range it.TableRows {
				for _, cell := range row.TableCells {
					for _, p := range cell.Paragraphs {
						lines = append(lines, paragraphText(p))
					}
				}
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Tab:
				buf.WriteByte(' ')
			}
		}
	}
	return buf.String()
}
