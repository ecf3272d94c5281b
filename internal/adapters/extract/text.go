package extract

import (
	"fmt"
	"io"
)

// TextExtractor passes plain text through.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(b), nil
}
