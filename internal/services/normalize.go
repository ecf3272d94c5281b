package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey folds text into a cache key: decomposed, nonspacing marks removed,
// lowercased, with every non-alphanumeric run collapsed to one space.
func NormalizeKey(s string) string {
	// Chained transformers keep state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.TrimSpace(nonAlnumRun.ReplaceAllString(folded, " "))
}
