package slug

import (
	"regexp"
	"strings"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Make derives the normalization key used for candidate identity and
// id hints. Distinct after lowercasing and stripping punctuation means
// distinct here too.
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// Shorten slugs the input and caps it at max bytes, never ending on a
// hyphen. Make only emits ASCII, so byte slicing is safe.
func Shorten(input string, max int) string {
	s := Make(input)
	if max > 0 && len(s) > max {
		s = strings.TrimRight(s[:max], "-")
	}
	return s
}
