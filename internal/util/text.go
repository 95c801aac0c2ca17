package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize returns the comparison form of a value: lowercased, decomposed
// with nonspacing marks removed, and trimmed. It must never be used for display.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(input string) string {
	if input == "" {
		return ""
	}
	s := strings.ToLower(input)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(out)
}

// Tokenize splits the normalized input on whitespace runs.
func Tokenize(input string) []string {
	return strings.Fields(Normalize(input))
}

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
