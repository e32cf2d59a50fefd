package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

const maxSanitizeRounds = 5

// SanitizeText strips every HTML element from user supplied text such as titles and file names.
// Entity-encoded markup is decoded and stripped again until the text stops changing.
func SanitizeText(input string) string {
	s := input
	for i := 0; i < maxSanitizeRounds; i++ {
		next := html.UnescapeString(sanitizer.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	// still decoding into new markup; keep the escaped form
	return strings.TrimSpace(sanitizer.Sanitize(s))
}
