package domain

import (
	"strings"
	"unicode"
)

// NormalizeSearchText prepares free text for catalog matching:
//   - trims leading/trailing whitespace
//   - collapses every run of whitespace (tabs, newlines) into one space
//
// Case is preserved; matching is case-insensitive downstream.
func NormalizeSearchText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
