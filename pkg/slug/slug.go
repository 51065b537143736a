// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// The rules follow the usual web-framework convention: compatibility
// decomposition, accents dropped, anything outside ASCII removed, then
// runs of whitespace and hyphens collapsed into a single hyphen.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// disallowed matches anything that is not a word character, whitespace or hyphen.
	disallowed = regexp.MustCompile(`[^\w\s-]`)
	// separators collapses runs of hyphens and whitespace.
	separators = regexp.MustCompile(`[-\s]+`)
)

// Make converts s into a lowercase ASCII slug. It may return "" when s has
// no ASCII-representable letters or digits (for example CJK-only names).
func Make(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, result)

	result = disallowed.ReplaceAllString(strings.ToLower(result), "")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-_")
}

