// Package slug turns free text into URL-safe topic identifiers.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxLen = 48

// stripMarks decomposes to NFKD and drops combining marks, so "Café" folds
// to "Cafe" before the charset filter runs.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize maps arbitrary input to a slug: lowercase [a-z0-9] runs joined
// by single hyphens, no leading/trailing hyphens, at most 48 runes.
// It is total and idempotent; garbage input yields "" and the caller must
// treat an empty slug as invalid.
func Normalize(input string) string {
	folded, _, err := transform.String(stripMarks, input)
	if err != nil {
		// Transform only fails on malformed UTF-8; the filter below
		// drops whatever is left over anyway.
		folded = input
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}

	out := b.String()
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}
