// Package textnorm provides the case- and diacritic-insensitive folding
// used by autocomplete matching, so "Leon" finds "León" and "Ngapeth"
// finds "Ngapeth" regardless of accents in either side.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold decomposes to NFD, drops combining marks, and recomposes.
var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lower-cases s and strips combining diacritical marks.
func Fold(s string) string {
	out, _, err := transform.String(fold, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Contains reports whether the folded form of s contains the folded form
// of substr.
func Contains(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
