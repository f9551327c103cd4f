// Package textnorm normalizes free text typed by users and names returned by
// the upstream catalogue so both sides compare equal.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters with no canonical decomposition, so NFD alone leaves them intact.
var foldReplacer = strings.NewReplacer(
	"ø", "o",
	"æ", "ae",
	"œ", "oe",
	"ß", "ss",
	"đ", "d",
	"ł", "l",
	"ı", "i",
	"þ", "th",
)

// Normalize lowercases, trims and collapses internal whitespace.
func Normalize(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return cases.Lower(language.Und).String(strings.Join(fields, " "))
}

// Fold is Normalize plus diacritic stripping: "FC København" -> "fc kobenhavn".
func Fold(s string) string {
	normalized := Normalize(s)
	if normalized == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, normalized)
	if err != nil {
		stripped = normalized
	}
	return foldReplacer.Replace(stripped)
}

// Slug builds a url-safe identifier: "Real Madrid C.F." -> "real-madrid-c-f".
func Slug(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ContainsEither reports whether one folded value contains the other.
func ContainsEither(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}
