// Package normalize provides the case and diacritic insensitive string
// comparison used by every text filter.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String lowercases s and strips diacritics, so "Ação" becomes "acao".
// It is idempotent.
func String(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Value normalizes v when it is a string or *string. Any other input,
// including nil, yields "".
func Value(v any) string {
	switch s := v.(type) {
	case string:
		return String(s)
	case *string:
		if s == nil {
			return ""
		}
		return String(*s)
	default:
		return ""
	}
}

// Equal compares a and b after normalizing both sides.
func Equal(a, b string) bool {
	return String(a) == String(b)
}

// Contains reports whether needle occurs in haystack after normalizing both.
// An empty needle always matches.
func Contains(haystack, needle string) bool {
	return strings.Contains(String(haystack), String(needle))
}
