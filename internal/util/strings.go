// Package util holds small string helpers shared by config lookups, the
// provider registry, scope matching and count formatting.
package util

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// NormalizeKey lowercases and trims a string for use as a consistent lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameKey reports whether a and b normalize to the same key.
func SameKey(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}

// SignedComma formats a delta with comma grouping and an explicit sign.
// Zero renders as "+0"; negative values keep their own minus sign.
func SignedComma(n int64) string {
	if n < 0 {
		return humanize.Comma(n)
	}
	return "+" + humanize.Comma(n)
}
