package ocr

import "strings"

// Normalize canonicalizes a string for matching comparisons. It lower-cases
// the input and strips the formatting characters that carry no PII identity:
// spaces, hyphens, parentheses, colons and plus signs.
//
// The function is pure and idempotent; empty input yields an empty string.
// Normalized strings are only ever used for equality and containment checks,
// never for output — the original casing and spacing of a value is always
// preserved in results.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '-', '(', ')', ':', '+':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
