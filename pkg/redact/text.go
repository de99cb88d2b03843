package redact

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/redactkit/redactkit/pkg/resolve"
)

// ErrOverlappingSpans is returned when two redaction spans intersect.
// Overlap means the scan produced inconsistent positions; silently merging
// would hide that.
var ErrOverlappingSpans = errors.New("redact: overlapping spans")

// MaskText overwrites each span of text with the mask rune, one mask per
// original rune. Spans are applied from the highest start downward so
// earlier replacements cannot shift later offsets.
func MaskText(text string, spans []resolve.Span, mask rune) (string, error) {
	if len(spans) == 0 {
		return text, nil
	}

	ordered := make([]resolve.Span, len(spans))
	copy(ordered, spans)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	for i, s := range ordered {
		if s.Start < 0 || s.End > len(text) || s.Start >= s.End {
			return "", fmt.Errorf("redact: span {%d %d} out of range for %d-byte text", s.Start, s.End, len(text))
		}
		if i > 0 && s.End > ordered[i-1].Start {
			return "", fmt.Errorf("%w: {%d %d} and {%d %d}", ErrOverlappingSpans,
				s.Start, s.End, ordered[i-1].Start, ordered[i-1].End)
		}
	}

	out := text
	for _, s := range ordered {
		runes := utf8.RuneCountInString(out[s.Start:s.End])
		out = out[:s.Start] + strings.Repeat(string(mask), runes) + out[s.End:]
	}
	return out, nil
}
