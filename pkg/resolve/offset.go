package resolve

import (
	"strings"

	"github.com/redactkit/redactkit/pkg/ocr"
	"github.com/redactkit/redactkit/pkg/pii"
)

// Span is a character range in document text. Start is inclusive, End
// exclusive, both byte offsets into the original text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ResolveOffsets locates value in text and returns its span in original
// coordinates. The search runs over the normalized forms of both, so a
// value detected with separators still matches text where OCR or the
// detection variants dropped them; the match position is mapped back
// through an index table built during normalization.
//
// The span covers len(value) bytes from the mapped start. When the
// original spelling interleaves characters normalization strips, the end
// is an approximation; callers masking text overwrite exactly that window.
func ResolveOffsets(value, text string) (Span, bool) {
	spans := resolveSpans(value, text, 1)
	if len(spans) == 0 {
		return Span{}, false
	}
	return spans[0], true
}

// ResolveAllOffsets returns the spans of every occurrence of value in text,
// in order of appearance.
func ResolveAllOffsets(value, text string) []Span {
	return resolveSpans(value, text, -1)
}

// resolveSpans does the shared work: normalize text keeping an index map,
// find occurrences of the normalized value, map them back. limit < 0 means
// all occurrences.
func resolveSpans(value, text string, limit int) []Span {
	normValue := ocr.Normalize(value)
	if normValue == "" {
		return nil
	}

	var normText strings.Builder
	var origin []int
	for i, r := range text {
		nr := ocr.Normalize(string(r))
		if nr == "" {
			continue
		}
		from := normText.Len()
		normText.WriteString(nr)
		for j := from; j < normText.Len(); j++ {
			origin = append(origin, i)
		}
	}

	var spans []Span
	for _, idx := range pii.FindAllOccurrences(normValue, normText.String()) {
		start := origin[idx]
		end := start + len(value)
		if end > len(text) {
			end = len(text)
		}
		spans = append(spans, Span{Start: start, End: end})
		if limit > 0 && len(spans) >= limit {
			break
		}
	}
	return spans
}
