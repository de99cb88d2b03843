// Package resolve maps detected PII values onto document coordinates.
//
// Detection runs over a document's concatenated text, but redaction needs
// positions: pixel rectangles for OCR'd images and PDFs, character offsets
// for plain text. OCR splits values across tokens, drops separators and
// misreads characters, so a plain text search cannot find them. This
// package closes that gap with two resolvers:
//
//   - Resolver.Resolve walks a cascade of matching strategies over an
//     ocr.TokenIndex, from exact single-token matches down to fuzzy digit
//     accumulation, and returns the bounding region of the best match.
//   - ResolveOffsets searches the normalized text and maps the match back
//     to original character offsets.
//
// A failed resolution is an expected outcome, not an error: both return a
// boolean and leave the value for the caller to report as unresolved.
package resolve

import (
	"log/slog"
	"strings"

	"github.com/redactkit/redactkit/pkg/ocr"
)

// Resolver locates PII values among the tokens of one document.
// It is safe for concurrent use: the token index is immutable and Resolve
// keeps no state between calls.
type Resolver struct {
	idx *ocr.TokenIndex
	th  Thresholds
	log *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThresholds overrides the default geometry limits.
func WithThresholds(th Thresholds) Option {
	return func(r *Resolver) { r.th = th }
}

// WithLogger sets the logger strategy decisions are traced to.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// NewResolver builds a Resolver over a token index.
func NewResolver(idx *ocr.TokenIndex, opts ...Option) *Resolver {
	r := &Resolver{idx: idx, th: DefaultThresholds(), log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type strategy struct {
	name string
	fn   func(norm string) (ocr.Region, bool)
}

// Resolve finds the region covering value. Strategies run in order from
// strictest to loosest; the first candidate that passes the area sanity
// bound wins. The boolean is false when no strategy produced an acceptable
// region.
//
// The value itself is never logged, only its length.
func (r *Resolver) Resolve(value string) (ocr.Region, bool) {
	norm := ocr.Normalize(value)
	if norm == "" {
		return ocr.Region{}, false
	}
	maxArea := len(norm) * r.th.AreaPerChar * r.th.AreaMultiplier

	strategies := []strategy{
		{"exact-token", r.exactToken},
		{"token-run", r.tokenRun},
		{"digit-groups", r.digitGroups},
		{"fuzzy-digits", r.fuzzyDigits},
		{"substring", r.substring},
	}
	for _, s := range strategies {
		region, ok := s.fn(norm)
		if !ok {
			continue
		}
		if region.Area() > maxArea {
			r.log.Debug("rejecting oversized region",
				"strategy", s.name,
				"value_len", len(norm),
				"area", region.Area(),
				"max_area", maxArea)
			continue
		}
		r.log.Debug("resolved region",
			"strategy", s.name,
			"value_len", len(norm),
			"region", region.String())
		return region, true
	}
	r.log.Debug("value not resolved to a region", "value_len", len(norm))
	return ocr.Region{}, false
}

// exactToken matches the value against whole tokens.
func (r *Resolver) exactToken(norm string) (ocr.Region, bool) {
	for i := 0; i < r.idx.TokenCount(); i++ {
		if r.idx.NormalizedToken(i) != norm {
			continue
		}
		region, err := r.idx.BoundsOfRange([]int{i})
		if err != nil {
			continue
		}
		return region, true
	}
	return ocr.Region{}, false
}

// tokenRun reconstructs a value that OCR split across consecutive tokens.
// Tokens join only while they stay geometrically plausible: on the same
// line with a bounded gap, or across a single line wrap where the run drops
// by a line height and regresses leftward.
func (r *Resolver) tokenRun(norm string) (ocr.Region, bool) {
	n := r.idx.TokenCount()
	window := r.th.MaxWindow
	if w := len(norm) + 2; w < window {
		window = w
	}
	for i := 0; i < n; i++ {
		concat := ""
		for j := i; j < n && j-i < window; j++ {
			if j > i && !r.runAdjacent(r.idx.Token(j-1), r.idx.Token(j)) {
				break
			}
			concat += r.idx.NormalizedToken(j)
			if !strings.HasPrefix(norm, concat) {
				break
			}
			if concat != norm {
				continue
			}
			run := indexRange(i, j)
			if !r.runPlausible(run) {
				break
			}
			region, err := r.idx.BoundsOfRange(run)
			if err != nil {
				break
			}
			return region, true
		}
	}
	return ocr.Region{}, false
}

// digitGroups matches a 12-digit value against the digits of up to five
// adjacent tokens, ignoring any non-digit characters inside them. This
// recovers grouped identity numbers where the groups carry OCR noise the
// plain concatenation strategy trips over.
func (r *Resolver) digitGroups(norm string) (ocr.Region, bool) {
	if len(norm) != 12 || !allDigits(norm) {
		return ocr.Region{}, false
	}
	n := r.idx.TokenCount()
	for i := 0; i < n; i++ {
		concat := ""
		for j := i; j < n && j-i < 5; j++ {
			if j > i && !r.runAdjacent(r.idx.Token(j-1), r.idx.Token(j)) {
				break
			}
			concat += digitsOf(r.idx.Token(j).Text)
			if !strings.HasPrefix(norm, concat) {
				break
			}
			if concat != norm {
				continue
			}
			run := indexRange(i, j)
			if !r.runPlausible(run) {
				break
			}
			region, err := r.idx.BoundsOfRange(run)
			if err != nil {
				break
			}
			return region, true
		}
	}
	return ocr.Region{}, false
}

// fuzzyDigits accumulates digits across tokens until they spell the
// value's digit string. Tokens without digits are skipped; a token whose
// digits break the accumulated prefix restarts the run at that token. The
// geometry limits are looser than tokenRun's since the digits may be
// scattered among label text.
func (r *Resolver) fuzzyDigits(norm string) (ocr.Region, bool) {
	target := digitsOf(norm)
	if len(target) < r.th.MinFuzzyDigits {
		return ocr.Region{}, false
	}
	acc := ""
	var run []int
	for i := 0; i < r.idx.TokenCount(); i++ {
		d := digitsOf(r.idx.Token(i).Text)
		if d == "" {
			continue
		}
		if len(run) > 0 && !r.fuzzyAdjacent(r.idx.Token(run[len(run)-1]), r.idx.Token(i)) {
			acc, run = "", nil
		}
		acc += d
		run = append(run, i)
		if !strings.HasPrefix(target, acc) {
			acc, run = d, []int{i}
			if !strings.HasPrefix(target, acc) {
				acc, run = "", nil
				continue
			}
		}
		if acc != target {
			continue
		}
		region, err := r.idx.BoundsOfRange(run)
		if err != nil {
			acc, run = "", nil
			continue
		}
		return region, true
	}
	return ocr.Region{}, false
}

// substring handles a value embedded inside a larger token, slicing the
// token's box horizontally under the assumption of uniform character
// width. Short values are excluded; they produce too many false positives.
func (r *Resolver) substring(norm string) (ocr.Region, bool) {
	if len(norm) <= r.th.MinSubstringLen {
		return ocr.Region{}, false
	}
	for i := 0; i < r.idx.TokenCount(); i++ {
		tn := r.idx.NormalizedToken(i)
		pos := strings.Index(tn, norm)
		if pos < 0 {
			continue
		}
		tok := r.idx.Token(i)
		charWidth := float64(tok.Width) / float64(len(tn))
		return ocr.Region{
			X:      tok.Left + int(float64(pos)*charWidth+0.5),
			Y:      tok.Top,
			Width:  int(float64(len(norm))*charWidth + 0.5),
			Height: tok.Height,
			Page:   tok.Page,
		}, true
	}
	return ocr.Region{}, false
}

// runPlausible rejects token runs spanning more than two printed lines;
// adjacency checks only look at consecutive pairs and would let a run wrap
// repeatedly.
func (r *Resolver) runPlausible(run []int) bool {
	return len(r.idx.LineGroups(run, r.th.LineBreak)) <= 2
}

// runAdjacent reports whether next may extend a token run ending at prev.
func (r *Resolver) runAdjacent(prev, next ocr.Token) bool {
	vdiff := next.Top - prev.Top
	if abs(vdiff) < r.th.LineBreak {
		return next.Left-prev.Right() <= r.th.SameLineGap
	}
	// Line wrap: the run drops by roughly a line height and restarts
	// further left.
	return vdiff > r.th.WrapMinRise && vdiff < r.th.WrapMaxRise && next.Left < prev.Left
}

// fuzzyAdjacent is the looser continuation check the digit accumulator uses.
func (r *Resolver) fuzzyAdjacent(prev, next ocr.Token) bool {
	vdiff := next.Top - prev.Top
	if abs(vdiff) < r.th.FuzzySameLineVGap {
		return next.Left-prev.Right() < r.th.FuzzySameLineHGap
	}
	return vdiff > r.th.WrapMinRise && vdiff < r.th.WrapMaxRise && next.Left < prev.Left
}

func indexRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
