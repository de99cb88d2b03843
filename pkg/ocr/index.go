package ocr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyRange is returned when a bounds query is made over no tokens.
var ErrEmptyRange = errors.New("ocr: empty token range")

// TokenIndex wraps one document's OCR token stream into a queryable
// structure. It exclusively owns its token slice for the lifetime of a
// document's processing and is never mutated after construction, so
// concurrent readers need no locking.
type TokenIndex struct {
	tokens     []Token
	normalized []string // Normalize(token.Text), computed once
}

// NewTokenIndex builds an index over the given tokens. The slice is copied;
// the caller keeps no aliasing handle into the index.
func NewTokenIndex(tokens []Token) *TokenIndex {
	idx := &TokenIndex{
		tokens:     make([]Token, len(tokens)),
		normalized: make([]string, len(tokens)),
	}
	copy(idx.tokens, tokens)
	for i, t := range tokens {
		idx.normalized[i] = Normalize(t.Text)
	}
	return idx
}

// FromArrays builds an index from the parallel arrays raw OCR output comes
// in (one entry per word: text, left, top, width, height). All slices must
// have the same length.
func FromArrays(texts []string, lefts, tops, widths, heights []int) (*TokenIndex, error) {
	n := len(texts)
	if len(lefts) != n || len(tops) != n || len(widths) != n || len(heights) != n {
		return nil, fmt.Errorf("ocr: parallel arrays have mismatched lengths (%d texts, %d/%d/%d/%d coords)",
			n, len(lefts), len(tops), len(widths), len(heights))
	}
	tokens := make([]Token, n)
	for i := 0; i < n; i++ {
		tokens[i] = Token{
			Text:   texts[i],
			Left:   lefts[i],
			Top:    tops[i],
			Width:  widths[i],
			Height: heights[i],
		}
	}
	return NewTokenIndex(tokens), nil
}

// TokenCount returns the number of tokens in the index.
func (idx *TokenIndex) TokenCount() int { return len(idx.tokens) }

// Token returns the token at position i.
func (idx *TokenIndex) Token(i int) Token { return idx.tokens[i] }

// NormalizedToken returns the memoized normalization of token i's text.
// Empty tokens stay empty.
func (idx *TokenIndex) NormalizedToken(i int) string { return idx.normalized[i] }

// Text linearizes the token stream into a single space-joined string,
// skipping empty tokens. Useful when no separately extracted full text
// accompanies the token stream.
func (idx *TokenIndex) Text() string {
	var b strings.Builder
	for _, t := range idx.tokens {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// BoundsOfRange computes the union rectangle over the tokens at the given
// positions: x=min(left), y=min(top), extending to max(right) and
// max(bottom). The page is taken from the first token in the range.
// Returns ErrEmptyRange when indices is empty.
func (idx *TokenIndex) BoundsOfRange(indices []int) (Region, error) {
	if len(indices) == 0 {
		return Region{}, ErrEmptyRange
	}
	first := idx.tokens[indices[0]]
	minX, minY := first.Left, first.Top
	maxX, maxY := first.Right(), first.Bottom()
	for _, i := range indices[1:] {
		t := idx.tokens[i]
		if t.Left < minX {
			minX = t.Left
		}
		if t.Top < minY {
			minY = t.Top
		}
		if t.Right() > maxX {
			maxX = t.Right()
		}
		if t.Bottom() > maxY {
			maxY = t.Bottom()
		}
	}
	return Region{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
		Page:   first.Page,
	}, nil
}

// LineGroups partitions an ordered token index sequence into contiguous runs
// sharing a printed line: consecutive tokens whose top coordinates differ by
// no more than maxGap pixels stay in one group, a larger vertical jump
// starts the next. Multi-line PII spans are detected and validated through
// these groups.
func (idx *TokenIndex) LineGroups(indices []int, maxGap int) [][]int {
	if len(indices) == 0 {
		return nil
	}
	var groups [][]int
	current := []int{indices[0]}
	for _, i := range indices[1:] {
		prev := idx.tokens[current[len(current)-1]]
		cur := idx.tokens[i]
		gap := cur.Top - prev.Top
		if gap < 0 {
			gap = -gap
		}
		if gap > maxGap {
			groups = append(groups, current)
			current = []int{i}
			continue
		}
		current = append(current, i)
	}
	groups = append(groups, current)
	return groups
}
