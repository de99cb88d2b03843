package scan

import "github.com/redactkit/redactkit/pkg/ocr"

// Input is the document variant a scan runs over. A document either carries
// OCR geometry, in which case values resolve to pixel regions, or it is
// plain text, in which case they resolve to character offsets. The variant
// is fixed at construction; each scan dispatches to exactly one resolver
// family.
type Input interface {
	isInput()

	// FullText returns the text the detection pass runs over.
	FullText() string
}

// Tokenized is a document with OCR token geometry. Text carries the full
// extracted text when the OCR source provides one; when empty, the
// linearized token stream is used instead.
type Tokenized struct {
	Index *ocr.TokenIndex
	Text  string
}

func (Tokenized) isInput() {}

// FullText returns the extracted text, falling back to the token stream.
func (t Tokenized) FullText() string {
	if t.Text != "" {
		return t.Text
	}
	return t.Index.Text()
}

// PlainText is a bare text document with no geometry.
type PlainText struct {
	Text string
}

func (PlainText) isInput() {}

// FullText returns the document text.
func (p PlainText) FullText() string { return p.Text }
