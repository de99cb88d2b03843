// Package hocr reads hOCR documents, the HTML-based standard format for
// OCR results, and exposes them as a flat per-page word stream suitable
// for PII location mapping.
//
// Only the positional data needed downstream is retained: each ocrx_word
// element becomes one word with its pixel bounding box and confidence,
// ordered as they appear in the document. The structural hierarchy
// (areas, paragraphs, lines) is walked but not preserved; the linearized
// text joins words with single spaces and separates only pages.
//
// Main Functions:
//
// - Parse: parses raw hOCR data into a Document
// - Document.Tokens: converts the word stream to ocr.Token values
// - Document.Text: linearizes all recognized text
package hocr

import (
	"strings"

	"github.com/redactkit/redactkit/pkg/ocr"
)

// Word is one recognized word with its pixel bounding box.
type Word struct {
	Text       string
	Left       int
	Top        int
	Width      int
	Height     int
	Confidence float64
}

// Page holds the words recognized on one page, in reading order.
type Page struct {
	Number int    // 1-based page number from ppageno, or position order
	Image  string // source image filename from the page title, if present
	Width  int
	Height int
	Words  []Word
}

// Document is a parsed hOCR file.
type Document struct {
	Title    string
	Language string
	System   string // generating OCR system from the ocr-system meta tag
	Pages    []Page
}

// Tokens flattens the document into the shared token model, tagging each
// token with its zero-based page index.
func (d *Document) Tokens() []ocr.Token {
	var tokens []ocr.Token
	for p, page := range d.Pages {
		for _, w := range page.Words {
			tokens = append(tokens, ocr.Token{
				Text:   w.Text,
				Left:   w.Left,
				Top:    w.Top,
				Width:  w.Width,
				Height: w.Height,
				Page:   p,
			})
		}
	}
	return tokens
}

// Text joins all recognized words into a single string, words separated by
// spaces and pages by double newlines.
func (d *Document) Text() string {
	var b strings.Builder
	for p, page := range d.Pages {
		if p > 0 {
			b.WriteString("\n\n")
		}
		for i, w := range page.Words {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Text)
		}
	}
	return b.String()
}
