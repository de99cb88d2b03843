// Package ocr defines the token and region model shared by every PII
// location component, plus the queryable token index built on top of it.
//
// An OCR engine (Tesseract, Document AI, an hOCR file) produces one Token
// per recognized word: its text and its pixel bounding rectangle on the
// page. The TokenIndex wraps one document's token stream into an immutable,
// query-friendly structure supporting union-rectangle and line-grouping
// queries, which the resolution cascade is built on.
//
// Key Types:
//
// - Token: one recognized word with its pixel rectangle
// - Region: a pixel rectangle, possibly the union of several token rectangles
// - TokenIndex: immutable per-document index over a token stream
//
// Main Functions:
//
// - Normalize: canonicalizes a string for matching comparisons
// - NewTokenIndex: builds an index from a token slice
// - FromArrays: builds an index from parallel OCR output arrays
package ocr

import "fmt"

// Token is a single OCR-recognized word with its bounding rectangle.
// Coordinates are page-local pixels with the origin in the upper-left
// corner. Tokens are immutable once captured.
type Token struct {
	Text   string
	Left   int
	Top    int
	Width  int
	Height int
	Page   int
}

// Right returns the x coordinate of the token's right edge.
func (t Token) Right() int { return t.Left + t.Width }

// Bottom returns the y coordinate of the token's bottom edge.
func (t Token) Bottom() int { return t.Top + t.Height }

// Region is a pixel rectangle marking where a PII value appears visually.
// Page is 0 for single-page or image inputs.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Page   int `json:"page,omitempty"`
}

// Area returns the region's area in square pixels.
func (r Region) Area() int { return r.Width * r.Height }

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Clamp trims the region to the given bounds. The result may be empty
// when the region lies entirely outside the bounds.
func (r Region) Clamp(minX, minY, maxX, maxY int) Region {
	x1, y1 := r.X, r.Y
	x2, y2 := r.X+r.Width, r.Y+r.Height
	if x1 < minX {
		x1 = minX
	}
	if y1 < minY {
		y1 = minY
	}
	if x2 > maxX {
		x2 = maxX
	}
	if y2 > maxY {
		y2 = maxY
	}
	return Region{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1, Page: r.Page}
}

// String renders the region for logs and error messages.
func (r Region) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d) page %d", r.Width, r.Height, r.X, r.Y, r.Page)
}
