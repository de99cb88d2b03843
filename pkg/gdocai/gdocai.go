// Package gdocai turns Google Document AI OCR output into the token stream
// and full text the PII location engine consumes.
//
// Document AI reports every recognized token with a normalized bounding
// polygon; this package scales those polygons by the page dimensions into
// pixel rectangles and flattens the result into ocr.Token values, one per
// word, ordered per page.
//
// Main Functions:
//
// - ProcessDocument: sends a PDF to Document AI and returns the raw proto
// - TokensFromProto: converts a Document AI response into tokens plus text
// - ExtractTokens: the two steps combined
//
// Usage Requirements:
//
// - Google Cloud project with the Document AI API enabled
// - A processor configured for OCR
// - Authentication via the GOOGLE_APPLICATION_CREDENTIALS environment variable
package gdocai

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"gopkg.in/yaml.v3"

	"github.com/redactkit/redactkit/pkg/ocr"
)

// Config identifies the Document AI processor to use.
type Config struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}

// LoadConfig reads a YAML processor configuration from disk.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gdocai: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("gdocai: parse config: %w", err)
	}
	if cfg.ProjectID == "" || cfg.Location == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("gdocai: config must set project_id, location and processor_id")
	}
	return &cfg, nil
}

// ExtractTokens processes a PDF with Document AI and returns its token
// stream and full text.
func ExtractTokens(ctx context.Context, pdfBytes []byte, cfg *Config) ([]ocr.Token, string, error) {
	doc, err := ProcessDocument(ctx, pdfBytes, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("gdocai: process document: %w", err)
	}
	tokens, text := TokensFromProto(doc)
	return tokens, text, nil
}

// TokensFromProto flattens a Document AI response into per-word tokens with
// pixel bounding boxes, plus the document's full text. Tokens without a
// usable bounding polygon are skipped.
func TokensFromProto(doc *documentaipb.Document) ([]ocr.Token, string) {
	if doc == nil {
		return nil, ""
	}
	var tokens []ocr.Token
	for pageIdx, page := range doc.Pages {
		for _, token := range page.Tokens {
			text := textFromLayout(token.Layout, doc.Text)
			text = trimDetectedBreak(text, token)
			left, top, width, height, ok := pixelBounds(token.Layout, page.Dimension)
			if !ok || text == "" {
				continue
			}
			tokens = append(tokens, ocr.Token{
				Text:   text,
				Left:   left,
				Top:    top,
				Width:  width,
				Height: height,
				Page:   pageIdx,
			})
		}
	}
	return tokens, doc.Text
}

// pixelBounds converts a layout's normalized bounding polygon into a pixel
// rectangle by scaling with the page dimension.
func pixelBounds(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (left, top, width, height int, ok bool) {
	if layout == nil || layout.BoundingPoly == nil || dim == nil {
		return 0, 0, 0, 0, false
	}
	vertices := layout.BoundingPoly.NormalizedVertices
	if len(vertices) < 4 {
		return 0, 0, 0, 0, false
	}
	minX := int(vertices[0].X*dim.Width + 0.5)
	minY := int(vertices[0].Y*dim.Height + 0.5)
	maxX := int(vertices[2].X*dim.Width + 0.5)
	maxY := int(vertices[2].Y*dim.Height + 0.5)
	if maxX <= minX || maxY <= minY {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX - minX, maxY - minY, true
}

// textFromLayout extracts the text a layout's anchor segments point at.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	total := len(runes)
	var out []rune
	for _, seg := range layout.TextAnchor.TextSegments {
		start, end := int(seg.StartIndex), int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}
		out = append(out, runes[start:end]...)
	}
	return string(out)
}

// trimDetectedBreak removes the trailing whitespace Document AI folds into
// a token when it carries a detected break.
func trimDetectedBreak(text string, token *documentaipb.Document_Page_Token) string {
	if token.DetectedBreak == nil ||
		token.DetectedBreak.Type == documentaipb.Document_Page_Token_DetectedBreak_TYPE_UNSPECIFIED {
		return text
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	switch runes[len(runes)-1] {
	case ' ', '\n', '\r', '\t':
		return string(runes[:len(runes)-1])
	}
	return text
}
