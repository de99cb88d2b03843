// Package tesseract provides a local OCR token source backed by the
// gosseract binding to the Tesseract engine. It is the offline counterpart
// to the gdocai package: one image in, a word-level token stream out.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/redactkit/redactkit/pkg/ocr"
)

// Engine performs OCR on page images using a local Tesseract installation.
type Engine struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages sets the trained-data language hints (e.g. "eng").
func WithLanguages(langs ...string) Option {
	return func(e *Engine) { e.languages = append([]string(nil), langs...) }
}

// New constructs a Tesseract-backed token source.
func New(opts ...Option) *Engine {
	e := &Engine{clientFactory: gosseract.NewClient}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recognize runs OCR over one encoded page image and returns its word
// tokens (tagged with the given page index) plus the linearized page text.
func (e *Engine) Recognize(ctx context.Context, image []byte, page int) ([]ocr.Token, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()
	default:
	}

	client := e.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return nil, "", fmt.Errorf("tesseract: set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return nil, "", fmt.Errorf("tesseract: set languages: %w", err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return nil, "", fmt.Errorf("tesseract: recognize text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, "", fmt.Errorf("tesseract: word boxes: %w", err)
	}

	tokens := make([]ocr.Token, 0, len(boxes))
	for _, b := range boxes {
		word := strings.TrimSpace(b.Word)
		if word == "" {
			continue
		}
		tokens = append(tokens, ocr.Token{
			Text:   word,
			Left:   b.Box.Min.X,
			Top:    b.Box.Min.Y,
			Width:  b.Box.Dx(),
			Height: b.Box.Dy(),
			Page:   page,
		})
	}

	return tokens, strings.TrimSpace(text), nil
}

// RecognizePages runs OCR over several page images, concatenating their
// texts with blank lines and accumulating all tokens. The page index of
// each token is its position in the input slice.
func (e *Engine) RecognizePages(ctx context.Context, images [][]byte) ([]ocr.Token, string, error) {
	var (
		tokens []ocr.Token
		texts  []string
	)
	for i, img := range images {
		pageTokens, pageText, err := e.Recognize(ctx, img, i)
		if err != nil {
			return nil, "", fmt.Errorf("page %d: %w", i+1, err)
		}
		tokens = append(tokens, pageTokens...)
		texts = append(texts, pageText)
	}
	return tokens, strings.Join(texts, "\n\n"), nil
}
