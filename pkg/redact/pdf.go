package redact

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"codeberg.org/go-pdf/fpdf"
)

// AssemblePDF builds a PDF from redacted page images, one page per image,
// each page sized to its image so no scaling artifacts soften the painted
// boxes. Rasterizing the source PDF into page images happens upstream.
func AssemblePDF(pageImages [][]byte) ([]byte, error) {
	if len(pageImages) == 0 {
		return nil, fmt.Errorf("redact: no page images to assemble")
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	for i, data := range pageImages {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("redact: decode page image %d: %w", i+1, err)
		}
		w, h := float64(cfg.Width), float64(cfg.Height)

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		imageName := fmt.Sprintf("page%d", i+1)
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: strings.ToUpper(format)}
		pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(data))
		pdf.ImageOptions(imageName, 0, 0, w, h, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("redact: generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
