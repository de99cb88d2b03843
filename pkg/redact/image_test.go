package redact

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/redactkit/redactkit/pkg/ocr"
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func noPaddingConfig(m Method) Config {
	cfg := DefaultConfig()
	cfg.Method = m
	cfg.Padding = 0
	return cfg
}

func TestRedactImageBlackbox(t *testing.T) {
	src := whiteImage(100, 50)
	regions := []ocr.Region{{X: 10, Y: 10, Width: 20, Height: 10}}

	out, err := RedactImage(src, 0, regions, noPaddingConfig(MethodBlackbox))
	if err != nil {
		t.Fatalf("RedactImage: %v", err)
	}
	if c := out.RGBAAt(15, 12); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("pixel inside region = %v, want black", c)
	}
	if c := out.RGBAAt(5, 5); c.R != 255 {
		t.Errorf("pixel outside region = %v, want white", c)
	}
	// Source stays pristine.
	if c := src.RGBAAt(15, 12); c.R != 255 {
		t.Errorf("source pixel modified: %v", c)
	}
}

func TestRedactImagePadding(t *testing.T) {
	src := whiteImage(100, 50)
	cfg := noPaddingConfig(MethodBlackbox)
	cfg.Padding = 5

	out, err := RedactImage(src, 0, []ocr.Region{{X: 10, Y: 10, Width: 10, Height: 10}}, cfg)
	if err != nil {
		t.Fatalf("RedactImage: %v", err)
	}
	if c := out.RGBAAt(6, 6); c.R != 0 {
		t.Errorf("padded pixel = %v, want black", c)
	}
	if c := out.RGBAAt(4, 4); c.R != 255 {
		t.Errorf("pixel beyond padding = %v, want white", c)
	}
}

func TestRedactImageIdempotent(t *testing.T) {
	src := whiteImage(100, 50)
	regions := []ocr.Region{{X: 10, Y: 10, Width: 20, Height: 10}}
	cfg := noPaddingConfig(MethodBlackbox)

	once, err := RedactImage(src, 0, regions, cfg)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := RedactImage(once, 0, regions, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(once.Pix, twice.Pix) {
		t.Error("second application changed pixels")
	}
}

func TestRedactImageNoRegionsIsCopy(t *testing.T) {
	src := whiteImage(40, 40)
	src.SetRGBA(3, 3, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	out, err := RedactImage(src, 0, nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src.Pix, out.Pix) {
		t.Error("copy differs from source")
	}
}

func TestRedactImageSkipsOutOfBoundsRegion(t *testing.T) {
	src := whiteImage(40, 40)
	out, err := RedactImage(src, 0, []ocr.Region{{X: 200, Y: 200, Width: 10, Height: 10}}, noPaddingConfig(MethodBlackbox))
	if err != nil {
		t.Fatalf("RedactImage: %v", err)
	}
	if !bytes.Equal(src.Pix, out.Pix) {
		t.Error("out-of-bounds region modified pixels")
	}
}

func TestRedactImageFiltersOtherPages(t *testing.T) {
	src := whiteImage(40, 40)
	regions := []ocr.Region{
		{X: 5, Y: 5, Width: 10, Height: 10, Page: 1},
		{X: 25, Y: 25, Width: 10, Height: 10, Page: 2},
	}

	out, err := RedactImage(src, 1, regions, noPaddingConfig(MethodBlackbox))
	if err != nil {
		t.Fatalf("RedactImage: %v", err)
	}
	if c := out.RGBAAt(8, 8); c.R != 0 {
		t.Errorf("page 1 region pixel = %v, want black", c)
	}
	if c := out.RGBAAt(28, 28); c.R != 255 {
		t.Errorf("page 2 region painted onto page 1: %v", c)
	}
}

func TestRedactImageBlur(t *testing.T) {
	src := whiteImage(60, 60)
	// Hard black square inside the region gives the blur an edge to soften.
	draw.Draw(src, image.Rect(20, 20, 30, 30), image.NewUniform(color.Black), image.Point{}, draw.Src)

	region := ocr.Region{X: 10, Y: 10, Width: 40, Height: 40}
	out, err := RedactImage(src, 0, []ocr.Region{region}, noPaddingConfig(MethodBlur))
	if err != nil {
		t.Fatalf("RedactImage: %v", err)
	}
	// The square's edge must no longer be a hard transition.
	if c := out.RGBAAt(20, 25); c.R == 0 || c.R == 255 {
		t.Errorf("edge pixel = %v, want blurred gray", c)
	}
	if c := out.RGBAAt(5, 5); c.R != 255 {
		t.Errorf("pixel outside region = %v, want untouched white", c)
	}
}

func TestRedactImagePixelate(t *testing.T) {
	src := whiteImage(64, 64)
	// Single black pixel; pixelation spreads or drops it block-wide.
	src.SetRGBA(16, 16, color.RGBA{A: 255})

	region := ocr.Region{X: 8, Y: 8, Width: 32, Height: 32}
	cfg := noPaddingConfig(MethodPixelate)
	cfg.PixelSize = 8

	out, err := RedactImage(src, 0, []ocr.Region{region}, cfg)
	if err != nil {
		t.Fatalf("RedactImage: %v", err)
	}
	// Whatever value the block took, it must be uniform across the block.
	base := out.RGBAAt(16, 16)
	for _, p := range []image.Point{{17, 16}, {16, 17}, {18, 18}} {
		if c := out.RGBAAt(p.X, p.Y); c != base {
			t.Errorf("block not uniform: %v at %v vs %v", c, p, base)
		}
	}
	if c := out.RGBAAt(4, 4); c.R != 255 {
		t.Errorf("pixel outside region = %v, want untouched white", c)
	}
}

func TestAssemblePDF(t *testing.T) {
	var page bytes.Buffer
	if err := png.Encode(&page, whiteImage(100, 50)); err != nil {
		t.Fatal(err)
	}

	pdf, err := AssemblePDF([][]byte{page.Bytes(), page.Bytes()})
	if err != nil {
		t.Fatalf("AssemblePDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", pdf[:8])
	}
}

func TestAssemblePDFEmpty(t *testing.T) {
	if _, err := AssemblePDF(nil); err == nil {
		t.Error("AssemblePDF accepted an empty page list")
	}
}

func TestAssemblePDFBadImage(t *testing.T) {
	if _, err := AssemblePDF([][]byte{[]byte("not an image")}); err == nil {
		t.Error("AssemblePDF accepted undecodable image data")
	}
}
